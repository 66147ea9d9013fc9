package equation

import (
	"testing"

	"gobalance/domain/stats"

	"github.com/stretchr/testify/assert"
)

func TestPolynomial_Linear(t *testing.T) {
	f := DefaultFormat()
	assert.Equal(t, "y = 2.00x + 1.00", f.Polynomial([]float64{2, 1}))
	assert.Equal(t, "y = 2.00x - 1.00", f.Polynomial([]float64{2, -1}))
	assert.Equal(t, "y = -0.50x + 3.25", f.Polynomial([]float64{-0.5, 3.25}))
}

func TestPolynomial_Quadratic(t *testing.T) {
	f := DefaultFormat()
	assert.Equal(t, "y = 1.00x² - 3.00x + 2.00", f.Polynomial([]float64{1, -3, 2}))
}

func TestPolynomial_IntegerPrecision(t *testing.T) {
	f := Format{Precision: 0}
	assert.Equal(t, "y = 2x + 3", f.Polynomial([]float64{2, 3}))
	assert.Equal(t, "y = 1x² - 3x + 2", f.Polynomial([]float64{1, -3, 2}))
}

func TestPolynomial_AutoPrecisionForTinySlope(t *testing.T) {
	f := DefaultFormat()
	assert.Equal(t, "y = 0.00012x + 4.20", f.Polynomial([]float64{0.000123, 4.2}))
	// a coefficient visible at the base precision is left alone
	assert.Equal(t, "y = 0.05x + 4.20", f.Polynomial([]float64{0.05, 4.2}))

	fixed := Format{Precision: 2}
	assert.Equal(t, "y = 0.00x + 4.20", fixed.Polynomial([]float64{0.000123, 4.2}))
}

func TestPolynomial_AutoPrecisionIsCapped(t *testing.T) {
	f := DefaultFormat()
	assert.Equal(t, "y = 0.0000000000x + 1.00", f.Polynomial([]float64{1e-15, 1}))
}

func TestPolynomial_NegativeZeroPrintsPlus(t *testing.T) {
	f := Format{Precision: 2}
	assert.Equal(t, "y = 3.00x + 0.00", f.Polynomial([]float64{3, -0.001}))
}

func TestLegend_WithRSquared(t *testing.T) {
	fit := stats.FitResult{Coefficients: []float64{0.0042, 1.5}}.WithRSquared(0.87654321)
	f := Format{Precision: 6, RSquaredPrecision: 6}
	assert.Equal(t, "Weapons: y = 0.004200x + 1.500000, R² = 0.876543", f.Legend("Weapons", fit))
}

func TestLegend_NoLabel(t *testing.T) {
	fit := stats.FitResult{Coefficients: []float64{2, 1}}
	assert.Equal(t, "y = 2.00x + 1.00", DefaultFormat().Legend("", fit))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Fire", Capitalize("fire"))
	assert.Equal(t, "One-hand", Capitalize("one-hand"))
	assert.Equal(t, "Ärger", Capitalize("ärger"))
	assert.Equal(t, "", Capitalize(""))
}
