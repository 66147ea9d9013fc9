package regression

import (
	"math"
	"testing"

	"gobalance/domain/core"
	"gobalance/domain/dataset"
	internalDataset "gobalance/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// groupOf builds a single group from (x, y) pairs; a NaN y leaves the field out
func groupOf(label string, xy ...[2]float64) dataset.Group {
	records := make([]dataset.Record, 0, len(xy))
	for _, p := range xy {
		rec := dataset.Record{"x": p[0]}
		if !math.IsNaN(p[1]) {
			rec["y"] = p[1]
		}
		records = append(records, rec)
	}
	d := internalDataset.Flatten(label, "", records)
	return internalDataset.All(d, label)
}

func TestFit_LinearScenario(t *testing.T) {
	g := groupOf("g", [2]float64{1, 3}, [2]float64{2, 5}, [2]float64{3, 7})

	fit, err := Fit(g, "x", "y", 1)
	require.NoError(t, err)

	require.Len(t, fit.Coefficients, 2)
	assert.InDelta(t, 2.0, fit.Slope(), 1e-9)
	assert.InDelta(t, 1.0, fit.Intercept(), 1e-9)
	assert.Equal(t, 1.0, fit.XMin)
	assert.Equal(t, 3.0, fit.XMax)
	assert.Equal(t, 3, fit.N)
	assert.Nil(t, fit.RSquared)
}

func TestFit_RecoversExactLine(t *testing.T) {
	a, b := -0.75, 12.5
	var pts [][2]float64
	for i := 0; i < 25; i++ {
		x := float64(i) * 0.4
		pts = append(pts, [2]float64{x, a*x + b})
	}

	fit, err := Fit(groupOf("line", pts...), "x", "y", 1)
	require.NoError(t, err)
	assert.InDelta(t, a, fit.Coefficients[0], 1e-9)
	assert.InDelta(t, b, fit.Coefficients[1], 1e-9)
}

func TestFit_RecoversExactQuadratic(t *testing.T) {
	a, b, c := 1.0, -3.0, 2.0
	var pts [][2]float64
	for i := -5; i <= 5; i++ {
		x := float64(i)
		pts = append(pts, [2]float64{x, a*x*x + b*x + c})
	}

	fit, err := Fit(groupOf("quad", pts...), "x", "y", 2)
	require.NoError(t, err)
	require.Len(t, fit.Coefficients, 3)
	assert.InDelta(t, a, fit.Coefficients[0], 1e-9)
	assert.InDelta(t, b, fit.Coefficients[1], 1e-9)
	assert.InDelta(t, c, fit.Coefficients[2], 1e-9)
	assert.InDelta(t, 2.0, fit.Eval(0), 1e-9)
}

func TestFit_QuadraticOnExactlyThreePoints(t *testing.T) {
	fit, err := Fit(groupOf("q", [2]float64{0, 1}, [2]float64{1, 2}, [2]float64{2, 5}), "x", "y", 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fit.Coefficients[0], 1e-9)
	assert.InDelta(t, 0.0, fit.Coefficients[1], 1e-9)
	assert.InDelta(t, 1.0, fit.Coefficients[2], 1e-9)
}

func TestFit_RowWithoutYIsExcluded(t *testing.T) {
	g := groupOf("g",
		[2]float64{1, 3},
		[2]float64{2, 5},
		[2]float64{10, math.NaN()},
		[2]float64{3, 7},
	)

	fit, err := Fit(g, "x", "y", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, fit.N)
	assert.Equal(t, 3.0, fit.XMax, "x-range must come from usable rows only")
	assert.InDelta(t, 2.0, fit.Slope(), 1e-9)
}

func TestFit_NonFiniteTextIsExcluded(t *testing.T) {
	d := internalDataset.Flatten("g", "", []dataset.Record{
		{"x": 1.0, "y": 3.0},
		{"x": "NaN", "y": 100.0},
		{"x": 2.0, "y": 5.0},
		{"x": 3.0, "y": "Inf"},
		{"x": 3.0, "y": 7.0},
	})
	g := internalDataset.All(d, "g")

	fit, err := Fit(g, "x", "y", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, fit.N)
	assert.InDelta(t, 2.0, fit.Slope(), 1e-9)

	r2, err := GoodnessOfFit(g, "x", "y")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r2, 1e-9)
}

func TestFit_InsufficientData(t *testing.T) {
	_, err := Fit(groupOf("one", [2]float64{1, 1}), "x", "y", 1)
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	// three rows but only one distinct x
	_, err = Fit(groupOf("flat", [2]float64{2, 1}, [2]float64{2, 3}, [2]float64{2, 5}), "x", "y", 1)
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	// a quadratic needs three distinct x values
	_, err = Fit(groupOf("two", [2]float64{1, 1}, [2]float64{1, 2}, [2]float64{3, 5}), "x", "y", 2)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestFit_InvalidDegree(t *testing.T) {
	g := groupOf("g", [2]float64{1, 3}, [2]float64{2, 5}, [2]float64{3, 7}, [2]float64{4, 9})
	_, err := Fit(g, "x", "y", 3)
	assert.ErrorIs(t, err, core.ErrInvalidDegree)
	_, err = Fit(g, "x", "y", 0)
	assert.ErrorIs(t, err, core.ErrInvalidDegree)
}

func TestFit_FieldNotFound(t *testing.T) {
	g := groupOf("g", [2]float64{1, 3}, [2]float64{2, 5})
	_, err := Fit(g, "x", "stats.damage", 1)
	assert.ErrorIs(t, err, core.ErrFieldNotFound)
}

func TestGoodnessOfFit_PerfectLine(t *testing.T) {
	g := groupOf("g", [2]float64{1, 3}, [2]float64{2, 5}, [2]float64{3, 7}, [2]float64{4, 9})
	r2, err := GoodnessOfFit(g, "x", "y")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r2, 1e-12)

	neg := groupOf("neg", [2]float64{1, 9}, [2]float64{2, 7}, [2]float64{3, 5})
	r2, err = GoodnessOfFit(neg, "x", "y")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r2, 1e-12)
}

func TestGoodnessOfFit_TwoPointsIsInsufficient(t *testing.T) {
	g := groupOf("g", [2]float64{1, 3}, [2]float64{2, 5})
	_, err := GoodnessOfFit(g, "x", "y")
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestGoodnessOfFit_MatchesSquaredCorrelation(t *testing.T) {
	g := groupOf("g", [2]float64{1, 2}, [2]float64{2, 1}, [2]float64{3, 4}, [2]float64{4, 3})
	r2, err := GoodnessOfFit(g, "x", "y")
	require.NoError(t, err)
	// r = 0.6 for this sample
	assert.InDelta(t, 0.36, r2, 1e-12)
}

func TestGoodnessOfFit_ConstantYIsZero(t *testing.T) {
	g := groupOf("g", [2]float64{1, 2}, [2]float64{2, 2}, [2]float64{3, 2})
	r2, err := GoodnessOfFit(g, "x", "y")
	require.NoError(t, err)
	assert.Equal(t, 0.0, r2)
}

func TestSample_SpansGroupRange(t *testing.T) {
	fit, err := Fit(groupOf("g", [2]float64{2, 5}, [2]float64{4, 9}, [2]float64{6, 13}), "x", "y", 1)
	require.NoError(t, err)

	xs, ys := Sample(fit, 100)
	require.Len(t, xs, 100)
	assert.Equal(t, 2.0, xs[0])
	assert.Equal(t, 6.0, xs[99])
	for i := range xs {
		assert.InDelta(t, 2*xs[i]+1, ys[i], 1e-9)
	}
}
