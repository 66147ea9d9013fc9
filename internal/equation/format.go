// Package equation renders fitted polynomials as legend text.
package equation

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"gobalance/domain/stats"
)

const (
	DefaultPrecision         = 2
	DefaultRSquaredPrecision = 6
	MaxPrecision             = 10
)

// Format controls how coefficients are printed
type Format struct {
	Precision         int  `yaml:"precision" json:"precision"`                     // decimals per coefficient
	AutoPrecision     bool `yaml:"auto_precision" json:"auto_precision"`           // widen tiny coefficients instead of printing 0.00
	RSquaredPrecision int  `yaml:"r_squared_precision" json:"r_squared_precision"` // decimals for R²
}

// DefaultFormat prints two decimals and widens coefficients that would round to zero
func DefaultFormat() Format {
	return Format{
		Precision:         DefaultPrecision,
		AutoPrecision:     true,
		RSquaredPrecision: DefaultRSquaredPrecision,
	}
}

// Polynomial renders coefficients (highest degree first) as "y = 2.00x + 1.00"
func (f Format) Polynomial(coeffs []float64) string {
	if len(coeffs) == 0 {
		return "y = 0"
	}
	var sb strings.Builder
	sb.WriteString("y = ")
	degree := len(coeffs) - 1
	for i, c := range coeffs {
		prec := f.precisionFor(c)
		abs := strconv.FormatFloat(math.Abs(c), 'f', prec, 64)
		negative := c < 0 && !isZeroText(abs)

		switch {
		case i == 0 && negative:
			sb.WriteString("-")
		case i > 0 && negative:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		}
		sb.WriteString(abs)
		sb.WriteString(term(degree - i))
	}
	return sb.String()
}

// Legend renders "<label>: <equation>" plus ", R² = ..." when the fit carries one
func (f Format) Legend(label string, fit stats.FitResult) string {
	var sb strings.Builder
	if label != "" {
		sb.WriteString(label)
		sb.WriteString(": ")
	}
	sb.WriteString(f.Polynomial(fit.Coefficients))
	if fit.RSquared != nil {
		prec := f.RSquaredPrecision
		if prec < 0 {
			prec = DefaultRSquaredPrecision
		}
		sb.WriteString(", R² = ")
		sb.WriteString(strconv.FormatFloat(*fit.RSquared, 'f', prec, 64))
	}
	return sb.String()
}

// precisionFor widens the decimals of a coefficient smaller than 10^-Precision
// so that two significant digits survive, capped at MaxPrecision
func (f Format) precisionFor(c float64) int {
	base := f.Precision
	if base < 0 {
		base = DefaultPrecision
	}
	if base > MaxPrecision {
		base = MaxPrecision
	}
	if !f.AutoPrecision || c == 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return base
	}
	abs := math.Abs(c)
	if abs >= math.Pow(10, -float64(base)) {
		return base
	}
	need := int(math.Floor(-math.Log10(abs))) + 2
	if need > MaxPrecision {
		need = MaxPrecision
	}
	if need < base {
		return base
	}
	return need
}

func term(power int) string {
	switch power {
	case 0:
		return ""
	case 1:
		return "x"
	default:
		return "x" + superscript(power)
	}
}

var superscripts = []rune{'⁰', '¹', '²', '³', '⁴', '⁵', '⁶', '⁷', '⁸', '⁹'}

func superscript(n int) string {
	var sb strings.Builder
	for _, r := range strconv.Itoa(n) {
		sb.WriteRune(superscripts[r-'0'])
	}
	return sb.String()
}

func isZeroText(s string) bool {
	return strings.Trim(s, "0.") == ""
}

// Capitalize upper-cases the first letter, as legends show "Fire" for "fire"
func Capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + strings.ToLower(s[i+len(string(r)):])
	}
	return s
}
