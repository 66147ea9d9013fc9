// Package regression fits low-degree polynomials to grouped item data.
package regression

import (
	"errors"
	"fmt"

	"gobalance/domain/core"
	"gobalance/domain/dataset"
	domainStats "gobalance/domain/stats"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Supported polynomial degrees
const (
	MinDegree = 1
	MaxDegree = 2
)

// minGoodnessPoints is the smallest sample GoodnessOfFit accepts. With two
// points the squared correlation is 1 by construction and says nothing.
const minGoodnessPoints = 3

// Fit computes least-squares polynomial coefficients of y over x for one group.
// Rows missing either field are left out. It fails with ErrInsufficientData
// when fewer than degree+1 rows remain or x has fewer than degree+1 distinct
// values, since the system is then singular.
func Fit(g dataset.Group, x, y string, degree int) (domainStats.FitResult, error) {
	if degree < MinDegree || degree > MaxDegree {
		return domainStats.FitResult{}, fmt.Errorf("%w: %d (want %d or %d)", core.ErrInvalidDegree, degree, MinDegree, MaxDegree)
	}
	xs, ys, err := pairs(g, x, y)
	if err != nil {
		return domainStats.FitResult{}, err
	}

	n := len(xs)
	if n < degree+1 {
		return domainStats.FitResult{}, core.NewInsufficientDataError(g.Label,
			fmt.Sprintf("%d usable rows for a degree-%d fit, need %d", n, degree, degree+1))
	}
	// degree >= 1, so this also enforces two distinct x values
	need := degree + 1
	if distinct := countDistinct(xs); distinct < need {
		return domainStats.FitResult{}, core.NewInsufficientDataError(g.Label,
			fmt.Sprintf("%d distinct %s values, need %d", distinct, x, need))
	}

	coeffs, err := solve(xs, ys, degree)
	if err != nil {
		return domainStats.FitResult{}, core.NewInsufficientDataError(g.Label, err.Error())
	}

	xMin, _ := stats.Min(xs)
	xMax, _ := stats.Max(xs)

	return domainStats.FitResult{
		Label:        g.Label,
		XField:       x,
		YField:       y,
		Degree:       degree,
		Coefficients: coeffs,
		XMin:         xMin,
		XMax:         xMax,
		N:            n,
	}, nil
}

// GoodnessOfFit returns the squared Pearson correlation between x and y over
// the group's usable rows. This equals the coefficient of determination of a
// single-predictor linear least-squares fit and is reported as R² for it.
func GoodnessOfFit(g dataset.Group, x, y string) (float64, error) {
	xs, ys, err := pairs(g, x, y)
	if err != nil {
		return 0, err
	}
	if len(xs) < minGoodnessPoints {
		return 0, core.NewInsufficientDataError(g.Label,
			fmt.Sprintf("%d usable rows for goodness of fit, need %d", len(xs), minGoodnessPoints))
	}

	r, err := stats.Correlation(xs, ys)
	if err != nil {
		return 0, core.NewInsufficientDataError(g.Label, err.Error())
	}
	return r * r, nil
}

// Sample evaluates the fit on n evenly spaced points spanning its own x-range
func Sample(f domainStats.FitResult, n int) (xs, ys []float64) {
	if n < 2 {
		n = 2
	}
	xs = make([]float64, n)
	if f.XMin == f.XMax {
		for i := range xs {
			xs[i] = f.XMin
		}
	} else {
		floats.Span(xs, f.XMin, f.XMax)
	}
	ys = make([]float64, n)
	for i, xv := range xs {
		ys[i] = f.Eval(xv)
	}
	return xs, ys
}

// pairs collects the (x, y) observations where both fields are numeric
func pairs(g dataset.Group, x, y string) (xs, ys []float64, err error) {
	if g.Data == nil {
		return nil, nil, core.NewInsufficientDataError(g.Label, "group has no rows")
	}
	for _, f := range []string{x, y} {
		if !g.Data.HasColumn(f) {
			return nil, nil, core.NewFieldNotFoundError(f, g.Data.Name)
		}
	}
	for _, p := range g.Data.Points(x, y, "") {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	return xs, ys, nil
}

func countDistinct(xs []float64) int {
	seen := make(map[float64]struct{}, len(xs))
	for _, v := range xs {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// solve builds the Vandermonde system and solves it in the least-squares sense.
// Columns run from x^degree down to x^0 so the solution comes out highest
// degree first.
func solve(xs, ys []float64, degree int) ([]float64, error) {
	rows, cols := len(xs), degree+1
	a := mat.NewDense(rows, cols, nil)
	for i, xv := range xs {
		p := 1.0
		for j := cols - 1; j >= 0; j-- {
			a.Set(i, j, p)
			p *= xv
		}
	}
	b := mat.NewVecDense(rows, append([]float64(nil), ys...))

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, fmt.Errorf("ill-conditioned system (condition number %.3g)", float64(cond))
		}
		return nil, err
	}

	out := make([]float64, cols)
	for j := range out {
		out[j] = coef.AtVec(j)
	}
	return out, nil
}
