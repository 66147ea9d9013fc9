package stats

// FitResult holds a least-squares polynomial fitted over one group.
// INVARIANTS:
// - len(Coefficients) == Degree+1, highest degree first
// - XMin <= XMax, both taken from the rows used in the fit
// - N >= Degree+1
type FitResult struct {
	Label        string    `json:"label"`
	XField       string    `json:"x_field"`
	YField       string    `json:"y_field"`
	Degree       int       `json:"degree"`
	Coefficients []float64 `json:"coefficients"`
	XMin         float64   `json:"x_min"`
	XMax         float64   `json:"x_max"`
	N            int       `json:"n"`                   // rows that contributed to the fit
	RSquared     *float64  `json:"r_squared,omitempty"` // squared Pearson correlation, linear fits only
}

// Eval evaluates the polynomial at x (Horner's rule)
func (f FitResult) Eval(x float64) float64 {
	y := 0.0
	for _, c := range f.Coefficients {
		y = y*x + c
	}
	return y
}

// Slope returns the linear coefficient of a degree-1 fit
func (f FitResult) Slope() float64 {
	if f.Degree != 1 || len(f.Coefficients) != 2 {
		return 0
	}
	return f.Coefficients[0]
}

// Intercept returns the constant term
func (f FitResult) Intercept() float64 {
	if len(f.Coefficients) == 0 {
		return 0
	}
	return f.Coefficients[len(f.Coefficients)-1]
}

// WithRSquared returns a copy carrying the goodness-of-fit value
func (f FitResult) WithRSquared(r2 float64) FitResult {
	f.RSquared = &r2
	return f
}
