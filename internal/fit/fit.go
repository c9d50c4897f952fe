// Package fit provides the regression routines used to characterize each
// dataset before rendering: power-law fits in log-log space, log-linear
// trend fits for time series, and residual-based outlier flagging.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Sentinel errors surfaced by the fitting routines. Callers match them with
// errors.Is; they are never retried.
var (
	// ErrInvalidInput indicates malformed or insufficient sample data:
	// fewer than two samples, or a value outside the model's domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateInput indicates the fit cannot be computed because the
	// regressor has zero variance (all x values identical).
	ErrDegenerateInput = errors.New("degenerate input")
)

// Sample is one observed (x, y) data point.
type Sample struct {
	X float64
	Y float64
}

// Result holds the fitted parameters of y = a·x^b (power law) or
// log10(y) = intercept + slope·x (log-linear), plus the coefficient of
// determination computed in log space. A Result is never mutated after
// creation.
type Result struct {
	// Intercept is the constant term of the log-space model: log10(a) for
	// power-law fits, log10(y) at x = 0 for log-linear fits.
	Intercept float64
	// Coefficient is 10^Intercept, kept for display. A log-linear fit over
	// calendar years puts the intercept hundreds of decades below zero, so
	// this underflows to 0 there; use Intercept for anything numeric.
	Coefficient float64
	// Exponent is b in y = a·x^b, or the slope in log10(y) per unit x.
	Exponent float64
	// RSquared is 1 − SS_res/SS_tot over the log-space residuals.
	RSquared float64

	logSpace bool // true when x was log-transformed (power law)
}

// PowerLaw fits y = a·x^b by ordinary least squares on (log x, log y).
//
// It fails with ErrInvalidInput when fewer than two samples are given or any
// sample has a non-positive coordinate, and with ErrDegenerateInput when all
// x values are identical.
func PowerLaw(samples []Sample) (Result, error) {
	if len(samples) < 2 {
		return Result{}, fmt.Errorf("power-law fit needs at least 2 samples, got %d: %w", len(samples), ErrInvalidInput)
	}

	logX := make([]float64, len(samples))
	logY := make([]float64, len(samples))
	for i, s := range samples {
		if s.X <= 0 || s.Y <= 0 {
			return Result{}, fmt.Errorf("sample %d (%g, %g) is outside the log domain: %w", i, s.X, s.Y, ErrInvalidInput)
		}
		logX[i] = math.Log10(s.X)
		logY[i] = math.Log10(s.Y)
	}

	intercept, slope, r2, err := logRegression(logX, logY)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Intercept:   intercept,
		Coefficient: math.Pow(10, intercept),
		Exponent:    slope,
		RSquared:    r2,
		logSpace:    true,
	}, nil
}

// LogLinear fits log10(y) = intercept + slope·x. The x values may be any
// real numbers (typically calendar years); y values must be positive.
//
// The error contract matches PowerLaw: ErrInvalidInput for short or
// out-of-domain input, ErrDegenerateInput for zero variance in x.
func LogLinear(samples []Sample) (Result, error) {
	if len(samples) < 2 {
		return Result{}, fmt.Errorf("log-linear fit needs at least 2 samples, got %d: %w", len(samples), ErrInvalidInput)
	}

	x := make([]float64, len(samples))
	logY := make([]float64, len(samples))
	for i, s := range samples {
		if s.Y <= 0 {
			return Result{}, fmt.Errorf("sample %d has non-positive y %g: %w", i, s.Y, ErrInvalidInput)
		}
		x[i] = s.X
		logY[i] = math.Log10(s.Y)
	}

	intercept, slope, r2, err := logRegression(x, logY)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Intercept:   intercept,
		Coefficient: math.Pow(10, intercept),
		Exponent:    slope,
		RSquared:    r2,
	}, nil
}

// logRegression runs OLS on already-transformed coordinates and returns
// (intercept, slope, r²).
func logRegression(x, logY []float64) (float64, float64, float64, error) {
	if stat.Variance(x, nil) == 0 {
		return 0, 0, 0, fmt.Errorf("zero variance in regressor: %w", ErrDegenerateInput)
	}

	intercept, slope := stat.LinearRegression(x, logY, nil, false)

	r2 := stat.RSquared(x, logY, nil, intercept, slope)
	// A two-point fit has zero residual but an undefined SS_tot when the
	// y values coincide; pin r² to 1 for exact fits.
	if math.IsNaN(r2) {
		r2 = 1.0
	}

	return intercept, slope, r2, nil
}

// PredictY evaluates the fitted model at x. The model is kept in log space
// until the final exponentiation so intercepts far outside the float range
// (calendar-year regressors) do not underflow.
func (r Result) PredictY(x float64) float64 {
	return math.Pow(10, r.predictLog10(x))
}

// predictLog10 evaluates log10 of the fitted model at x.
func (r Result) predictLog10(x float64) float64 {
	if r.logSpace {
		return r.Intercept + r.Exponent*math.Log10(x)
	}
	return r.Intercept + r.Exponent*x
}

// FoldPerStep reports the multiplicative growth per unit x for log-linear
// fits (e.g. ~1.6x per year for the Kurzweil compute trend). For power-law
// fits it reports the factor per decade of x.
func (r Result) FoldPerStep() float64 {
	return math.Pow(10, r.Exponent)
}

// residualsLog returns the log-space residuals (observed − predicted) of
// samples under r. Samples must be inside the model domain; PowerLaw or
// LogLinear has already guaranteed that for the fitting set.
func (r Result) residualsLog(samples []Sample) ([]float64, error) {
	res := make([]float64, len(samples))
	for i, s := range samples {
		if s.Y <= 0 || (r.logSpace && s.X <= 0) {
			return nil, fmt.Errorf("sample %d (%g, %g) is outside the log domain: %w", i, s.X, s.Y, ErrInvalidInput)
		}
		res[i] = math.Log10(s.Y) - r.predictLog10(s.X)
	}
	return res, nil
}

// Outliers flags samples whose log-space residual magnitude exceeds sigma
// standard deviations of the residual distribution. The returned slice is
// parallel to samples. A non-positive sigma falls back to the default of 2.
func Outliers(samples []Sample, r Result, sigma float64) ([]bool, error) {
	if sigma <= 0 {
		sigma = DefaultOutlierSigma
	}

	residuals, err := r.residualsLog(samples)
	if err != nil {
		return nil, err
	}

	sd := stat.StdDev(residuals, nil)
	flags := make([]bool, len(samples))
	if sd == 0 || math.IsNaN(sd) {
		// Perfect fit: nothing diverges.
		return flags, nil
	}

	for i, res := range residuals {
		flags[i] = math.Abs(res) > sigma*sd
	}
	return flags, nil
}

// DefaultOutlierSigma is the residual threshold used when the caller does
// not configure one.
const DefaultOutlierSigma = 2.0
