package ml

// Criterion maps the squared error norm of a training step to a learning rate.
// A zero rate means no update. Updated tells whether the last call returned a
// non-zero rate; for batch training over a fixed sample set this doubles as a
// stop signal, since that batch won't exceed the threshold again on its own
type Criterion interface {
	Rate(errNorm2 float64) float64
	Updated() bool
}

// ConstRate is the constant learning factor criterion: a fixed rate while the
// error is above sigma, zero below
type ConstRate struct {
	alpha   float64
	sigma   float64
	updated bool
}

// NewConstRate returns a constant criterion with max allowed squared error
// sigma and learning rate alpha
func NewConstRate(sigma, alpha float64) *ConstRate {
	return &ConstRate{alpha: alpha, sigma: sigma}
}

// Updated reports whether the last Rate call returned non-zero
func (c *ConstRate) Updated() bool { return c.updated }

// Rate returns the configured rate while the error is above sigma
func (c *ConstRate) Rate(errNorm2 float64) float64 {
	c.updated = errNorm2 > c.sigma
	if !c.updated {
		return 0
	}
	return c.alpha
}

// Defaults for the adaptive criterion
const (
	DefAdaptiveAlpha = 0.01
	DefConvMax       = 5
	DefConvMin       = -2
	DefAccel         = 1.15
	DefDamp          = 0.3
)

// AdaptiveRate adapts the learning factor to keep convergence fast: a counter
// goes up when consecutive steps shrink the error and down otherwise. Hitting
// the upper bound multiplies the rate by the acceleration factor, hitting the
// lower bound multiplies it by the damping factor; both reset the counter
type AdaptiveRate struct {
	alpha    float64
	sigma    float64
	updated  bool
	lastEn2  float64
	convCnt  int
	convMax  int
	convMin  int
	accel    float64
	damp     float64
}

// NewAdaptiveRate returns an adaptive criterion. Accel must be > 1 and damp < 1
// for the adjustment to point the right way
func NewAdaptiveRate(sigma, alpha float64, convMax, convMin int, accel, damp float64) *AdaptiveRate {
	return &AdaptiveRate{
		alpha:   alpha,
		sigma:   sigma,
		convMax: convMax,
		convMin: convMin,
		accel:   accel,
		damp:    damp,
	}
}

// NewDefaultAdaptiveRate returns an adaptive criterion with the stock tuning
func NewDefaultAdaptiveRate(sigma float64) *AdaptiveRate {
	return NewAdaptiveRate(sigma, DefAdaptiveAlpha, DefConvMax, DefConvMin, DefAccel, DefDamp)
}

// Updated reports whether the last Rate call returned non-zero. Once it goes
// false for a static batch it stays false for that batch, callers may stop
func (a *AdaptiveRate) Updated() bool { return a.updated }

// Rate returns the current learning factor, adjusting it by the convergence
// history, or zero once the error drops below sigma
func (a *AdaptiveRate) Rate(errNorm2 float64) float64 {
	a.updated = errNorm2 > a.sigma
	if !a.updated {
		return 0 // no need for training
	}

	if errNorm2 < a.lastEn2 {
		a.convCnt++
		if a.convCnt >= a.convMax {
			a.convCnt = 0
			a.alpha *= a.accel // converges well, try to speed things up
		}
	} else {
		a.convCnt--
		if a.convCnt <= a.convMin {
			a.convCnt = 0
			a.alpha *= a.damp // diverging, try smaller steps
		}
	}
	a.lastEn2 = errNorm2

	return a.alpha
}
