package domain

import (
	"fmt"
	"math"
)

// ModelVariant names a logistic coefficient set.
type ModelVariant string

const (
	// ModelFieldCalibrated is the coefficient set tuned against field
	// observations. This is the production default.
	ModelFieldCalibrated ModelVariant = "field"
	// ModelPublished is the coefficient set from the published regression.
	ModelPublished ModelVariant = "published"
)

// Temperature validity band of the regression, in °C.
const (
	MinValidTemperature = 10.0
	MaxValidTemperature = 35.0
)

// Params holds the logistic regression coefficients.
type Params struct {
	Intercept   float64
	Humidity    float64
	Temperature float64
}

var variantParams = map[ModelVariant]Params{
	ModelFieldCalibrated: {Intercept: -14.5, Humidity: 0.082, Temperature: 0.32},
	ModelPublished:       {Intercept: -11.4041, Humidity: 0.0894, Temperature: 0.1932},
}

// ParamsFor returns the coefficient set for a variant.
func ParamsFor(v ModelVariant) (Params, error) {
	p, ok := variantParams[v]
	if !ok {
		return Params{}, fmt.Errorf("unknown model variant %q", v)
	}
	return p, nil
}

// Probability returns the outbreak probability percentage for a five-day
// mean relative humidity (%) and air temperature (°C).
//
// Temperatures outside [MinValidTemperature, MaxValidTemperature] yield
// exactly 0. NaN inputs propagate as NaN. The result is clamped to [0,100]
// and the sigmoid is evaluated in a form that never exponentiates a
// positive logit, so extreme inputs cannot overflow.
func (p Params) Probability(meanRH, meanAT float64) float64 {
	if meanAT < MinValidTemperature || meanAT > MaxValidTemperature {
		return 0
	}

	logit := p.Intercept + p.Humidity*meanRH + p.Temperature*meanAT

	var prob float64
	if logit >= 0 {
		prob = 100 / (1 + math.Exp(-logit))
	} else {
		e := math.Exp(logit)
		prob = 100 * e / (1 + e)
	}
	return clamp(prob, 0, 100)
}

// clamp bounds v to [lo, hi]. NaN fails both comparisons and passes
// through unchanged, which downstream code relies on to skip bad samples.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
