package freehand

// Easing maps a normalised value in [0, 1] to another value in [0, 1].
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseOutQuad is the default taper easing at the start of a stroke.
func EaseOutQuad(t float64) float64 { return t * (2 - t) }

// EaseOutCubic is the default taper easing at the end of a stroke.
func EaseOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

// Options control the shape of a stroke.
type Options struct {
	// Size is the base diameter of the stroke.
	Size float64 `json:"size"`
	// Thinning is how much pressure affects the radius, in [-1, 1]. Zero
	// gives a constant radius of Size/2.
	Thinning float64 `json:"thinning"`
	// Smoothing drops outline points closer than Size*Smoothing to the
	// previous one.
	Smoothing float64 `json:"smoothing"`
	// Streamline pulls each input point toward the previous one, in [0, 1].
	Streamline float64 `json:"streamline"`
	// SimulatePressure derives pressure from point spacing instead of the
	// input samples.
	SimulatePressure bool `json:"simulatePressure"`
	// Last marks the input as complete; the final point is used as-is.
	Last bool `json:"last"`

	// CapStart and CapEnd draw round caps. Without a cap an end is flat.
	CapStart bool `json:"capStart"`
	CapEnd   bool `json:"capEnd"`
	// TaperStart and TaperEnd narrow the stroke over the given length at
	// each end. Zero disables the taper.
	TaperStart float64 `json:"taperStart,omitempty"`
	TaperEnd   float64 `json:"taperEnd,omitempty"`

	// Easing is applied to pressure before computing the radius.
	Easing Easing `json:"-"`
	// StartEasing and EndEasing shape the tapers.
	StartEasing Easing `json:"-"`
	EndEasing   Easing `json:"-"`
}

// DefaultOptions returns the stock stroke settings.
func DefaultOptions() Options {
	return Options{
		Size:             16,
		Thinning:         0.5,
		Smoothing:        0.5,
		Streamline:       0.5,
		SimulatePressure: true,
		CapStart:         true,
		CapEnd:           true,
	}
}

func (o Options) easing() Easing {
	if o.Easing == nil {
		return Linear
	}
	return o.Easing
}

func (o Options) startEasing() Easing {
	if o.StartEasing == nil {
		return EaseOutQuad
	}
	return o.StartEasing
}

func (o Options) endEasing() Easing {
	if o.EndEasing == nil {
		return EaseOutCubic
	}
	return o.EndEasing
}
