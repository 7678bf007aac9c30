package mockup

// StripConfig holds the thresholds of the background classifier.
// A pixel is background when brightness > WhiteThreshold, or when it is
// near-gray (all channel differences < GrayTolerance) and brightness > GrayThreshold.
type StripConfig struct {
	WhiteThreshold float64
	GrayThreshold  float64
	GrayTolerance  int
}

// CurveConfig controls the multi-slice cylinder approximation
type CurveConfig struct {
	Slices int
	Bulge  float64
}

// Config groups the tunables of the compositing engine
type Config struct {
	Strip StripConfig
	Curve CurveConfig
}

const (
	DefaultWhiteThreshold = 240
	DefaultGrayThreshold  = 200
	DefaultGrayTolerance  = 20
	DefaultCurveSlices    = 20
	DefaultCurveBulge     = 0.1
)

// DefaultConfig returns the reference thresholds and curve parameters
func DefaultConfig() Config {
	return Config{
		Strip: StripConfig{
			WhiteThreshold: DefaultWhiteThreshold,
			GrayThreshold:  DefaultGrayThreshold,
			GrayTolerance:  DefaultGrayTolerance,
		},
		Curve: CurveConfig{
			Slices: DefaultCurveSlices,
			Bulge:  DefaultCurveBulge,
		},
	}
}

func (c CurveConfig) withDefaults() CurveConfig {
	if c.Slices <= 0 {
		c.Slices = DefaultCurveSlices
	}
	if c.Bulge < 0 {
		c.Bulge = 0
	}
	return c
}
