package game

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// StandardGravity bounds a simulated accelerometer axis.
const StandardGravity = 9.81

// TiltForce converts an accelerometer reading into the global force applied
// to creatures. The sensor's y axis pushes along world x and vice versa.
func TiltForce(x, y, scale float64) (fx, fy float64) {
	if scale == 0 {
		return 0, 0
	}
	return y / scale, x / scale
}

// Tilt produces a smooth pseudo-accelerometer signal for headless runs.
type Tilt struct {
	noise opensimplex.Noise
	rate  float64
}

// NewTilt creates a tilt source. rate is the noise frequency per second of
// simulated time.
func NewTilt(seed int64, rate float64) *Tilt {
	return &Tilt{noise: opensimplex.New(seed), rate: rate}
}

// Sample returns the reading at sec seconds of simulated time, each axis within
// roughly one standard gravity.
func (t *Tilt) Sample(sec float64) (x, y float64) {
	s := sec * t.rate
	x = StandardGravity * t.noise.Eval2(s, 0)
	y = StandardGravity * t.noise.Eval2(0, s+100)
	return x, y
}
