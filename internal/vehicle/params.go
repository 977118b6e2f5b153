// Package vehicle integrates the car's kinematics and runs the checkpoint
// and lap bookkeeping. It is pure data: no rendering, no clocks, no UI.
package vehicle

import (
	"math"

	"racer/internal/geom"
)

// KmhToMs converts km/h to m/s. Every speed in this package is km/h and every
// distance is metres.
const KmhToMs = 1000.0 / 3600.0

// Params are the tunables of one car. Speeds are km/h, rates km/h per second,
// angles radians.
type Params struct {
	MaxSpeed        float64
	MaxReverseSpeed float64
	Acceleration    float64
	Braking         float64
	Deceleration    float64 // coast-down rate with no throttle
	TurnSpeed       float64 // heading change per second at max speed

	MaxWheelAngle float64 // physical steering lock
	SteerRate     float64 // how fast the wheel moves toward the lock, rad/s

	DriftEnabled   bool
	DriftThreshold float64 // |speed| above which the car can slide
	DriftGain      float64
	DriftStrength  float64 // lateral share of speed at full drift
	DriftJitter    float64 // peak random lateral km/h at full drift

	Width, Length, Height float64
	WheelRadius           float64
}

// DefaultParams is the stock car: 120 km/h top speed, 30 km/h reverse,
// 40 km/h/s throttle, 80 brake, 20 coast-down and 2.5 rad/s turning.
func DefaultParams() Params {
	return Params{
		MaxSpeed:        120,
		MaxReverseSpeed: 30,
		Acceleration:    40,
		Braking:         80,
		Deceleration:    20,
		TurnSpeed:       2.5,

		MaxWheelAngle: geom.DegToRad(30),
		SteerRate:     4,

		DriftEnabled:   true,
		DriftThreshold: 50,
		DriftGain:      1.2,
		DriftStrength:  0.15,
		DriftJitter:    2,

		Width:       1.8,
		Length:      4.0,
		Height:      1.4,
		WheelRadius: 0.4,
	}
}

// sanitized replaces unusable values so Update never divides by zero.
func (p Params) sanitized() Params {
	pos := func(v, def float64) float64 {
		if !(v > 0) || math.IsInf(v, 0) {
			return def
		}
		return v
	}
	d := DefaultParams()
	p.MaxSpeed = pos(p.MaxSpeed, d.MaxSpeed)
	p.MaxReverseSpeed = math.Max(0, p.MaxReverseSpeed)
	p.Acceleration = math.Max(0, p.Acceleration)
	p.Braking = math.Max(0, p.Braking)
	p.Deceleration = math.Max(0, p.Deceleration)
	p.MaxWheelAngle = pos(p.MaxWheelAngle, d.MaxWheelAngle)
	p.SteerRate = pos(p.SteerRate, d.SteerRate)
	p.DriftGain = math.Max(0, p.DriftGain)
	p.DriftJitter = math.Max(0, p.DriftJitter)
	p.WheelRadius = pos(p.WheelRadius, d.WheelRadius)
	return p
}
