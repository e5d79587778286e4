// Package asteroid estimates physical properties of asteroids.
package asteroid

import (
	"fmt"
	"math"
)

// Radius estimates an asteroid's radius in km from its geometric albedo
// (0, 1] and absolute magnitude H, using D = 1329 km / sqrt(albedo) * 10^(-H/5).
func Radius(albedo, absMag float64) (float64, error) {
	if !(albedo > 0 && albedo <= 1) {
		return 0, fmt.Errorf("albedo must be in (0, 1], got %v", albedo)
	}
	diameter := (1329.0 / math.Sqrt(albedo)) * math.Pow(10.0, -0.2*absMag)
	return diameter / 2.0, nil
}
