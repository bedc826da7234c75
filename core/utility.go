package core

import "math"

// angleEpsilon is the tolerance below which two angles in radians are
// considered equal for motion detection.
const angleEpsilon = 1e-6

// RadToDegree converts radians to degrees.
func RadToDegree(rad float32) float32 {
	return rad * 180 / math.Pi
}

func nearEqual(a, b, epsilon float32) bool {
	return math.Abs(float64(a-b)) <= float64(epsilon)
}
