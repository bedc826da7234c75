package core

import (
	"math"

	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/hmd/device"
)

// tracker derives head angles and their per-frame deltas from the
// device's predicted pose samples.
type tracker struct {
	logger *log.Logger

	angles  glm.Vec3
	dAngles glm.Vec3
}

func newTracker(logger *log.Logger) *tracker {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &tracker{logger: logger}
}

// sample reads the predicted pose for absTime and updates the angle
// state. Without tracking data (debug device) the previous angles are
// kept as-is; that is the expected no-hardware behavior, not an error.
func (t *tracker) sample(dev device.Device, absTime float64) {
	state := dev.SensorState(absTime)
	if state.Flags&(device.StatusOrientationTracked|device.StatusPositionTracked) == 0 {
		t.logger.Debug("no sensor data (using debug device)")
		return
	}

	old := t.angles
	yaw, pitch, roll := eulerYXZ(state.Predicted.Orientation)
	t.angles = glm.Vec3{yaw, pitch, roll}
	t.dAngles = t.angles.Sub(old)

	t.logger.Debugf("angles: %.3f, %.3f, %.3f deg",
		RadToDegree(t.angles[0]), RadToDegree(t.angles[1]), RadToDegree(t.angles[2]))
	t.logger.Debugf("angles: %.5f, %.5f, %.5f rad",
		t.angles[0], t.angles[1], t.angles[2])
	t.logger.Debugf("dAngles: %.3f, %.3f, %.3f deg",
		RadToDegree(t.dAngles[0]), RadToDegree(t.dAngles[1]), RadToDegree(t.dAngles[2]))
}

// moving reports whether any axis changed beyond tolerance since the
// previous sample.
func (t *tracker) moving() bool {
	for i := 0; i < 3; i++ {
		if !nearEqual(t.dAngles[i], 0, angleEpsilon) {
			return true
		}
	}
	return false
}

// eulerYXZ decomposes a unit quaternion into yaw about Y, then pitch
// about X, then roll about Z, all in radians. Pitch is clamped to
// [-pi/2, pi/2] at the gimbal poles.
func eulerYXZ(q glm.Quat) (yaw, pitch, roll float32) {
	q = q.Normalize()
	w, x, y, z := float64(q.W), float64(q.X()), float64(q.Y()), float64(q.Z())

	s := 2 * (w*x - y*z)
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}

	yaw = float32(math.Atan2(2*(x*z+w*y), w*w+z*z-x*x-y*y))
	pitch = float32(math.Asin(s))
	roll = float32(math.Atan2(2*(x*y+w*z), w*w+y*y-x*x-z*z))
	return yaw, pitch, roll
}
