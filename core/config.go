package core

import "github.com/devblok/hmd/device"

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Pipeline PipelineConfiguration
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the window event poll interval in milliseconds
	EventPollDelay int
}

// PipelineConfiguration is used to configure the stereo pipeline
type PipelineConfiguration struct {
	// Multisample is forwarded to the runtime's render configuration.
	Multisample bool

	// PixelDensity scales the recommended per-eye texture sizes.
	// Zero means 1.0.
	PixelDensity float32

	// NearPlane and FarPlane bound the eye projections.
	// Zero means 0.01 and 10000.
	NearPlane float32
	FarPlane  float32

	// DebugModel is the device model simulated when no hardware is
	// found. Defaults to ModelDK1.
	DebugModel device.Model
}

func (c PipelineConfiguration) withDefaults() PipelineConfiguration {
	if c.PixelDensity == 0 {
		c.PixelDensity = 1.0
	}
	if c.NearPlane == 0 {
		c.NearPlane = 0.01
	}
	if c.FarPlane == 0 {
		c.FarPlane = 10000.0
	}
	return c
}
