package core

import (
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/hmd/window"
)

// Scene is the capability the caller-supplied content must provide.
// The pipeline renders it once per eye with that eye's matrices and
// never looks inside it.
type Scene interface {

	// Render draws the scene for the given view and projection,
	// both column-major.
	Render(view, projection glm.Mat4)

	// WindowWidth returns the display window width in pixels.
	WindowWidth() int

	// WindowHeight returns the display window height in pixels.
	WindowHeight() int

	// NativeWindow returns the platform handle the HMD runtime binds
	// its output to.
	NativeWindow() (window.Handle, error)
}

// Pipeline describes the HMD rendering machinery. A NullPipeline
// satisfies it without a device; NewStereoPipeline builds the real one.
type Pipeline interface {

	// Render draws and submits one complete stereo frame. Blocks until
	// the runtime releases the frame; must not be called reentrantly.
	Render() error

	// GetInput samples head tracking for the current frame.
	GetInput()

	// IsMoving reports whether the head moved since the previous sample.
	IsMoving() bool

	// IsUsingDebugDevice reports whether the pipeline fell back to a
	// simulated device because no hardware was found.
	IsUsingDebugDevice() bool

	// Destroy releases graphics resources, the device and the runtime.
	Destroy()
}
