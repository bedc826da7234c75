// Package device abstracts the HMD runtime: device discovery, head pose
// prediction and distortion-corrected frame submission. The stereo
// pipeline owns exactly one Device for the life of the process.
package device

import (
	"errors"

	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/hmd/window"
)

// Package errors. All of them are construction-time fatal for the
// pipeline; callers are expected to fall back to a null pipeline.
var (
	ErrNoDevice    = errors.New("device: no head-mounted display detected")
	ErrDeviceInUse = errors.New("device: a device is already live for this runtime")
	ErrShutdown    = errors.New("device: runtime is not initialized")
)

// Eye indexes one of the stereo eyes.
type Eye int

// Eye values. EyeCount bounds per-eye arrays.
const (
	EyeLeft Eye = iota
	EyeRight
	EyeCount
)

// Model identifies a device generation for debug device creation.
type Model int

// Known device models.
const (
	ModelDK1 Model = iota
	ModelDK2
)

// Sizei is a texture or panel size in pixels.
type Sizei struct {
	W, H int
}

// FovPort describes a field of view as tangents of the half-angles
// off the eye axis in the four directions.
type FovPort struct {
	UpTan, DownTan    float32
	LeftTan, RightTan float32
}

// Posef is a rigid body pose: orientation plus position.
type Posef struct {
	Orientation glm.Quat
	Position    glm.Vec3
}

// IdentityPose returns a pose with unit orientation at the origin.
func IdentityPose() Posef {
	return Posef{Orientation: glm.QuatIdent()}
}

// StatusFlags reports which tracking channels produced the sample.
type StatusFlags uint32

// Tracking status bits.
const (
	StatusOrientationTracked StatusFlags = 1 << iota
	StatusPositionTracked
)

// SensorState is one predicted head pose sample.
type SensorState struct {
	Predicted Posef
	Flags     StatusFlags
}

// SensorCaps selects the tracking capabilities to start.
type SensorCaps uint32

// Sensor capability bits.
const (
	SensorOrientation SensorCaps = 1 << iota
	SensorYawCorrection
	SensorPosition
)

// FrameTiming is the token bracketing one frame. It is only valid
// between the BeginFrame that produced it and the matching EndFrame.
type FrameTiming struct {
	FrameIndex uint64

	// ScanoutMidpointSeconds is the predicted time the middle scanline
	// reaches the panel; pose prediction targets it.
	ScanoutMidpointSeconds float64
}

// EyeRenderDesc carries the per-eye parameters needed to build that
// eye's view and projection matrices. Recomputed by ConfigureRendering.
type EyeRenderDesc struct {
	Eye Eye
	Fov FovPort

	// ViewAdjust is the translation from the center eye to this eye.
	ViewAdjust glm.Vec3
}

// Descriptor is the read-only capability data of an acquired device.
type Descriptor struct {
	Model       Model
	ProductName string
	Resolution  Sizei

	DefaultEyeFov  [EyeCount]FovPort
	EyeRenderOrder [EyeCount]Eye
}

// RenderAPI identifies the graphics API the runtime renders through.
type RenderAPI int

// Supported render APIs.
const (
	RenderAPIOpenGL RenderAPI = iota
)

// RenderConfig is everything the runtime needs to take over distortion
// and display submission.
type RenderConfig struct {
	API         RenderAPI
	Multisample bool
	TargetSize  Sizei
	Window      window.Handle
}

// PoseSource supplies head poses to a device that has no sensors of its
// own, keyed by the prediction timestamp in seconds.
type PoseSource interface {
	// PoseAt returns the pose for time t and whether one is available.
	PoseAt(t float64) (Posef, bool)
}

// Runtime is the process-global HMD runtime. Initialize and Shutdown
// bracket all device use; at most one Device may be live at a time.
type Runtime interface {

	// Initialize prepares the runtime. Safe to call once per Shutdown.
	Initialize() error

	// Create acquires the connected physical device.
	// Returns ErrNoDevice when no hardware is present and
	// ErrDeviceInUse while a previous device is still live.
	Create() (Device, error)

	// CreateDebug builds a software-simulated device of the given model.
	// Subject to the same single-instance rule as Create.
	CreateDebug(Model) (Device, error)

	// Shutdown tears the runtime down. Live devices must be destroyed
	// first.
	Shutdown()
}

// Device is one acquired HMD. All methods must be called from the
// thread that owns the graphics context.
type Device interface {

	// Descriptor returns the immutable capability data of the device.
	Descriptor() Descriptor

	// FovTextureSize returns the recommended render texture size for
	// one eye at the given field of view and pixel density.
	FovTextureSize(eye Eye, fov FovPort, pixelDensity float32) Sizei

	// ConfigureRendering hands the runtime its render configuration and
	// returns the per-eye render descriptors for the given FOVs.
	ConfigureRendering(cfg RenderConfig, fovs [EyeCount]FovPort) ([EyeCount]EyeRenderDesc, error)

	// StartSensor begins head tracking with the given capabilities.
	StartSensor(supported, required SensorCaps) error

	// SensorState returns the predicted head pose for absTime seconds.
	SensorState(absTime float64) SensorState

	// BeginFrame starts the frame bracket and returns its timing token.
	BeginFrame(frameIndex uint64) FrameTiming

	// BeginEyeRender returns the predicted pose to render the eye with.
	BeginEyeRender(eye Eye) Posef

	// EndEyeRender submits the eye's texture region and render pose.
	EndEyeRender(eye Eye, pose Posef, viewport [4]int)

	// EndFrame completes the bracket, triggering distortion and scanout.
	EndFrame()

	// Projection builds the eye projection matrix for the FOV with the
	// given clip planes. Column-major, right-handed, GL clip range.
	Projection(fov FovPort, near, far float32) glm.Mat4

	// Destroy releases the device and clears the single-instance slot.
	Destroy()
}
