package device

import (
	"math"
	"sync"
	"time"

	glm "github.com/go-gl/mathgl/mgl32"
)

// Panel refresh assumed by the debug device's frame timing.
const debugRefreshHz = 60.0

// NewDebugRuntime creates a runtime with no hardware discovery. Create
// always reports ErrNoDevice; CreateDebug builds a simulated device.
// It stands in for the real runtime in tests and on machines without
// a headset.
func NewDebugRuntime() *DebugRuntime {
	return &DebugRuntime{}
}

// DebugRuntime is a software-only HMD runtime.
type DebugRuntime struct {
	mu sync.Mutex

	initialized bool
	live        *DebugDevice
	poseSource  PoseSource
}

// SetPoseSource attaches a replay pose source. Devices created after the
// call produce orientation-tracked samples from it instead of no data.
func (r *DebugRuntime) SetPoseSource(src PoseSource) {
	r.mu.Lock()
	r.poseSource = src
	r.mu.Unlock()
}

// Initialize implements Runtime.
func (r *DebugRuntime) Initialize() error {
	r.mu.Lock()
	r.initialized = true
	r.mu.Unlock()
	return nil
}

// Create implements Runtime. The debug runtime never finds hardware.
func (r *DebugRuntime) Create() (Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return nil, ErrShutdown
	}
	if r.live != nil {
		return nil, ErrDeviceInUse
	}
	return nil, ErrNoDevice
}

// CreateDebug implements Runtime.
func (r *DebugRuntime) CreateDebug(model Model) (Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return nil, ErrShutdown
	}
	if r.live != nil {
		return nil, ErrDeviceInUse
	}

	dev := &DebugDevice{
		runtime: r,
		desc:    debugDescriptor(model),
		source:  r.poseSource,
		epoch:   time.Now(),
	}
	r.live = dev
	return dev, nil
}

// Shutdown implements Runtime.
func (r *DebugRuntime) Shutdown() {
	r.mu.Lock()
	r.initialized = false
	r.mu.Unlock()
}

func (r *DebugRuntime) release(dev *DebugDevice) {
	r.mu.Lock()
	if r.live == dev {
		r.live = nil
	}
	r.mu.Unlock()
}

func debugDescriptor(model Model) Descriptor {
	desc := Descriptor{
		Model:          model,
		ProductName:    "Debug HMD (DK1)",
		Resolution:     Sizei{W: 1280, H: 800},
		EyeRenderOrder: [EyeCount]Eye{EyeLeft, EyeRight},
	}
	if model == ModelDK2 {
		desc.ProductName = "Debug HMD (DK2)"
		desc.Resolution = Sizei{W: 1920, H: 1080}
	}

	// Nasal FOV cut off slightly compared to the temporal side,
	// mirrored between the eyes.
	left := FovPort{UpTan: 1.329, DownTan: 1.329, LeftTan: 1.092, RightTan: 1.058}
	right := FovPort{UpTan: 1.329, DownTan: 1.329, LeftTan: 1.058, RightTan: 1.092}
	desc.DefaultEyeFov = [EyeCount]FovPort{left, right}
	return desc
}

// DebugDevice simulates a headset. It produces no tracking data unless a
// PoseSource is attached, keeps frame timing against a wall-clock epoch
// and accepts the whole render configuration without side effects.
type DebugDevice struct {
	runtime *DebugRuntime
	desc    Descriptor
	source  PoseSource
	epoch   time.Time

	sensorCaps SensorCaps
	started    bool

	timing  FrameTiming
	inFrame bool
}

// Descriptor implements Device.
func (d *DebugDevice) Descriptor() Descriptor {
	return d.desc
}

// FovTextureSize implements Device. Half the panel scaled by the ratio of
// the requested FOV tangents to the default ones, so the default FOV at
// density 1.0 recommends exactly half the panel per eye.
func (d *DebugDevice) FovTextureSize(eye Eye, fov FovPort, pixelDensity float32) Sizei {
	def := d.desc.DefaultEyeFov[eye]
	w := float64(pixelDensity) * float64(d.desc.Resolution.W) / 2 *
		float64(fov.LeftTan+fov.RightTan) / float64(def.LeftTan+def.RightTan)
	h := float64(pixelDensity) * float64(d.desc.Resolution.H) *
		float64(fov.UpTan+fov.DownTan) / float64(def.UpTan+def.DownTan)
	return Sizei{W: int(math.Ceil(w)), H: int(math.Ceil(h))}
}

// ConfigureRendering implements Device.
func (d *DebugDevice) ConfigureRendering(cfg RenderConfig, fovs [EyeCount]FovPort) ([EyeCount]EyeRenderDesc, error) {
	const halfIPD = 0.032

	var descs [EyeCount]EyeRenderDesc
	for eye := EyeLeft; eye < EyeCount; eye++ {
		descs[eye] = EyeRenderDesc{
			Eye: eye,
			Fov: fovs[eye],
		}
	}
	descs[EyeLeft].ViewAdjust[0] = halfIPD
	descs[EyeRight].ViewAdjust[0] = -halfIPD
	return descs, nil
}

// StartSensor implements Device. The simulated sensor always starts; it
// just may never produce data.
func (d *DebugDevice) StartSensor(supported, required SensorCaps) error {
	d.sensorCaps = supported
	d.started = true
	return nil
}

// SensorState implements Device.
func (d *DebugDevice) SensorState(absTime float64) SensorState {
	if !d.started || d.source == nil {
		return SensorState{Predicted: IdentityPose()}
	}
	pose, ok := d.source.PoseAt(absTime)
	if !ok {
		return SensorState{Predicted: IdentityPose()}
	}
	return SensorState{
		Predicted: pose,
		Flags:     StatusOrientationTracked,
	}
}

// BeginFrame implements Device.
func (d *DebugDevice) BeginFrame(frameIndex uint64) FrameTiming {
	now := time.Since(d.epoch).Seconds()
	d.timing = FrameTiming{
		FrameIndex:             frameIndex,
		ScanoutMidpointSeconds: now + 1/(2*debugRefreshHz),
	}
	d.inFrame = true
	return d.timing
}

// BeginEyeRender implements Device.
func (d *DebugDevice) BeginEyeRender(eye Eye) Posef {
	return d.SensorState(d.timing.ScanoutMidpointSeconds).Predicted
}

// EndEyeRender implements Device. The simulated compositor has nowhere
// to submit to.
func (d *DebugDevice) EndEyeRender(eye Eye, pose Posef, viewport [4]int) {}

// EndFrame implements Device.
func (d *DebugDevice) EndFrame() {
	d.inFrame = false
}

// Projection implements Device.
func (d *DebugDevice) Projection(fov FovPort, near, far float32) glm.Mat4 {
	return projectionFromFov(fov, near, far)
}

// Destroy implements Device.
func (d *DebugDevice) Destroy() {
	d.started = false
	d.runtime.release(d)
}
