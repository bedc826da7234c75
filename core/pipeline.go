package core

import (
	"errors"

	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/hmd/device"
	"github.com/devblok/hmd/gfx"
)

// NewStereoPipeline acquires a device from the runtime and prepares the
// whole render path: off-screen target, runtime render configuration,
// per-eye descriptors and head tracking. When no hardware is present it
// falls back to a simulated device; every other failure tears down what
// was built and returns an error so the caller can substitute a
// NullPipeline instead.
func NewStereoPipeline(rt device.Runtime, ctx gfx.Context, scene Scene, cfg PipelineConfiguration, logger *log.Logger) (Pipeline, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	cfg = cfg.withDefaults()

	if err := rt.Initialize(); err != nil {
		return nil, errors.New("runtime.Initialize(): " + err.Error())
	}

	usingDebug := false
	dev, err := rt.Create()
	if err == device.ErrNoDevice {
		logger.Info("no headset detected, using the debug device")
		dev, err = rt.CreateDebug(cfg.DebugModel)
		usingDebug = true
	}
	if err == device.ErrDeviceInUse {
		// The runtime stays up for whoever owns the live device.
		return nil, err
	}
	if err != nil {
		rt.Shutdown()
		return nil, errors.New("runtime.Create(): " + err.Error())
	}

	p := &StereoPipeline{
		runtime:          rt,
		ctx:              ctx,
		scene:            scene,
		cfg:              cfg,
		logger:           logger,
		dev:              dev,
		desc:             dev.Descriptor(),
		tracker:          newTracker(logger),
		usingDebugDevice: usingDebug,
	}

	if err := p.configure(); err != nil {
		dev.Destroy()
		rt.Shutdown()
		return nil, err
	}
	return p, nil
}

// StereoPipeline renders a scene to an HMD: one off-screen pass per eye,
// then distortion and scanout through the device runtime. Exactly one
// instance may be live per process; the runtime enforces that at
// acquisition time.
type StereoPipeline struct {
	runtime device.Runtime
	ctx     gfx.Context
	scene   Scene
	cfg     PipelineConfiguration
	logger  *log.Logger

	dev     device.Device
	desc    device.Descriptor
	eyeFov  [device.EyeCount]device.FovPort
	eyeDesc [device.EyeCount]device.EyeRenderDesc
	target  *RenderTarget
	tracker *tracker

	timing     device.FrameTiming
	frameIndex uint64

	usingDebugDevice bool
	destroyed        bool
}

func (p *StereoPipeline) configure() error {
	p.eyeFov = p.desc.DefaultEyeFov

	size := computeTargetSize(p.dev, p.eyeFov, p.cfg.PixelDensity)
	target, err := newRenderTarget(p.ctx, size)
	if err != nil {
		return err
	}

	native, err := p.scene.NativeWindow()
	if err != nil {
		target.Release(p.ctx)
		return errors.New("scene.NativeWindow(): " + err.Error())
	}

	renderConfig := device.RenderConfig{
		API:         device.RenderAPIOpenGL,
		Multisample: p.cfg.Multisample,
		TargetSize: device.Sizei{
			W: p.scene.WindowWidth(),
			H: p.scene.WindowHeight(),
		},
		Window: native,
	}

	eyeDesc, err := p.dev.ConfigureRendering(renderConfig, p.eyeFov)
	if err != nil {
		target.Release(p.ctx)
		return errors.New("device.ConfigureRendering(): " + err.Error())
	}

	if err := p.dev.StartSensor(
		device.SensorOrientation|device.SensorYawCorrection|device.SensorPosition,
		device.SensorOrientation,
	); err != nil {
		target.Release(p.ctx)
		return errors.New("device.StartSensor(): " + err.Error())
	}

	p.target = target
	p.eyeDesc = eyeDesc
	return nil
}

// Render implements Pipeline. One frame, strictly sequential: begin the
// frame, clear the target, sample tracking, render both eyes in the
// device's declared order, end the frame. Graphics errors inside the
// frame are reported and the frame continues.
func (p *StereoPipeline) Render() error {
	p.timing = p.dev.BeginFrame(p.frameIndex)
	p.frameIndex++

	p.ctx.BindFramebuffer(p.target.FBO)
	p.ctx.Clear(0, 0, 0, 1)
	p.reportGfxError("clear")

	p.GetInput()

	var poses [device.EyeCount]device.Posef
	for i := 0; i < int(device.EyeCount); i++ {
		eye := p.desc.EyeRenderOrder[i]
		poses[eye] = p.dev.BeginEyeRender(eye)

		vp := eyeViewport(eye, p.target.Size)
		p.ctx.SetViewport(vp)

		view := p.eyeView(eye, poses[eye])
		projection := p.dev.Projection(p.eyeDesc[eye].Fov, p.cfg.NearPlane, p.cfg.FarPlane)

		p.scene.Render(view, projection)
		p.reportGfxError("scene render")

		p.dev.EndEyeRender(eye, poses[eye], [4]int{vp.X, vp.Y, vp.W, vp.H})
	}

	p.dev.EndFrame()
	return nil
}

// eyeView builds the eye's view matrix: the stereo offset translation
// composed with the inverse of the predicted orientation.
func (p *StereoPipeline) eyeView(eye device.Eye, pose device.Posef) glm.Mat4 {
	adjust := p.eyeDesc[eye].ViewAdjust
	translation := glm.Translate3D(adjust.X(), adjust.Y(), adjust.Z())
	return translation.Mul4(pose.Orientation.Inverse().Mat4())
}

// GetInput implements Pipeline. Samples the head pose predicted for the
// current frame's scanout midpoint.
func (p *StereoPipeline) GetInput() {
	p.tracker.sample(p.dev, p.timing.ScanoutMidpointSeconds)
}

// IsMoving implements Pipeline.
func (p *StereoPipeline) IsMoving() bool {
	return p.tracker.moving()
}

// IsUsingDebugDevice implements Pipeline.
func (p *StereoPipeline) IsUsingDebugDevice() bool {
	return p.usingDebugDevice
}

// Angles returns the last sampled head angles (yaw, pitch, roll) in
// radians.
func (p *StereoPipeline) Angles() glm.Vec3 {
	return p.tracker.angles
}

// DeltaAngles returns the angle change since the previous sample.
func (p *StereoPipeline) DeltaAngles() glm.Vec3 {
	return p.tracker.dAngles
}

// Destroy implements Pipeline. Releases the render target, the device
// and the runtime, in that order. Further calls are no-ops.
func (p *StereoPipeline) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true

	p.logger.Debug("stereo pipeline shutting down")
	p.target.Release(p.ctx)
	p.dev.Destroy()
	p.runtime.Shutdown()
}

func (p *StereoPipeline) reportGfxError(op string) {
	if err := p.ctx.LastError(); err != nil {
		p.logger.Errorf("gfx error after %s: %v", op, err)
	}
}
