package core

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/hmd/device"
	"github.com/devblok/hmd/gfx"
	"github.com/devblok/hmd/window"
)

type fakeRuntime struct {
	hasHardware bool
	failDebug   bool
	initialized bool
	shutdowns   int
	live        *fakeDevice

	eyeSize     [device.EyeCount]device.Sizei
	renderOrder [device.EyeCount]device.Eye
	sensor      device.SensorState
}

func newFakeRuntime(hasHardware bool) *fakeRuntime {
	return &fakeRuntime{
		hasHardware: hasHardware,
		eyeSize: [device.EyeCount]device.Sizei{
			{W: 640, H: 800},
			{W: 640, H: 800},
		},
		renderOrder: [device.EyeCount]device.Eye{device.EyeLeft, device.EyeRight},
	}
}

func (r *fakeRuntime) Initialize() error {
	r.initialized = true
	return nil
}

func (r *fakeRuntime) Create() (device.Device, error) {
	if !r.initialized {
		return nil, device.ErrShutdown
	}
	if r.live != nil {
		return nil, device.ErrDeviceInUse
	}
	if !r.hasHardware {
		return nil, device.ErrNoDevice
	}
	return r.build(), nil
}

func (r *fakeRuntime) CreateDebug(device.Model) (device.Device, error) {
	if !r.initialized {
		return nil, device.ErrShutdown
	}
	if r.live != nil {
		return nil, device.ErrDeviceInUse
	}
	if r.failDebug {
		return nil, errors.New("debug device creation failed")
	}
	return r.build(), nil
}

func (r *fakeRuntime) Shutdown() {
	r.shutdowns++
	r.initialized = false
}

func (r *fakeRuntime) build() *fakeDevice {
	dev := &fakeDevice{
		rt: r,
		desc: device.Descriptor{
			Resolution:     device.Sizei{W: 1280, H: 800},
			EyeRenderOrder: r.renderOrder,
		},
		eyeSize: r.eyeSize,
		sensor:  r.sensor,
	}
	r.live = dev
	return dev
}

type fakeDevice struct {
	rt      *fakeRuntime
	desc    device.Descriptor
	eyeSize [device.EyeCount]device.Sizei
	sensor  device.SensorState

	calls     []string
	viewports [][4]int
	destroyed bool
}

func (d *fakeDevice) Descriptor() device.Descriptor { return d.desc }

func (d *fakeDevice) FovTextureSize(eye device.Eye, fov device.FovPort, density float32) device.Sizei {
	return d.eyeSize[eye]
}

func (d *fakeDevice) ConfigureRendering(cfg device.RenderConfig, fovs [device.EyeCount]device.FovPort) ([device.EyeCount]device.EyeRenderDesc, error) {
	d.calls = append(d.calls, "configure")
	var descs [device.EyeCount]device.EyeRenderDesc
	for eye := device.EyeLeft; eye < device.EyeCount; eye++ {
		descs[eye] = device.EyeRenderDesc{Eye: eye, Fov: fovs[eye]}
	}
	return descs, nil
}

func (d *fakeDevice) StartSensor(supported, required device.SensorCaps) error {
	d.calls = append(d.calls, "startSensor")
	return nil
}

func (d *fakeDevice) SensorState(absTime float64) device.SensorState { return d.sensor }

func (d *fakeDevice) BeginFrame(frameIndex uint64) device.FrameTiming {
	d.calls = append(d.calls, "beginFrame")
	return device.FrameTiming{FrameIndex: frameIndex}
}

func (d *fakeDevice) BeginEyeRender(eye device.Eye) device.Posef {
	d.calls = append(d.calls, fmt.Sprintf("beginEye %d", eye))
	return device.IdentityPose()
}

func (d *fakeDevice) EndEyeRender(eye device.Eye, pose device.Posef, viewport [4]int) {
	d.calls = append(d.calls, fmt.Sprintf("endEye %d", eye))
	d.viewports = append(d.viewports, viewport)
}

func (d *fakeDevice) EndFrame() {
	d.calls = append(d.calls, "endFrame")
}

func (d *fakeDevice) Projection(fov device.FovPort, near, far float32) glm.Mat4 {
	return glm.Ident4()
}

func (d *fakeDevice) Destroy() {
	d.destroyed = true
	if d.rt != nil && d.rt.live == d {
		d.rt.live = nil
	}
}

type fakeScene struct {
	renders   int
	windowErr error
}

func (s *fakeScene) Render(view, projection glm.Mat4) { s.renders++ }

func (s *fakeScene) WindowWidth() int { return 1280 }

func (s *fakeScene) WindowHeight() int { return 800 }

func (s *fakeScene) NativeWindow() (window.Handle, error) {
	if s.windowErr != nil {
		return window.Handle{}, s.windowErr
	}
	return window.Handle{Platform: window.X11, Window: 1}, nil
}

func TestPipelineUsesRealDeviceWhenPresent(t *testing.T) {
	rt := newFakeRuntime(true)
	p, err := NewStereoPipeline(rt, gfx.NewHeadless(), &fakeScene{}, PipelineConfiguration{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Destroy()

	if p.IsUsingDebugDevice() {
		t.Error("expected real device, got debug fallback")
	}
}

func TestPipelineFallsBackToDebugDevice(t *testing.T) {
	rt := newFakeRuntime(false)
	p, err := NewStereoPipeline(rt, gfx.NewHeadless(), &fakeScene{}, PipelineConfiguration{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Destroy()

	if !p.IsUsingDebugDevice() {
		t.Error("expected debug device fallback")
	}
}

func TestPipelineFailsWhenDebugDeviceFails(t *testing.T) {
	rt := newFakeRuntime(false)
	rt.failDebug = true

	if _, err := NewStereoPipeline(rt, gfx.NewHeadless(), &fakeScene{}, PipelineConfiguration{}, nil); err == nil {
		t.Fatal("expected construction to fail")
	}
	if rt.shutdowns != 1 {
		t.Errorf("runtime should have been shut down once, got %d", rt.shutdowns)
	}
}

func TestPipelineSingleInstance(t *testing.T) {
	rt := newFakeRuntime(true)
	first, err := NewStereoPipeline(rt, gfx.NewHeadless(), &fakeScene{}, PipelineConfiguration{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewStereoPipeline(rt, gfx.NewHeadless(), &fakeScene{}, PipelineConfiguration{}, nil); err != device.ErrDeviceInUse {
		t.Fatalf("expected ErrDeviceInUse, got %v", err)
	}

	first.Destroy()
	second, err := NewStereoPipeline(rt, gfx.NewHeadless(), &fakeScene{}, PipelineConfiguration{}, nil)
	if err != nil {
		t.Fatalf("acquisition after release failed: %v", err)
	}
	second.Destroy()
}

func TestPipelineWindowHandleFailureIsFatal(t *testing.T) {
	rt := newFakeRuntime(true)
	ctx := gfx.NewHeadless()
	scene := &fakeScene{windowErr: errors.New("no window manager info")}

	if _, err := NewStereoPipeline(rt, ctx, scene, PipelineConfiguration{}, nil); err == nil {
		t.Fatal("expected construction to fail")
	}
	if live := ctx.Live(); live != 0 {
		t.Errorf("render target leaked: %d resources still live", live)
	}
	if rt.live != nil {
		t.Error("device leaked past failed construction")
	}
}

func TestRenderFrameBracketOrder(t *testing.T) {
	rt := newFakeRuntime(true)
	rt.renderOrder = [device.EyeCount]device.Eye{device.EyeRight, device.EyeLeft}

	scene := &fakeScene{}
	p, err := NewStereoPipeline(rt, gfx.NewHeadless(), scene, PipelineConfiguration{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Destroy()

	dev := rt.live
	dev.calls = nil

	if err := p.Render(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"beginFrame",
		"beginEye 1", "endEye 1",
		"beginEye 0", "endEye 0",
		"endFrame",
	}
	if !reflect.DeepEqual(dev.calls, want) {
		t.Errorf("frame call order = %v, want %v", dev.calls, want)
	}
	if scene.renders != 2 {
		t.Errorf("scene rendered %d times, want 2", scene.renders)
	}

	// Right eye first per render order, so its viewport is submitted first.
	if len(dev.viewports) != 2 || dev.viewports[0][0] != 640 || dev.viewports[1][0] != 0 {
		t.Errorf("submitted viewports = %v", dev.viewports)
	}
}

func TestDestroyReleasesResources(t *testing.T) {
	rt := newFakeRuntime(true)
	ctx := gfx.NewHeadless()
	p, err := NewStereoPipeline(rt, ctx, &fakeScene{}, PipelineConfiguration{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	dev := rt.live
	p.Destroy()
	p.Destroy() // second call must be a no-op

	if !dev.destroyed {
		t.Error("device not destroyed")
	}
	if rt.shutdowns != 1 {
		t.Errorf("runtime shutdowns = %d, want 1", rt.shutdowns)
	}
	if live := ctx.Live(); live != 0 {
		t.Errorf("%d graphics resources still live after Destroy", live)
	}
}

func TestNullPipeline(t *testing.T) {
	p := NewNullPipeline()
	defer p.Destroy()

	if err := p.Render(); err != nil {
		t.Error(err)
	}
	p.GetInput()
	if p.IsMoving() {
		t.Error("null pipeline must never move")
	}
	if p.IsUsingDebugDevice() {
		t.Error("null pipeline does not use a debug device")
	}
}
