package main

import (
	"bytes"
	"flag"
	"math"
	"os"
	"runtime"
	"strconv"
	"time"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"
	"github.com/gobuffalo/packr"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/hmd/core"
	"github.com/devblok/hmd/device"
	"github.com/devblok/hmd/gfx"
	"github.com/devblok/hmd/trace"
	"github.com/devblok/hmd/window"
)

func init() {
	runtime.LockOSThread()
	godotenv.Load()
}

var (
	recordPath = flag.String("record", "", "Record a synthesized head motion trace to file and exit")
	replayPath = flag.String("replay", "", "Replay a recorded head motion trace on the debug device")
)

// StaticResources carries the bundled demo trace.
var StaticResources = packr.NewBox("./assets")

var configuration = core.Configuration{
	Time: core.TimeConfiguration{
		FramesPerSecond: 60,
		EventPollDelay:  50,
	},
	Pipeline: core.PipelineConfiguration{
		PixelDensity: 1.0,
		DebugModel:   device.ModelDK1,
	},
}

// demoScene satisfies core.Scene. The content itself is the caller's
// business; here it only carries the window.
type demoScene struct {
	window *sdl.Window
	w, h   int
}

func (s *demoScene) Render(view, projection glm.Mat4) {}

func (s *demoScene) WindowWidth() int { return s.w }

func (s *demoScene) WindowHeight() int { return s.h }

func (s *demoScene) NativeWindow() (window.Handle, error) {
	return window.FromSDL(s.window)
}

func newWindow(w, h int) *sdl.Window {
	win, err := sdl.CreateWindow("hmdview",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(w),
		int32(h),
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN)
	if err != nil {
		panic(err)
	}
	return win
}

func loadEnv() {
	if lvl, err := log.ParseLevel(envy.Get("HMDVIEW_LOG", "info")); err == nil {
		log.SetLevel(lvl)
	}
	if fps, err := strconv.Atoi(envy.Get("HMDVIEW_FPS", "60")); err == nil {
		configuration.Time.FramesPerSecond = fps
	}
	if density, err := strconv.ParseFloat(envy.Get("HMDVIEW_DENSITY", "1.0"), 32); err == nil {
		configuration.Pipeline.PixelDensity = float32(density)
	}
	configuration.Pipeline.Multisample = envy.Get("HMDVIEW_MULTISAMPLE", "") == "1"
}

// poseSource resolves the replay source: an explicit -replay file first,
// the bundled demo trace as fallback.
func poseSource() device.PoseSource {
	if *replayPath != "" {
		f, err := os.Open(*replayPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		tr, err := trace.Open(f)
		if err != nil {
			log.Fatal(err)
		}
		log.Infof("replaying %s: %d samples over %.1fs", *replayPath, tr.Len(), tr.Duration())
		return tr
	}

	data, err := StaticResources.MustBytes("demo.trace")
	if err != nil {
		return nil
	}
	tr, err := trace.Open(bytes.NewReader(data))
	if err != nil {
		log.Warnf("bundled demo trace unreadable: %v", err)
		return nil
	}
	return tr
}

// recordDemoTrace writes a slow synthesized look-around sweep, sampled
// at 75 Hz for ten seconds.
func recordDemoTrace(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := trace.NewWriter(f, trace.Header{
		Author:      "hmdview",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	if err != nil {
		return err
	}

	const rate = 75
	for i := 0; i < rate*10; i++ {
		t := float64(i) / rate
		yaw := float32(0.4 * math.Sin(2*math.Pi*0.10*t))
		pitch := float32(0.15 * math.Sin(2*math.Pi*0.23*t))

		orientation := glm.QuatRotate(yaw, glm.Vec3{0, 1, 0}).
			Mul(glm.QuatRotate(pitch, glm.Vec3{1, 0, 0}))

		if err := w.Add(trace.Sample{
			T:     t,
			Pose:  device.Posef{Orientation: orientation},
			Flags: device.StatusOrientationTracked,
		}); err != nil {
			return err
		}
	}
	return w.Close()
}

func main() {
	flag.Parse()
	loadEnv()

	if *recordPath != "" {
		if err := recordDemoTrace(*recordPath); err != nil {
			log.Fatal(err)
		}
		log.Infof("recorded demo trace to %s", *recordPath)
		return
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		panic(err)
	}
	defer sdl.Quit()

	sdlWindow := newWindow(1280, 800)
	defer sdlWindow.Destroy()

	scene := &demoScene{window: sdlWindow, w: 1280, h: 800}

	rt := device.NewDebugRuntime()
	if src := poseSource(); src != nil {
		rt.SetPoseSource(src)
	}

	pipeline, err := core.NewStereoPipeline(rt, gfx.NewHeadless(), scene, configuration.Pipeline, log.StandardLogger())
	if err != nil {
		log.Errorf("pipeline unavailable, running without HMD: %v", err)
		pipeline = core.NewNullPipeline()
	}
	defer pipeline.Destroy()

	if pipeline.IsUsingDebugDevice() {
		log.Info("rendering to the debug device")
	}

	clock := core.NewTime(configuration.Time)
	defer clock.Stop()

	exitC := make(chan struct{}, 2)

EventLoop:
	for {
		select {
		case <-exitC:
			log.Println("Event loop exited")
			break EventLoop
		case <-clock.FpsTicker().C:
			if err := pipeline.Render(); err != nil {
				log.Error(err)
			}
		case <-clock.EventTicker().C:
			var event sdl.Event
			for event = sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						exitC <- struct{}{}
						continue EventLoop
					}
				case *sdl.QuitEvent:
					exitC <- struct{}{}
					continue EventLoop
				}
			}
		}
	}
}
