// Package window extracts the native window handle the HMD runtime binds
// its distortion output to. Only the handle crosses this boundary, the
// windowing toolkit itself stays in the binary.
package window

import (
	"errors"

	"github.com/veandco/go-sdl2/sdl"
)

// ErrUnsupportedPlatform is returned when the window system in use has no
// native handle the HMD runtime understands.
var ErrUnsupportedPlatform = errors.New("window: no native handle for this platform")

// Platform identifies the windowing system a Handle belongs to.
type Platform int

// Supported windowing systems.
const (
	Win32 Platform = iota
	Cocoa
	X11
)

// Handle is a platform window reference. Display is only meaningful on X11.
type Handle struct {
	Platform Platform
	Window   uintptr
	Display  uintptr
}

// FromSDL queries SDL for the window manager info of w and converts it
// to a Handle. Fails if the info cannot be retrieved or the platform is
// not one the HMD runtime can bind to.
func FromSDL(w *sdl.Window) (Handle, error) {
	info, err := w.GetWMInfo()
	if err != nil {
		return Handle{}, errors.New("sdl.GetWMInfo(): " + err.Error())
	}

	switch info.Subsystem {
	case sdl.SYSWM_WINDOWS:
		return Handle{
			Platform: Win32,
			Window:   uintptr(info.GetWindowsInfo().Window),
		}, nil
	case sdl.SYSWM_COCOA:
		return Handle{
			Platform: Cocoa,
			Window:   uintptr(info.GetCocoaInfo().Window),
		}, nil
	case sdl.SYSWM_X11:
		x11 := info.GetX11Info()
		return Handle{
			Platform: X11,
			Window:   uintptr(x11.Window),
			Display:  uintptr(x11.Display),
		}, nil
	default:
		return Handle{}, ErrUnsupportedPlatform
	}
}
