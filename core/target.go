package core

import (
	"errors"

	"github.com/devblok/hmd/device"
	"github.com/devblok/hmd/gfx"
)

// ErrIncompleteTarget is returned when the off-screen framebuffer cannot
// be assembled into a complete render target.
var ErrIncompleteTarget = errors.New("core: render target framebuffer is not complete")

// RenderTarget is the off-screen color+depth surface both eyes render
// into before distortion. Owned by the pipeline that built it.
type RenderTarget struct {
	Color gfx.Texture
	Depth gfx.Renderbuffer
	FBO   gfx.Framebuffer
	Size  device.Sizei
}

// computeTargetSize combines the per-eye recommended texture sizes into
// one side-by-side target: widths add up, the taller eye wins.
func computeTargetSize(dev device.Device, fovs [device.EyeCount]device.FovPort, pixelDensity float32) device.Sizei {
	left := dev.FovTextureSize(device.EyeLeft, fovs[device.EyeLeft], pixelDensity)
	right := dev.FovTextureSize(device.EyeRight, fovs[device.EyeRight], pixelDensity)

	size := device.Sizei{
		W: left.W + right.W,
		H: left.H,
	}
	if right.H > size.H {
		size.H = right.H
	}
	return size
}

// newRenderTarget allocates the combined color texture, depth buffer and
// framebuffer. Any failure, including an empty size, is fatal for the
// pipeline; partially created resources are released before returning.
func newRenderTarget(ctx gfx.Context, size device.Sizei) (*RenderTarget, error) {
	if size.W == 0 || size.H == 0 {
		return nil, ErrIncompleteTarget
	}

	color, err := ctx.NewTexture2D(size.W, size.H)
	if err != nil {
		return nil, errors.New("gfx.NewTexture2D(): " + err.Error())
	}

	depth, err := ctx.NewDepthBuffer(size.W, size.H)
	if err != nil {
		ctx.DeleteTexture(color)
		return nil, errors.New("gfx.NewDepthBuffer(): " + err.Error())
	}

	fbo, err := ctx.NewFramebuffer(color, depth)
	if err != nil {
		ctx.DeleteRenderbuffer(depth)
		ctx.DeleteTexture(color)
		return nil, ErrIncompleteTarget
	}

	return &RenderTarget{
		Color: color,
		Depth: depth,
		FBO:   fbo,
		Size:  size,
	}, nil
}

// Release frees the graphics resources the target owns.
func (t *RenderTarget) Release(ctx gfx.Context) {
	ctx.DeleteFramebuffer(t.FBO)
	ctx.DeleteTexture(t.Color)
	ctx.DeleteRenderbuffer(t.Depth)
}

// eyeViewport returns the half of the combined target the eye renders
// into. The split sits at floor(w/2), so the two halves partition odd
// widths with no gap or overlap.
func eyeViewport(eye device.Eye, size device.Sizei) gfx.Viewport {
	half := size.W / 2
	if eye == device.EyeLeft {
		return gfx.Viewport{X: 0, Y: 0, W: half, H: size.H}
	}
	return gfx.Viewport{X: half, Y: 0, W: size.W - half, H: size.H}
}
