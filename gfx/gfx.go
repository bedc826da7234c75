// Package gfx defines the graphics resource services the stereo pipeline
// renders through. The pipeline only ever talks to a Context, so the
// concrete graphics API stays on the caller's side of the boundary.
package gfx

// Resource ids mirror the unsigned object names of GL-style APIs.
// The zero value is never a valid id.
type (
	Texture      uint32
	Renderbuffer uint32
	Framebuffer  uint32
)

// Viewport is a pixel rectangle inside a render target.
type Viewport struct {
	X, Y int
	W, H int
}

// Context manages the off-screen resources of one graphics context.
// All calls must happen on the thread that owns the context.
type Context interface {

	// NewTexture2D allocates an empty RGBA texture of the given size
	// with linear min/mag filtering.
	NewTexture2D(width, height int) (Texture, error)

	// NewDepthBuffer allocates a depth-capable renderbuffer of the
	// given size.
	NewDepthBuffer(width, height int) (Renderbuffer, error)

	// NewFramebuffer binds color as attachment 0 and depth as the depth
	// attachment, declares a single draw buffer and checks completeness.
	// An incomplete framebuffer is an error, never a partial success.
	NewFramebuffer(color Texture, depth Renderbuffer) (Framebuffer, error)

	// BindFramebuffer makes fb the draw target. Binding the zero id
	// restores the default target.
	BindFramebuffer(fb Framebuffer)

	// SetViewport restricts drawing to the given rectangle.
	SetViewport(vp Viewport)

	// Clear fills the bound target with the given color and clears depth.
	Clear(r, g, b, a float32)

	// LastError drains and returns the most recent API error, or nil.
	// Used for best-effort error reporting between draw calls.
	LastError() error

	DeleteTexture(Texture)
	DeleteRenderbuffer(Renderbuffer)
	DeleteFramebuffer(Framebuffer)
}
