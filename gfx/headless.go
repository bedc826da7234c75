package gfx

import (
	"errors"
	"fmt"
)

// NewHeadless creates a Context backed by nothing but bookkeeping. It
// hands out ids, validates framebuffer assembly and tracks what is
// still allocated. Useful on machines without a graphics context and as
// the default context in tests.
func NewHeadless() *Headless {
	return &Headless{
		textures:      map[Texture]sizei{},
		renderbuffers: map[Renderbuffer]sizei{},
		framebuffers:  map[Framebuffer]struct{}{},
	}
}

type sizei struct {
	w, h int
}

// Headless is a software-only Context.
type Headless struct {
	nextID uint32

	textures      map[Texture]sizei
	renderbuffers map[Renderbuffer]sizei
	framebuffers  map[Framebuffer]struct{}

	bound    Framebuffer
	viewport Viewport
	lastErr  error
}

func (h *Headless) newID() uint32 {
	h.nextID++
	return h.nextID
}

// NewTexture2D implements Context.
func (h *Headless) NewTexture2D(width, height int) (Texture, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("gfx: invalid texture size %dx%d", width, height)
	}
	id := Texture(h.newID())
	h.textures[id] = sizei{width, height}
	return id, nil
}

// NewDepthBuffer implements Context.
func (h *Headless) NewDepthBuffer(width, height int) (Renderbuffer, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("gfx: invalid renderbuffer size %dx%d", width, height)
	}
	id := Renderbuffer(h.newID())
	h.renderbuffers[id] = sizei{width, height}
	return id, nil
}

// NewFramebuffer implements Context. Completeness here means both
// attachments exist and their sizes match.
func (h *Headless) NewFramebuffer(color Texture, depth Renderbuffer) (Framebuffer, error) {
	ts, ok := h.textures[color]
	if !ok {
		return 0, errors.New("gfx: color attachment does not exist")
	}
	rs, ok := h.renderbuffers[depth]
	if !ok {
		return 0, errors.New("gfx: depth attachment does not exist")
	}
	if ts != rs {
		return 0, errors.New("gfx: attachment sizes do not match")
	}
	id := Framebuffer(h.newID())
	h.framebuffers[id] = struct{}{}
	return id, nil
}

// BindFramebuffer implements Context.
func (h *Headless) BindFramebuffer(fb Framebuffer) {
	if _, ok := h.framebuffers[fb]; !ok && fb != 0 {
		h.lastErr = fmt.Errorf("gfx: bind of unknown framebuffer %d", fb)
		return
	}
	h.bound = fb
}

// SetViewport implements Context.
func (h *Headless) SetViewport(vp Viewport) {
	h.viewport = vp
}

// Clear implements Context.
func (h *Headless) Clear(r, g, b, a float32) {}

// LastError implements Context.
func (h *Headless) LastError() error {
	err := h.lastErr
	h.lastErr = nil
	return err
}

// DeleteTexture implements Context.
func (h *Headless) DeleteTexture(t Texture) {
	delete(h.textures, t)
}

// DeleteRenderbuffer implements Context.
func (h *Headless) DeleteRenderbuffer(r Renderbuffer) {
	delete(h.renderbuffers, r)
}

// DeleteFramebuffer implements Context.
func (h *Headless) DeleteFramebuffer(f Framebuffer) {
	delete(h.framebuffers, f)
	if h.bound == f {
		h.bound = 0
	}
}

// Live returns how many resources are still allocated.
func (h *Headless) Live() int {
	return len(h.textures) + len(h.renderbuffers) + len(h.framebuffers)
}
