package core

import (
	"testing"

	"github.com/devblok/hmd/device"
	"github.com/devblok/hmd/gfx"
)

func TestComputeTargetSize(t *testing.T) {
	tests := []struct {
		name        string
		left, right device.Sizei
		want        device.Sizei
	}{
		{"equal eyes", device.Sizei{W: 640, H: 800}, device.Sizei{W: 640, H: 800}, device.Sizei{W: 1280, H: 800}},
		{"differing eyes", device.Sizei{W: 600, H: 700}, device.Sizei{W: 640, H: 800}, device.Sizei{W: 1240, H: 800}},
		{"left taller", device.Sizei{W: 640, H: 900}, device.Sizei{W: 640, H: 800}, device.Sizei{W: 1280, H: 900}},
	}

	for _, tc := range tests {
		rt := newFakeRuntime(true)
		rt.eyeSize = [device.EyeCount]device.Sizei{tc.left, tc.right}
		rt.Initialize()
		dev, err := rt.Create()
		if err != nil {
			t.Fatal(err)
		}

		var fovs [device.EyeCount]device.FovPort
		if got := computeTargetSize(dev, fovs, 1.0); got != tc.want {
			t.Errorf("%s: computeTargetSize = %v, want %v", tc.name, got, tc.want)
		}
		dev.Destroy()
	}
}

func TestEyeViewportPartition(t *testing.T) {
	for _, w := range []int{2, 640, 1280, 1281, 1919} {
		size := device.Sizei{W: w, H: 800}
		left := eyeViewport(device.EyeLeft, size)
		right := eyeViewport(device.EyeRight, size)

		if left.X != 0 || left.Y != 0 {
			t.Errorf("w=%d: left viewport offset = (%d,%d)", w, left.X, left.Y)
		}
		if right.X != left.W {
			t.Errorf("w=%d: gap or overlap at the split: left.W=%d right.X=%d", w, left.W, right.X)
		}
		if left.W+right.W != w {
			t.Errorf("w=%d: widths %d+%d do not partition the target", w, left.W, right.W)
		}
		if left.H != 800 || right.H != 800 {
			t.Errorf("w=%d: viewport heights %d,%d want 800", w, left.H, right.H)
		}
	}
}

func TestNewRenderTargetZeroSizeFails(t *testing.T) {
	if _, err := newRenderTarget(gfx.NewHeadless(), device.Sizei{}); err != ErrIncompleteTarget {
		t.Fatalf("expected ErrIncompleteTarget, got %v", err)
	}
}

func TestRenderTargetLifecycle(t *testing.T) {
	ctx := gfx.NewHeadless()
	target, err := newRenderTarget(ctx, device.Sizei{W: 1280, H: 800})
	if err != nil {
		t.Fatal(err)
	}

	if target.Color == 0 || target.Depth == 0 || target.FBO == 0 {
		t.Error("render target has unallocated resources")
	}
	if ctx.Live() != 3 {
		t.Errorf("expected 3 live resources, got %d", ctx.Live())
	}

	target.Release(ctx)
	if ctx.Live() != 0 {
		t.Errorf("%d resources leaked after Release", ctx.Live())
	}
}
