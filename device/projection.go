package device

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// projectionFromFov builds an off-center perspective projection from the
// FOV tangents. Column-major, right-handed, looking down -Z, clip depth
// in [-1,1]. Near/far come from the render loop (0.01/10000 by default).
func projectionFromFov(fov FovPort, near, far float32) glm.Mat4 {
	xScale := 2.0 / (fov.LeftTan + fov.RightTan)
	xOffset := (fov.RightTan - fov.LeftTan) / (fov.RightTan + fov.LeftTan)
	yScale := 2.0 / (fov.UpTan + fov.DownTan)
	yOffset := (fov.UpTan - fov.DownTan) / (fov.UpTan + fov.DownTan)

	var m glm.Mat4
	m.Set(0, 0, xScale)
	m.Set(0, 2, xOffset)
	m.Set(1, 1, yScale)
	m.Set(1, 2, yOffset)
	m.Set(2, 2, -(far+near)/(far-near))
	m.Set(2, 3, -2*far*near/(far-near))
	m.Set(3, 2, -1)
	return m
}
