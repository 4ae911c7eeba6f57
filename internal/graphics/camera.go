package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the minimal contract the session layer needs from a camera:
// a cached projection matrix, explicit recomputation, and a viewport
// update on container resize.
type Camera interface {
	ProjectionMatrix() mgl32.Mat4
	UpdateProjectionMatrix()
	SetViewport(width, height int)
}

// PerspectiveCamera handles a perspective projection. Fields may be
// mutated freely; the projection matrix only changes on
// UpdateProjectionMatrix.
type PerspectiveCamera struct {
	FOV         float32 // vertical field of view, degrees
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	proj mgl32.Mat4
}

func NewPerspectiveCamera(fov float32, width, height int) *PerspectiveCamera {
	c := &PerspectiveCamera{
		FOV:         fov,
		AspectRatio: float32(width) / float32(height),
		NearPlane:   0.1,
		FarPlane:    1000.0,
	}
	c.UpdateProjectionMatrix()
	return c
}

func (c *PerspectiveCamera) ProjectionMatrix() mgl32.Mat4 {
	return c.proj
}

func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	c.proj = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *PerspectiveCamera) SetViewport(width, height int) {
	c.AspectRatio = float32(width) / float32(height)
}

// OrthographicCamera handles an orthographic projection. On resize the
// vertical extent stays fixed and the horizontal extent is recomputed
// from the new aspect ratio, so content never stretches.
type OrthographicCamera struct {
	Left      float32
	Right     float32
	Bottom    float32
	Top       float32
	NearPlane float32
	FarPlane  float32

	proj mgl32.Mat4
}

// NewOrthographicCamera creates a camera showing halfHeight world units
// above and below center, with the horizontal extent derived from the
// viewport aspect ratio.
func NewOrthographicCamera(halfHeight float32, width, height int) *OrthographicCamera {
	halfWidth := halfHeight * float32(width) / float32(height)
	c := &OrthographicCamera{
		Left:      -halfWidth,
		Right:     halfWidth,
		Bottom:    -halfHeight,
		Top:       halfHeight,
		NearPlane: 0.1,
		FarPlane:  1000.0,
	}
	c.UpdateProjectionMatrix()
	return c
}

func (c *OrthographicCamera) ProjectionMatrix() mgl32.Mat4 {
	return c.proj
}

func (c *OrthographicCamera) UpdateProjectionMatrix() {
	c.proj = mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.NearPlane, c.FarPlane)
}

func (c *OrthographicCamera) SetViewport(width, height int) {
	halfHeight := (c.Top - c.Bottom) / 2
	halfWidth := halfHeight * float32(width) / float32(height)
	c.Left = -halfWidth
	c.Right = halfWidth
}
