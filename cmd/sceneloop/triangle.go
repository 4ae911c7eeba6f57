package main

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"sceneloop/internal/graphics"
)

const triangleVertexSrc = `#version 410 core
layout(location = 0) in vec3 position;
layout(location = 1) in vec3 color;
uniform mat4 mvp;
out vec3 vColor;
void main() {
	vColor = color;
	gl_Position = mvp * vec4(position, 1.0);
}`

const triangleFragmentSrc = `#version 410 core
in vec3 vColor;
out vec4 fragColor;
void main() {
	fragColor = vec4(vColor, 1.0);
}`

// triangle is a minimal renderable: one spinning colored triangle.
type triangle struct {
	shader *graphics.Shader
	vao    uint32
	vbo    uint32
	angle  float32
}

func newTriangle() *triangle {
	return &triangle{}
}

// Spin advances the rotation; called from the session update handler.
func (t *triangle) Spin(dt float64) {
	t.angle += float32(dt)
}

func (t *triangle) Init() error {
	shader, err := graphics.NewShader(triangleVertexSrc, triangleFragmentSrc)
	if err != nil {
		return err
	}
	t.shader = shader

	// position xyz + color rgb
	vertices := []float32{
		0.0, 0.5, 0.0, 1.0, 0.2, 0.2,
		-0.5, -0.5, 0.0, 0.2, 1.0, 0.2,
		0.5, -0.5, 0.0, 0.2, 0.2, 1.0,
	}

	gl.GenVertexArrays(1, &t.vao)
	gl.BindVertexArray(t.vao)

	gl.GenBuffers(1, &t.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, t.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(3*4))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return nil
}

func (t *triangle) Render(ctx graphics.RenderContext) {
	model := mgl32.HomogRotate3DY(t.angle)
	view := mgl32.Translate3D(0, 0, -2)
	mvp := ctx.Proj.Mul4(view).Mul4(model)

	t.shader.Use()
	t.shader.SetMatrix4("mvp", &mvp[0])

	gl.BindVertexArray(t.vao)
	gl.Disable(gl.CULL_FACE)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.Enable(gl.CULL_FACE)
	gl.BindVertexArray(0)
}

func (t *triangle) Dispose() {
	gl.DeleteBuffers(1, &t.vbo)
	gl.DeleteVertexArrays(1, &t.vao)
	if t.shader != nil {
		t.shader.Delete()
	}
}
