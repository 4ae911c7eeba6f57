package main

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"sceneloop/internal/graphics"
)

const quadVertexSrc = `#version 410 core
layout(location = 0) in vec3 position;
layout(location = 1) in vec2 uv;
uniform mat4 mvp;
out vec2 vUV;
void main() {
	vUV = uv;
	gl_Position = mvp * vec4(position, 1.0);
}`

const quadFragmentSrc = `#version 410 core
in vec2 vUV;
out vec4 fragColor;
uniform sampler2D tex;
void main() {
	fragColor = texture(tex, vUV);
}`

// texturedQuad shows a loaded image on a quad behind the triangle. The
// decoded image is held until Init, which runs with the GL context
// current.
type texturedQuad struct {
	img     image.Image
	shader  *graphics.Shader
	texture uint32
	vao     uint32
	vbo     uint32
}

func newTexturedQuad(img image.Image) *texturedQuad {
	return &texturedQuad{img: img}
}

func (q *texturedQuad) Init() error {
	shader, err := graphics.NewShader(quadVertexSrc, quadFragmentSrc)
	if err != nil {
		return err
	}
	q.shader = shader

	q.texture, _, _ = graphics.NewTexture(q.img)
	q.img = nil

	// position xyz + uv, two triangles
	vertices := []float32{
		-1, -1, 0, 0, 1,
		1, -1, 0, 1, 1,
		1, 1, 0, 1, 0,
		-1, -1, 0, 0, 1,
		1, 1, 0, 1, 0,
		-1, 1, 0, 0, 0,
	}

	gl.GenVertexArrays(1, &q.vao)
	gl.BindVertexArray(q.vao)

	gl.GenBuffers(1, &q.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return nil
}

func (q *texturedQuad) Render(ctx graphics.RenderContext) {
	model := mgl32.Translate3D(0, 0, -1).Mul4(mgl32.Scale3D(1.5, 1.5, 1))
	view := mgl32.Translate3D(0, 0, -2)
	mvp := ctx.Proj.Mul4(view).Mul4(model)

	q.shader.Use()
	q.shader.SetMatrix4("mvp", &mvp[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, q.texture)
	q.shader.SetInt("tex", 0)

	gl.BindVertexArray(q.vao)
	gl.Disable(gl.CULL_FACE)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.Enable(gl.CULL_FACE)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (q *texturedQuad) Dispose() {
	gl.DeleteTextures(1, &q.texture)
	gl.DeleteBuffers(1, &q.vbo)
	gl.DeleteVertexArrays(1, &q.vao)
	if q.shader != nil {
		q.shader.Delete()
	}
}
