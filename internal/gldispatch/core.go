package gldispatch

import (
	"fmt"

	gl "github.com/go-gl/gl/v3.3-core/gl"

	"github.com/1broseidon/fluxsaver/internal/gpu"
)

type core struct{}

func loadCore(procAddr ProcAddrFunc) (gpu.GL, error) {
	var err error
	if procAddr != nil {
		err = gl.InitWithProcAddrFunc(procAddr)
	} else {
		err = gl.Init()
	}
	if err != nil {
		return nil, fmt.Errorf("load OpenGL 3.3 core entry points: %w", err)
	}
	return core{}, nil
}

func (core) Enable(capability uint32)      { gl.Enable(capability) }
func (core) Disable(capability uint32)     { gl.Disable(capability) }
func (core) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (core) Clear(mask uint32)             { gl.Clear(mask) }
func (core) Finish()                       { gl.Finish() }
func (core) Viewport(x, y, w, h int32)     { gl.Viewport(x, y, w, h) }

func (core) GetString(name uint32) string {
	p := gl.GetString(name)
	if p == nil {
		return ""
	}
	return gl.GoStr(p)
}

func (core) GenFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (core) DeleteFramebuffer(fbo uint32)       { gl.DeleteFramebuffers(1, &fbo) }
func (core) BindFramebuffer(target, fbo uint32) { gl.BindFramebuffer(target, fbo) }
func (core) CheckFramebufferStatus(target uint32) uint32 {
	return gl.CheckFramebufferStatus(target)
}

func (core) GenRenderbuffer() uint32 {
	var rbo uint32
	gl.GenRenderbuffers(1, &rbo)
	return rbo
}

func (core) DeleteRenderbuffer(rbo uint32) { gl.DeleteRenderbuffers(1, &rbo) }

func (core) FramebufferRenderbuffer(target, attachment, rbTarget, rbo uint32) {
	gl.FramebufferRenderbuffer(target, attachment, rbTarget, rbo)
}

func (core) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (core) DeleteTexture(tex uint32) { gl.DeleteTextures(1, &tex) }

func (core) FramebufferTexture2D(target, attachment, texTarget, tex uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, texTarget, tex, level)
}
