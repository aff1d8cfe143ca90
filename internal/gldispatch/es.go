package gldispatch

import (
	"fmt"

	gl "github.com/go-gl/gl/v3.1/gles2"

	"github.com/1broseidon/fluxsaver/internal/gpu"
)

type es struct{}

func loadES(procAddr ProcAddrFunc) (gpu.GL, error) {
	var err error
	if procAddr != nil {
		err = gl.InitWithProcAddrFunc(procAddr)
	} else {
		err = gl.Init()
	}
	if err != nil {
		return nil, fmt.Errorf("load OpenGL ES 3.0 entry points: %w", err)
	}
	return es{}, nil
}

func (es) Enable(capability uint32)      { gl.Enable(capability) }
func (es) Disable(capability uint32)     { gl.Disable(capability) }
func (es) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (es) Clear(mask uint32)             { gl.Clear(mask) }
func (es) Finish()                       { gl.Finish() }
func (es) Viewport(x, y, w, h int32)     { gl.Viewport(x, y, w, h) }

func (es) GetString(name uint32) string {
	p := gl.GetString(name)
	if p == nil {
		return ""
	}
	return gl.GoStr(p)
}

func (es) GenFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (es) DeleteFramebuffer(fbo uint32)       { gl.DeleteFramebuffers(1, &fbo) }
func (es) BindFramebuffer(target, fbo uint32) { gl.BindFramebuffer(target, fbo) }
func (es) CheckFramebufferStatus(target uint32) uint32 {
	return gl.CheckFramebufferStatus(target)
}

func (es) GenRenderbuffer() uint32 {
	var rbo uint32
	gl.GenRenderbuffers(1, &rbo)
	return rbo
}

func (es) DeleteRenderbuffer(rbo uint32) { gl.DeleteRenderbuffers(1, &rbo) }

func (es) FramebufferRenderbuffer(target, attachment, rbTarget, rbo uint32) {
	gl.FramebufferRenderbuffer(target, attachment, rbTarget, rbo)
}

func (es) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (es) DeleteTexture(tex uint32) { gl.DeleteTextures(1, &tex) }

func (es) FramebufferTexture2D(target, attachment, texTarget, tex uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, texTarget, tex, level)
}
