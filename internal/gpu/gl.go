package gpu

import "fmt"

// OpenGL enums used by the negotiator and the bridge.
const (
	COLOR_BUFFER_BIT = 0x00004000
	MULTISAMPLE      = 0x809D
	TEXTURE_2D       = 0x0DE1
	VENDOR           = 0x1F00
	RENDERER         = 0x1F01
	VERSION          = 0x1F02

	FRAMEBUFFER       = 0x8D40
	RENDERBUFFER      = 0x8D41
	COLOR_ATTACHMENT0 = 0x8CE0

	FRAMEBUFFER_COMPLETE                      = 0x8CD5
	FRAMEBUFFER_INCOMPLETE_ATTACHMENT         = 0x8CD6
	FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT = 0x8CD7
	FRAMEBUFFER_UNSUPPORTED                   = 0x8CDD
)

// GL is the subset of the OpenGL dispatch table the presentation layer uses.
// The engine loads its own function pointers from the current context.
type GL interface {
	Enable(capability uint32)
	Disable(capability uint32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Finish()
	Viewport(x, y, width, height int32)
	GetString(name uint32) string

	GenFramebuffer() uint32
	DeleteFramebuffer(fbo uint32)
	BindFramebuffer(target, fbo uint32)
	CheckFramebufferStatus(target uint32) uint32

	GenRenderbuffer() uint32
	DeleteRenderbuffer(rbo uint32)
	FramebufferRenderbuffer(target, attachment, renderbufferTarget, rbo uint32)

	GenTexture() uint32
	DeleteTexture(texture uint32)
	FramebufferTexture2D(target, attachment, textureTarget, texture uint32, level int32)
}

// FramebufferStatusString names a glCheckFramebufferStatus result.
func FramebufferStatusString(status uint32) string {
	switch status {
	case FRAMEBUFFER_COMPLETE:
		return "complete"
	case FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return "incomplete attachment"
	case FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return "missing attachment"
	case FRAMEBUFFER_UNSUPPORTED:
		return "unsupported"
	default:
		return fmt.Sprintf("%#x", status)
	}
}
