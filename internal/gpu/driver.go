package gpu

import "fmt"

// API selects the client API of a context request.
type API int

const (
	APIOpenGL API = iota
	APIOpenGLES
)

func (a API) String() string {
	switch a {
	case APIOpenGL:
		return "OpenGL"
	case APIOpenGLES:
		return "OpenGL ES"
	default:
		return fmt.Sprintf("API(%d)", int(a))
	}
}

// ContextRequest is a capability level asked of the driver.
type ContextRequest struct {
	API   API
	Major int
	Minor int
	// Core requests a core profile. Ignored for OpenGL ES.
	Core bool
}

func (r ContextRequest) String() string {
	profile := ""
	if r.API == APIOpenGL && r.Core {
		profile = " core"
	}
	return fmt.Sprintf("%s %d.%d%s", r.API, r.Major, r.Minor, profile)
}

var (
	// PrimaryRequest is the minimum desktop GL the engine needs.
	PrimaryRequest = ContextRequest{API: APIOpenGL, Major: 3, Minor: 3, Core: true}
	// FallbackRequest is the WebGL 2 equivalent.
	FallbackRequest = ContextRequest{API: APIOpenGLES, Major: 3, Minor: 0}
)

// Driver enumerates configurations for one native window and creates contexts
// against it.
type Driver interface {
	Configs() ([]PixelConfig, error)
	CreateContext(config PixelConfig, request ContextRequest) (Context, error)
}

// Context is a driver context that is not yet wrapped by a RenderContext.
type Context interface {
	// BindSurface creates the window drawable at the given physical size.
	BindSurface(width, height int) error
	MakeCurrent() error
	SwapBuffers() error
	SetSwapInterval(interval int) error
	// LoadGL resolves the dispatch table. The context must be current.
	LoadGL() (GL, error)
	Destroy() error
}
