// Package gpu negotiates OpenGL rendering contexts and bridges them to a
// secondary presentation API through a shared colour buffer.
//
// The package only speaks to graphics drivers through the Driver, Context,
// Presenter and Interop interfaces. Concrete drivers live in platform
// packages (internal/wgl on Windows, internal/platform for glfw/GLX).
//
// Nothing in this package is safe for concurrent use. All calls for one
// RenderContext, including its Bridge, must come from the goroutine that made
// the context current, locked to its OS thread.
package gpu
