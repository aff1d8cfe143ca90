// Package gldispatch binds the gpu.GL interface to the go-gl loaders for the
// two capability levels a context can be granted.
package gldispatch

import (
	"fmt"
	"unsafe"

	"github.com/1broseidon/fluxsaver/internal/gpu"
)

// ProcAddrFunc resolves a GL entry point for the current context. A nil
// ProcAddrFunc makes the loaders use the platform default lookup.
type ProcAddrFunc func(name string) unsafe.Pointer

// Load initializes the entry points for api on the current context.
func Load(api gpu.API, procAddr ProcAddrFunc) (gpu.GL, error) {
	switch api {
	case gpu.APIOpenGL:
		return loadCore(procAddr)
	case gpu.APIOpenGLES:
		return loadES(procAddr)
	default:
		return nil, fmt.Errorf("unknown GL API %d", int(api))
	}
}
