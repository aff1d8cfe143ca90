//go:build cgo

package cflux

/*
#cgo LDFLAGS: -lflux
#cgo windows LDFLAGS: -lws2_32 -luserenv -lbcrypt -lntdll
#cgo linux LDFLAGS: -ldl -lm -lpthread
#include <stdlib.h>

typedef struct Flux Flux;

Flux *flux_new(float width, float height, float physical_width, float physical_height, const char *settings_json_ptr);
void flux_animate(Flux *ptr, float timestamp);
void flux_compute(Flux *ptr, float timestamp);
void flux_render(Flux *ptr);
void flux_resize(Flux *ptr, float logical_width, float logical_height, float physical_width, float physical_height);
void flux_destroy(Flux *ptr);
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// Flux is a live engine bound to the GL context that was current when it was
// created. Every method must be called with that context current.
type Flux struct {
	ptr *C.Flux
}

// New creates an engine for a drawable of the given logical and physical
// size. settingsJSON is produced by Settings.JSON.
func New(logicalWidth, logicalHeight, physicalWidth, physicalHeight uint32, settingsJSON string) (*Flux, error) {
	if logicalWidth == 0 || logicalHeight == 0 || physicalWidth == 0 || physicalHeight == 0 {
		return nil, fmt.Errorf("cflux: invalid size %dx%d (%dx%d physical)", logicalWidth, logicalHeight, physicalWidth, physicalHeight)
	}
	cs := C.CString(settingsJSON)
	defer C.free(unsafe.Pointer(cs))

	ptr := C.flux_new(C.float(logicalWidth), C.float(logicalHeight), C.float(physicalWidth), C.float(physicalHeight), cs)
	if ptr == nil {
		return nil, errors.New("cflux: engine creation failed")
	}
	return &Flux{ptr: ptr}, nil
}

// Animate advances the simulation to timestamp (ms) and draws to the
// currently bound framebuffer.
func (f *Flux) Animate(timestamp float64) { C.flux_animate(f.ptr, C.float(timestamp)) }

// Compute advances the simulation without drawing.
func (f *Flux) Compute(timestamp float64) { C.flux_compute(f.ptr, C.float(timestamp)) }

// Render draws the current simulation state to the bound framebuffer.
func (f *Flux) Render() { C.flux_render(f.ptr) }

func (f *Flux) Resize(logicalWidth, logicalHeight, physicalWidth, physicalHeight uint32) {
	C.flux_resize(f.ptr, C.float(logicalWidth), C.float(logicalHeight), C.float(physicalWidth), C.float(physicalHeight))
}

func (f *Flux) Close() error {
	if f.ptr != nil {
		C.flux_destroy(f.ptr)
		f.ptr = nil
	}
	return nil
}
