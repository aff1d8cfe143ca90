//go:build !cgo

package cflux

import "errors"

// ErrUnavailable is returned by New in builds without cgo.
var ErrUnavailable = errors.New("cflux: libflux requires cgo")

// Flux is unavailable without cgo.
type Flux struct{}

func New(logicalWidth, logicalHeight, physicalWidth, physicalHeight uint32, settingsJSON string) (*Flux, error) {
	return nil, ErrUnavailable
}

func (f *Flux) Animate(timestamp float64) {}
func (f *Flux) Compute(timestamp float64) {}
func (f *Flux) Render()                   {}
func (f *Flux) Close() error              { return nil }

func (f *Flux) Resize(logicalWidth, logicalHeight, physicalWidth, physicalHeight uint32) {}
