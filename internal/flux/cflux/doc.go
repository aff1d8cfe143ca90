// Package cflux is the cgo binding to libflux, the Flux simulation built as a
// C library. Link it by placing libflux on the linker search path.
package cflux
