//go:build windows

package wgl

import (
	"errors"
	"syscall"
	"unsafe"

	"github.com/1broseidon/fluxsaver/internal/gpu"
)

const wglAccessReadWriteDiscard = 0x0002

// Interop drives WGL_NV_DX_interop.
type Interop struct {
	ext *extensions
}

var _ gpu.Interop = (*Interop)(nil)

func (i *Interop) Available() error {
	if !i.ext.has("WGL_NV_DX_interop") {
		return errors.New("WGL_NV_DX_interop is not supported")
	}
	if i.ext.dxOpenDevice == 0 || i.ext.dxCloseDevice == 0 || i.ext.dxRegisterObject == 0 ||
		i.ext.dxUnregisterObject == 0 || i.ext.dxLockObjects == 0 || i.ext.dxUnlockObjects == 0 {
		return errors.New("WGL_NV_DX_interop entry points missing")
	}
	return nil
}

func (i *Interop) OpenDevice(device uintptr) (uintptr, error) {
	h, _, err := syscall.SyscallN(i.ext.dxOpenDevice, device)
	if h == 0 {
		return 0, lastErr("wglDXOpenDeviceNV", err)
	}
	return h, nil
}

func (i *Interop) CloseDevice(device uintptr) error {
	if ok, _, err := syscall.SyscallN(i.ext.dxCloseDevice, device); ok == 0 {
		return lastErr("wglDXCloseDeviceNV", err)
	}
	return nil
}

func (i *Interop) RegisterObject(device, resource uintptr, name uint32, kind gpu.BufferKind) (uintptr, error) {
	h, _, err := syscall.SyscallN(i.ext.dxRegisterObject, device, resource,
		uintptr(name), uintptr(kind.Target()), wglAccessReadWriteDiscard)
	if h == 0 {
		return 0, lastErr("wglDXRegisterObjectNV", err)
	}
	return h, nil
}

func (i *Interop) UnregisterObject(device, object uintptr) error {
	if ok, _, err := syscall.SyscallN(i.ext.dxUnregisterObject, device, object); ok == 0 {
		return lastErr("wglDXUnregisterObjectNV", err)
	}
	return nil
}

func (i *Interop) LockObjects(device uintptr, objects ...uintptr) error {
	if len(objects) == 0 {
		return nil
	}
	if ok, _, err := syscall.SyscallN(i.ext.dxLockObjects, device, uintptr(len(objects)), uintptr(unsafe.Pointer(&objects[0]))); ok == 0 {
		return lastErr("wglDXLockObjectsNV", err)
	}
	return nil
}

func (i *Interop) UnlockObjects(device uintptr, objects ...uintptr) error {
	if len(objects) == 0 {
		return nil
	}
	if ok, _, err := syscall.SyscallN(i.ext.dxUnlockObjects, device, uintptr(len(objects)), uintptr(unsafe.Pointer(&objects[0]))); ok == 0 {
		return lastErr("wglDXUnlockObjectsNV", err)
	}
	return nil
}
