//go:build windows

package wgl

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// COM vtable indices.
const (
	unknownQueryInterface = 0
	unknownRelease        = 2

	d3d11DeviceCreateRenderTargetView = 9  // ID3D11Device
	d3d11CtxOMSetRenderTargets        = 33 // ID3D11DeviceContext
	d3d11CtxClearRenderTargetView     = 50 // ID3D11DeviceContext
	dxgiSwapChainPresent              = 8  // IDXGISwapChain
	dxgiSwapChainGetBuffer            = 9  // IDXGISwapChain
	dxgiSwapChain2GetLatencyObject    = 33 // IDXGISwapChain2
)

var (
	iidID3D11Texture2D = windows.GUID{Data1: 0x6f15aaf2, Data2: 0xd208, Data3: 0x4e89, Data4: [8]byte{0x9a, 0xb4, 0x48, 0x95, 0x35, 0xd3, 0x4f, 0x9c}}
	iidIDXGISwapChain2 = windows.GUID{Data1: 0xa8be2ac4, Data2: 0x199f, Data3: 0x4946, Data4: [8]byte{0xb3, 0x31, 0x79, 0x59, 0x9f, 0xb9, 0x8d, 0xe7}}
)

// comVtblFn resolves a COM vtable function pointer by index.
func comVtblFn(obj uintptr, idx int) uintptr {
	vtablePtr := *(*uintptr)(unsafe.Pointer(obj))
	return *(*uintptr)(unsafe.Pointer(vtablePtr + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
}

// comCall invokes method idx on obj and converts a failing HRESULT.
func comCall(obj uintptr, idx int, name string, args ...uintptr) error {
	hr, _, _ := syscall.SyscallN(comVtblFn(obj, idx), append([]uintptr{obj}, args...)...)
	if int32(hr) < 0 {
		return HRESULT{Op: name, Code: uint32(hr)}
	}
	return nil
}

func comRelease(obj uintptr) {
	if obj != 0 {
		syscall.SyscallN(comVtblFn(obj, unknownRelease), obj)
	}
}

// HRESULT is a failed COM or DXGI call.
type HRESULT struct {
	Op   string
	Code uint32
}

func (e HRESULT) Error() string {
	return fmt.Sprintf("%s: HRESULT 0x%08X", e.Op, e.Code)
}
