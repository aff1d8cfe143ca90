//go:build windows

package wgl

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/1broseidon/fluxsaver/internal/gpu"
)

const (
	d3dDriverTypeHardware = 1
	d3d11SDKVersion       = 7

	dxgiFormatR8G8B8A8Unorm      = 28
	dxgiUsageRenderTargetOutput  = 0x20
	dxgiSwapEffectDiscard        = 0
	dxgiSwapEffectFlipDiscard    = 4
	dxgiFlagFrameLatencyWaitable = 0x40

	waitTimeoutMillis = 1000
)

type dxgiModeDesc struct {
	Width            uint32
	Height           uint32
	RefreshNumerator uint32
	RefreshDenom     uint32
	Format           uint32
	ScanlineOrdering uint32
	Scaling          uint32
}

// dxgiSwapChainDesc matches DXGI_SWAP_CHAIN_DESC.
type dxgiSwapChainDesc struct {
	BufferDesc    dxgiModeDesc
	SampleCount   uint32
	SampleQuality uint32
	BufferUsage   uint32
	BufferCount   uint32
	OutputWindow  uintptr
	Windowed      int32
	SwapEffect    uint32
	Flags         uint32
}

// PresenterOptions tune the Direct3D swapchain.
type PresenterOptions struct {
	// VSync presents on the vertical blank.
	VSync bool
	// FrameLatencyWait switches to the flip model and blocks each frame on
	// the swapchain's latency object.
	FrameLatencyWait bool
}

// Presenter is a Direct3D 11 device with a swapchain on a window.
type Presenter struct {
	device     uintptr
	context    uintptr
	swapChain  uintptr
	swapChain2 uintptr
	backBuffer uintptr
	latency    windows.Handle
	interval   uintptr
}

var _ gpu.Presenter = (*Presenter)(nil)

// NewPresenterFactory returns a factory creating presenters for hwnd.
func NewPresenterFactory(hwnd uintptr, opts PresenterOptions) gpu.PresenterFactory {
	return func(width, height int) (gpu.Presenter, error) {
		return NewPresenter(hwnd, width, height, opts)
	}
}

// NewPresenter creates the device and a two-buffer swapchain and clears the
// back buffer to transparent black.
func NewPresenter(hwnd uintptr, width, height int, opts PresenterOptions) (*Presenter, error) {
	if width <= 0 || height <= 0 {
		return nil, gpu.ErrZeroSize
	}
	desc := dxgiSwapChainDesc{
		BufferDesc: dxgiModeDesc{
			Width:  uint32(width),
			Height: uint32(height),
			Format: dxgiFormatR8G8B8A8Unorm,
		},
		SampleCount:  1,
		BufferUsage:  dxgiUsageRenderTargetOutput,
		BufferCount:  2,
		OutputWindow: hwnd,
		Windowed:     1,
		SwapEffect:   dxgiSwapEffectDiscard,
	}
	if opts.FrameLatencyWait {
		desc.SwapEffect = dxgiSwapEffectFlipDiscard
		desc.Flags = dxgiFlagFrameLatencyWaitable
	}

	p := &Presenter{}
	if opts.VSync {
		p.interval = 1
	}
	hr, _, _ := procD3D11CreateDeviceAndSwapChain.Call(
		0, d3dDriverTypeHardware, 0, 0, 0, 0, d3d11SDKVersion,
		uintptr(unsafe.Pointer(&desc)),
		uintptr(unsafe.Pointer(&p.swapChain)),
		uintptr(unsafe.Pointer(&p.device)),
		0,
		uintptr(unsafe.Pointer(&p.context)))
	if int32(hr) < 0 {
		return nil, HRESULT{Op: "D3D11CreateDeviceAndSwapChain", Code: uint32(hr)}
	}

	if opts.FrameLatencyWait {
		if err := p.openLatencyObject(); err != nil {
			p.Release()
			return nil, err
		}
	}
	if err := p.clearBackBuffer(); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (p *Presenter) openLatencyObject() error {
	if err := comCall(p.swapChain, unknownQueryInterface, "QueryInterface(IDXGISwapChain2)",
		uintptr(unsafe.Pointer(&iidIDXGISwapChain2)), uintptr(unsafe.Pointer(&p.swapChain2))); err != nil {
		return err
	}
	h, _, _ := syscall.SyscallN(comVtblFn(p.swapChain2, dxgiSwapChain2GetLatencyObject), p.swapChain2)
	if h == 0 {
		return fmt.Errorf("GetFrameLatencyWaitableObject returned no handle")
	}
	p.latency = windows.Handle(h)
	return nil
}

func (p *Presenter) clearBackBuffer() error {
	buffer, err := p.BackBuffer()
	if err != nil {
		return err
	}
	var rtv uintptr
	if err := comCall(p.device, d3d11DeviceCreateRenderTargetView, "CreateRenderTargetView",
		buffer, 0, uintptr(unsafe.Pointer(&rtv))); err != nil {
		return err
	}
	defer comRelease(rtv)

	syscall.SyscallN(comVtblFn(p.context, d3d11CtxOMSetRenderTargets), p.context, 1, uintptr(unsafe.Pointer(&rtv)), 0)
	color := [4]float32{0, 0, 0, 0}
	syscall.SyscallN(comVtblFn(p.context, d3d11CtxClearRenderTargetView), p.context, rtv, uintptr(unsafe.Pointer(&color[0])))
	return nil
}

// Device returns the ID3D11Device pointer.
func (p *Presenter) Device() uintptr { return p.device }

// BackBuffer returns the swapchain's first buffer as an ID3D11Texture2D.
// The reference is owned by the presenter.
func (p *Presenter) BackBuffer() (uintptr, error) {
	if p.backBuffer != 0 {
		return p.backBuffer, nil
	}
	if err := comCall(p.swapChain, dxgiSwapChainGetBuffer, "IDXGISwapChain::GetBuffer",
		0, uintptr(unsafe.Pointer(&iidID3D11Texture2D)), uintptr(unsafe.Pointer(&p.backBuffer))); err != nil {
		return 0, err
	}
	return p.backBuffer, nil
}

func (p *Presenter) WaitForFrame() error {
	if p.latency == 0 {
		return nil
	}
	r, _, err := procWaitForSingleObjectEx.Call(uintptr(p.latency), waitTimeoutMillis, 1)
	if r == uintptr(windows.WAIT_FAILED) {
		return lastErr("WaitForSingleObjectEx", err)
	}
	return nil
}

func (p *Presenter) Present() error {
	hr, _, _ := syscall.SyscallN(comVtblFn(p.swapChain, dxgiSwapChainPresent), p.swapChain, p.interval, 0)
	if int32(hr) < 0 {
		return HRESULT{Op: "IDXGISwapChain::Present", Code: uint32(hr)}
	}
	// DXGI_STATUS_OCCLUDED is a success code; the window keeps rendering.
	return nil
}

func (p *Presenter) Release() error {
	if p.latency != 0 {
		windows.CloseHandle(p.latency)
		p.latency = 0
	}
	for _, obj := range []*uintptr{&p.backBuffer, &p.swapChain2, &p.swapChain, &p.context, &p.device} {
		comRelease(*obj)
		*obj = 0
	}
	return nil
}
