package gpu

import (
	"errors"
	"fmt"
	"log/slog"
)

// BufferKind is the GL object type a shared buffer is registered as.
type BufferKind int

const (
	BufferRenderbuffer BufferKind = iota
	BufferTexture
)

// Target returns the GL target the buffer kind registers and attaches with.
func (k BufferKind) Target() uint32 {
	if k == BufferTexture {
		return TEXTURE_2D
	}
	return RENDERBUFFER
}

func (k BufferKind) String() string {
	if k == BufferTexture {
		return "texture"
	}
	return "renderbuffer"
}

// Presenter is the secondary presentation backend: a device plus a swapchain
// bound to the same native window as the rendering context.
type Presenter interface {
	// Device returns the native device pointer handed to Interop.OpenDevice.
	Device() uintptr
	// BackBuffer returns the swapchain's current back buffer resource.
	BackBuffer() (uintptr, error)
	// WaitForFrame blocks on the frame-latency object, if any.
	WaitForFrame() error
	Present() error
	Release() error
}

// PresenterFactory creates a Presenter for a drawable of the given size.
type PresenterFactory func(width, height int) (Presenter, error)

// Interop is the cross-API extension (WGL_NV_DX_interop on Windows). Handles
// returned by it never leave the Bridge.
type Interop interface {
	// Available reports a missing extension as an error.
	Available() error
	OpenDevice(device uintptr) (uintptr, error)
	CloseDevice(device uintptr) error
	RegisterObject(device, resource uintptr, name uint32, kind BufferKind) (uintptr, error)
	UnregisterObject(device, object uintptr) error
	LockObjects(device uintptr, objects ...uintptr) error
	UnlockObjects(device uintptr, objects ...uintptr) error
}

// FrameState is the position of a Bridge in its per-frame protocol.
type FrameState int

const (
	FrameIdle FrameState = iota
	FrameLocked
	FrameUnlocked
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameLocked:
		return "locked"
	case FrameUnlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("FrameState(%d)", int(s))
	}
}

// Bridge renders through a RenderContext into a buffer shared with a
// Presenter. Every GL command touching the shared buffer is issued inside
// Frame, between the interop lock and unlock.
type Bridge struct {
	rc        *RenderContext
	gl        GL
	presenter Presenter
	interop   Interop
	logger    *slog.Logger

	device uintptr
	object uintptr
	fbo    uint32
	buffer uint32
	kind   BufferKind
	status uint32

	state  FrameState
	frames uint64
	closed bool
}

// NewBridge sets up bridged presentation for rc, which must be current.
// Every failure is an *InteropError matching ErrInteropUnavailable, and
// everything acquired up to that point is released.
func NewBridge(rc *RenderContext, newPresenter PresenterFactory, interop Interop, logger *slog.Logger) (*Bridge, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if rc == nil || rc.closed {
		return nil, interopErr("context", ErrContextClosed)
	}
	if interop == nil || newPresenter == nil {
		return nil, interopErr("extension", errors.New("no interop driver"))
	}
	if err := interop.Available(); err != nil {
		return nil, interopErr("extension", err)
	}

	width, height := rc.Size()
	presenter, err := newPresenter(width, height)
	if err != nil {
		return nil, interopErr("create presenter", err)
	}

	b := &Bridge{
		rc:        rc,
		gl:        rc.GL(),
		presenter: presenter,
		interop:   interop,
		logger:    logger,
	}
	if err := b.register(); err != nil {
		if terr := b.teardown(); terr != nil {
			logger.Warn("failed to release partial interop bridge", "error", terr)
		}
		return nil, err
	}

	rc.retain()
	logger.Debug("interop bridge ready", "buffer", b.kind.String(), "framebuffer", FramebufferStatusString(b.status))
	return b, nil
}

func (b *Bridge) register() error {
	device, err := b.interop.OpenDevice(b.presenter.Device())
	if err != nil {
		return interopErr("open device", err)
	}
	b.device = device

	backBuffer, err := b.presenter.BackBuffer()
	if err != nil {
		return interopErr("fetch back buffer", err)
	}

	b.fbo = b.gl.GenFramebuffer()

	b.kind = BufferRenderbuffer
	b.buffer = b.gl.GenRenderbuffer()
	object, err := b.interop.RegisterObject(b.device, backBuffer, b.buffer, BufferRenderbuffer)
	if err != nil {
		// Some drivers refuse to share renderbuffers; textures work there.
		b.logger.Info("renderbuffer sharing rejected, registering a texture instead", "error", err)
		b.gl.DeleteRenderbuffer(b.buffer)
		b.kind = BufferTexture
		b.buffer = b.gl.GenTexture()
		object, err = b.interop.RegisterObject(b.device, backBuffer, b.buffer, BufferTexture)
		if err != nil {
			return interopErr("register shared buffer", err)
		}
	}
	b.object = object

	// Attaching only records the object name; the lock is taken per frame.
	b.gl.BindFramebuffer(FRAMEBUFFER, b.fbo)
	switch b.kind {
	case BufferRenderbuffer:
		b.gl.FramebufferRenderbuffer(FRAMEBUFFER, COLOR_ATTACHMENT0, RENDERBUFFER, b.buffer)
	case BufferTexture:
		b.gl.FramebufferTexture2D(FRAMEBUFFER, COLOR_ATTACHMENT0, TEXTURE_2D, b.buffer, 0)
	}
	b.status = b.gl.CheckFramebufferStatus(FRAMEBUFFER)
	b.gl.BindFramebuffer(FRAMEBUFFER, 0)

	if b.status != FRAMEBUFFER_COMPLETE {
		return interopErr("framebuffer", fmt.Errorf("status %s", FramebufferStatusString(b.status)))
	}
	return nil
}

// Kind reports how the shared buffer was registered.
func (b *Bridge) Kind() BufferKind { return b.kind }

// FramebufferStatus returns the status recorded after attaching the buffer.
func (b *Bridge) FramebufferStatus() uint32 { return b.status }

// State returns the frame protocol state.
func (b *Bridge) State() FrameState { return b.state }

// Frames returns the number of presented frames.
func (b *Bridge) Frames() uint64 { return b.frames }

// Frame runs render with exclusive access to the shared buffer and then
// presents it. render receives the framebuffer aliasing the buffer. The buffer
// is unlocked even when render fails; a failed render is not presented.
func (b *Bridge) Frame(render func(fbo uint32) error) error {
	if b.closed {
		return ErrBridgeClosed
	}
	if b.state != FrameIdle {
		return fmt.Errorf("%w (state %s)", ErrBridgeBusy, b.state)
	}

	if err := b.presenter.WaitForFrame(); err != nil {
		return fmt.Errorf("wait for frame: %w", err)
	}
	if err := b.interop.LockObjects(b.device, b.object); err != nil {
		return fmt.Errorf("lock shared buffer: %w", err)
	}
	b.state = FrameLocked

	renderErr := render(b.fbo)

	unlockErr := b.interop.UnlockObjects(b.device, b.object)
	b.state = FrameUnlocked
	if renderErr != nil || unlockErr != nil {
		b.state = FrameIdle
		if unlockErr != nil {
			unlockErr = fmt.Errorf("unlock shared buffer: %w", unlockErr)
		}
		return errors.Join(renderErr, unlockErr)
	}

	if err := b.presenter.Present(); err != nil {
		b.state = FrameIdle
		return fmt.Errorf("present: %w", err)
	}
	b.frames++
	b.state = FrameIdle
	return nil
}

// Close unregisters the shared buffer, closes the interop device, deletes
// the GL objects and releases the presenter. The owning RenderContext must be
// current and must be closed after the bridge.
func (b *Bridge) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	err := b.teardown()
	b.rc.release()
	return err
}

func (b *Bridge) teardown() error {
	var errs []error
	if b.object != 0 {
		if err := b.interop.UnregisterObject(b.device, b.object); err != nil {
			errs = append(errs, fmt.Errorf("unregister shared buffer: %w", err))
		}
		b.object = 0
	}
	if b.device != 0 {
		if err := b.interop.CloseDevice(b.device); err != nil {
			errs = append(errs, fmt.Errorf("close interop device: %w", err))
		}
		b.device = 0
	}
	if b.buffer != 0 {
		if b.kind == BufferTexture {
			b.gl.DeleteTexture(b.buffer)
		} else {
			b.gl.DeleteRenderbuffer(b.buffer)
		}
		b.buffer = 0
	}
	if b.fbo != 0 {
		b.gl.DeleteFramebuffer(b.fbo)
		b.fbo = 0
	}
	if b.presenter != nil {
		if err := b.presenter.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release presenter: %w", err))
		}
		b.presenter = nil
	}
	return errors.Join(errs...)
}
