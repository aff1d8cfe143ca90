package gpu

import (
	"errors"
	"fmt"
)

type fakeGL struct {
	calls       []string
	disabled    map[uint32]bool
	next        uint32
	attachments map[uint32]uint32 // fbo -> attached object
	bound       uint32
	status      func(fbo uint32) uint32
}

func newFakeGL() *fakeGL {
	return &fakeGL{disabled: map[uint32]bool{}, attachments: map[uint32]uint32{}}
}

func (g *fakeGL) record(format string, args ...any) {
	g.calls = append(g.calls, fmt.Sprintf(format, args...))
}

func (g *fakeGL) gen() uint32 { g.next++; return g.next }

func (g *fakeGL) Enable(c uint32)                  { delete(g.disabled, c) }
func (g *fakeGL) Disable(c uint32)                 { g.disabled[c] = true }
func (g *fakeGL) ClearColor(r, gg, b, a float32)   { g.record("clearColor %.2f", a) }
func (g *fakeGL) Clear(mask uint32)                { g.record("clear") }
func (g *fakeGL) Finish()                          { g.record("finish") }
func (g *fakeGL) Viewport(x, y, w, h int32)        {}
func (g *fakeGL) GetString(name uint32) string     { return "fake" }
func (g *fakeGL) GenFramebuffer() uint32           { return g.gen() }
func (g *fakeGL) DeleteFramebuffer(fbo uint32)     { g.record("deleteFramebuffer %d", fbo) }
func (g *fakeGL) GenRenderbuffer() uint32          { return g.gen() }
func (g *fakeGL) DeleteRenderbuffer(rbo uint32)    { g.record("deleteRenderbuffer %d", rbo) }
func (g *fakeGL) GenTexture() uint32               { return g.gen() }
func (g *fakeGL) DeleteTexture(tex uint32)         { g.record("deleteTexture %d", tex) }
func (g *fakeGL) BindFramebuffer(target, fbo uint32) { g.bound = fbo; g.record("bindFramebuffer %d", fbo) }

func (g *fakeGL) FramebufferRenderbuffer(target, attachment, rbTarget, rbo uint32) {
	g.attachments[g.bound] = rbo
	g.record("framebufferRenderbuffer %d", rbo)
}

func (g *fakeGL) FramebufferTexture2D(target, attachment, texTarget, tex uint32, level int32) {
	g.attachments[g.bound] = tex
	g.record("framebufferTexture2D %d", tex)
}

func (g *fakeGL) CheckFramebufferStatus(target uint32) uint32 {
	if g.status != nil {
		return g.status(g.bound)
	}
	if g.attachments[g.bound] == 0 {
		return FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT
	}
	return FRAMEBUFFER_COMPLETE
}

type fakeContext struct {
	gl         *fakeGL
	request    ContextRequest
	boundW     int
	boundH     int
	current    bool
	destroyed  bool
	swaps      int
	interval   int
	currentErr error
}

func (c *fakeContext) BindSurface(w, h int) error { c.boundW, c.boundH = w, h; return nil }
func (c *fakeContext) MakeCurrent() error {
	if c.currentErr != nil {
		return c.currentErr
	}
	c.current = true
	return nil
}
func (c *fakeContext) SwapBuffers() error               { c.swaps++; return nil }
func (c *fakeContext) SetSwapInterval(interval int) error { c.interval = interval; return nil }
func (c *fakeContext) LoadGL() (GL, error)              { return c.gl, nil }
func (c *fakeContext) Destroy() error                   { c.destroyed = true; return nil }

type fakeDriver struct {
	configs    []PixelConfig
	configsErr error
	reject     map[API]error
	chosen     *PixelConfig
	requests   []ContextRequest
	ctx        *fakeContext
}

func (d *fakeDriver) Configs() ([]PixelConfig, error) { return d.configs, d.configsErr }

func (d *fakeDriver) CreateContext(cfg PixelConfig, req ContextRequest) (Context, error) {
	d.requests = append(d.requests, req)
	if err := d.reject[req.API]; err != nil {
		return nil, err
	}
	d.chosen = &cfg
	d.ctx = &fakeContext{gl: newFakeGL(), request: req}
	return d.ctx, nil
}

type fakePresenter struct {
	presents  int
	waits     int
	released  bool
	bufferErr error
}

func (p *fakePresenter) Device() uintptr { return 0xD3D }
func (p *fakePresenter) BackBuffer() (uintptr, error) {
	if p.bufferErr != nil {
		return 0, p.bufferErr
	}
	return 0xB0B, nil
}
func (p *fakePresenter) WaitForFrame() error { p.waits++; return nil }
func (p *fakePresenter) Present() error      { p.presents++; return nil }
func (p *fakePresenter) Release() error      { p.released = true; return nil }

var errRejected = errors.New("driver rejected registration")

type fakeInterop struct {
	unavailable        error
	rejectRenderbuffer bool
	rejectTexture      bool
	openErr            error

	open       bool
	registered map[uintptr]BufferKind
	locked     bool
	lockCount  int
	log        []string
}

func newFakeInterop() *fakeInterop {
	return &fakeInterop{registered: map[uintptr]BufferKind{}}
}

func (i *fakeInterop) Available() error { return i.unavailable }

func (i *fakeInterop) OpenDevice(device uintptr) (uintptr, error) {
	if i.openErr != nil {
		return 0, i.openErr
	}
	i.open = true
	i.log = append(i.log, "open")
	return 0x1, nil
}

func (i *fakeInterop) CloseDevice(device uintptr) error {
	i.open = false
	i.log = append(i.log, "close")
	return nil
}

func (i *fakeInterop) RegisterObject(device, resource uintptr, name uint32, kind BufferKind) (uintptr, error) {
	if kind == BufferRenderbuffer && i.rejectRenderbuffer {
		return 0, errRejected
	}
	if kind == BufferTexture && i.rejectTexture {
		return 0, errRejected
	}
	handle := uintptr(0x100 + len(i.registered))
	i.registered[handle] = kind
	i.log = append(i.log, "register "+kind.String())
	return handle, nil
}

func (i *fakeInterop) UnregisterObject(device, object uintptr) error {
	delete(i.registered, object)
	i.log = append(i.log, "unregister")
	return nil
}

func (i *fakeInterop) LockObjects(device uintptr, objects ...uintptr) error {
	if i.locked {
		return errors.New("double lock")
	}
	i.locked = true
	i.lockCount++
	return nil
}

func (i *fakeInterop) UnlockObjects(device uintptr, objects ...uintptr) error {
	if !i.locked {
		return errors.New("unlock without lock")
	}
	i.locked = false
	return nil
}
