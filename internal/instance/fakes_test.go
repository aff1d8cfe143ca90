package instance

import (
	"fmt"

	"github.com/1broseidon/fluxsaver/internal/gpu"
	"github.com/1broseidon/fluxsaver/internal/platform"
	"github.com/1broseidon/fluxsaver/internal/surface"
)

// recorder collects calls from every fake in one ordered log.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

type fakeGL struct {
	rec  *recorder
	next uint32
}

func (g *fakeGL) gen() uint32 { g.next++; return g.next }

func (g *fakeGL) Enable(uint32)                     {}
func (g *fakeGL) Disable(uint32)                    {}
func (g *fakeGL) ClearColor(r, gg, b, a float32)    { g.rec.add("clearColor %.2f", a) }
func (g *fakeGL) Clear(uint32)                      { g.rec.add("clear") }
func (g *fakeGL) Finish()                           { g.rec.add("finish") }
func (g *fakeGL) Viewport(x, y, w, h int32)         { g.rec.add("viewport %dx%d", w, h) }
func (g *fakeGL) GetString(uint32) string           { return "fake" }
func (g *fakeGL) GenFramebuffer() uint32            { return g.gen() }
func (g *fakeGL) DeleteFramebuffer(uint32)          {}
func (g *fakeGL) BindFramebuffer(target, fbo uint32) { g.rec.add("bind %d", fbo) }
func (g *fakeGL) CheckFramebufferStatus(uint32) uint32 {
	return gpu.FRAMEBUFFER_COMPLETE
}
func (g *fakeGL) GenRenderbuffer() uint32                        { return g.gen() }
func (g *fakeGL) DeleteRenderbuffer(uint32)                      {}
func (g *fakeGL) FramebufferRenderbuffer(_, _, _, _ uint32)      {}
func (g *fakeGL) GenTexture() uint32                             { return g.gen() }
func (g *fakeGL) DeleteTexture(uint32)                           {}
func (g *fakeGL) FramebufferTexture2D(_, _, _, _ uint32, _ int32) {}

type fakeContext struct {
	rec        *recorder
	gl         *fakeGL
	interval   int
	currentErr error
	swapErr    error
}

func (c *fakeContext) BindSurface(w, h int) error { return nil }
func (c *fakeContext) MakeCurrent() error {
	if c.currentErr != nil {
		return c.currentErr
	}
	c.rec.add("makeCurrent")
	return nil
}
func (c *fakeContext) SwapBuffers() error {
	c.rec.add("swap")
	return c.swapErr
}
func (c *fakeContext) SetSwapInterval(i int) error { c.interval = i; return nil }
func (c *fakeContext) LoadGL() (gpu.GL, error)     { return c.gl, nil }
func (c *fakeContext) Destroy() error              { c.rec.add("destroyContext"); return nil }

type fakeDriver struct {
	rec *recorder
	ctx *fakeContext
	err error
}

func (d *fakeDriver) Configs() ([]gpu.PixelConfig, error) {
	return []gpu.PixelConfig{{RedSize: 8, GreenSize: 8, BlueSize: 8, AlphaSize: 8}}, nil
}

func (d *fakeDriver) CreateContext(gpu.PixelConfig, gpu.ContextRequest) (gpu.Context, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.ctx = &fakeContext{rec: d.rec, gl: &fakeGL{rec: d.rec}}
	return d.ctx, nil
}

type fakePresenter struct{ rec *recorder }

func (p *fakePresenter) Device() uintptr              { return 0xD3D }
func (p *fakePresenter) BackBuffer() (uintptr, error) { return 0xB0B, nil }
func (p *fakePresenter) WaitForFrame() error          { return nil }
func (p *fakePresenter) Present() error               { p.rec.add("present"); return nil }
func (p *fakePresenter) Release() error               { p.rec.add("releasePresenter"); return nil }

type fakeInterop struct {
	rec         *recorder
	unavailable error
}

func (i *fakeInterop) Available() error                    { return i.unavailable }
func (i *fakeInterop) OpenDevice(uintptr) (uintptr, error) { return 0x1, nil }
func (i *fakeInterop) CloseDevice(uintptr) error           { i.rec.add("closeDevice"); return nil }
func (i *fakeInterop) RegisterObject(_, _ uintptr, _ uint32, _ gpu.BufferKind) (uintptr, error) {
	return 0x2, nil
}
func (i *fakeInterop) UnregisterObject(_, _ uintptr) error { i.rec.add("unregister"); return nil }
func (i *fakeInterop) LockObjects(uintptr, ...uintptr) error {
	i.rec.add("lock")
	return nil
}
func (i *fakeInterop) UnlockObjects(uintptr, ...uintptr) error {
	i.rec.add("unlock")
	return nil
}

type fakeWindow struct {
	rec     *recorder
	surf    surface.Surface
	driver  *fakeDriver
	interop *fakeInterop
	closed  bool
}

func (w *fakeWindow) Surface() surface.Surface      { return w.surf }
func (w *fakeWindow) Driver() (gpu.Driver, error)   { return w.driver, nil }
func (w *fakeWindow) Show() error                   { return nil }
func (w *fakeWindow) CaptureCursor() error          { return nil }
func (w *fakeWindow) Close() error                  { w.rec.add("closeWindow"); w.closed = true; return nil }
func (w *fakeWindow) Interop() (gpu.Interop, gpu.PresenterFactory, error) {
	if w.interop == nil {
		return nil, nil, platform.ErrPlatformUnsupported
	}
	factory := func(width, height int) (gpu.Presenter, error) {
		return &fakePresenter{rec: w.rec}, nil
	}
	return w.interop, factory, nil
}

type fakeEngine struct {
	rec *recorder
	// sizes recorded by the factory: logical then physical.
	sizes [4]uint32
	json  string
}

func (e *fakeEngine) Animate(ts float64)           { e.rec.add("animate %.0f", ts) }
func (e *fakeEngine) Compute(ts float64)           { e.rec.add("compute %.0f", ts) }
func (e *fakeEngine) Render()                      { e.rec.add("render") }
func (e *fakeEngine) Resize(_, _, _, _ uint32)     {}
func (e *fakeEngine) Close() error                 { e.rec.add("closeEngine"); return nil }

func newFakeWindow(rec *recorder, bridged bool) *fakeWindow {
	s, err := surface.New(surface.Rect{Width: 2560, Height: 1440}, 2, "")
	if err != nil {
		panic(err)
	}
	w := &fakeWindow{rec: rec, surf: s, driver: &fakeDriver{rec: rec}}
	if bridged {
		w.interop = &fakeInterop{rec: rec}
	}
	return w
}

func engineFactory(rec *recorder, out **fakeEngine) EngineFactory {
	return func(lw, lh, pw, ph uint32, settings string) (Engine, error) {
		e := &fakeEngine{rec: rec, sizes: [4]uint32{lw, lh, pw, ph}, json: settings}
		*out = e
		return e, nil
	}
}
