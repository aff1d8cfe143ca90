package gpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*RenderContext, *fakeContext) {
	t.Helper()
	driver := &fakeDriver{configs: []PixelConfig{{AlphaSize: 8}}}
	rc, err := (&Negotiator{}).CreateContext(driver, 1024, 768)
	require.NoError(t, err)
	return rc, driver.ctx
}

func presenterFactory(p *fakePresenter) PresenterFactory {
	return func(width, height int) (Presenter, error) { return p, nil }
}

func TestNewBridge_RegistersRenderbuffer(t *testing.T) {
	rc, _ := newTestContext(t)
	interop := newFakeInterop()

	b, err := NewBridge(rc, presenterFactory(&fakePresenter{}), interop, nil)
	require.NoError(t, err)
	assert.Equal(t, BufferRenderbuffer, b.Kind())
	assert.Equal(t, uint32(FRAMEBUFFER_COMPLETE), b.FramebufferStatus())
	assert.Equal(t, []string{"open", "register renderbuffer"}, interop.log)
}

func TestNewBridge_FallsBackToTexture(t *testing.T) {
	rc, ctx := newTestContext(t)
	interop := newFakeInterop()
	interop.rejectRenderbuffer = true

	b, err := NewBridge(rc, presenterFactory(&fakePresenter{}), interop, nil)
	require.NoError(t, err)
	assert.Equal(t, BufferTexture, b.Kind())
	assert.Equal(t, "complete", FramebufferStatusString(b.FramebufferStatus()))
	assert.Contains(t, ctx.gl.calls, "framebufferTexture2D 3")
	assert.Contains(t, ctx.gl.calls, "deleteRenderbuffer 2")
}

func TestNewBridge_FailuresAreInteropUnavailable(t *testing.T) {
	cases := map[string]func(*fakeInterop, *fakePresenter, *fakeGL){
		"extension missing": func(i *fakeInterop, p *fakePresenter, g *fakeGL) {
			i.unavailable = errors.New("WGL_NV_DX_interop missing")
		},
		"open device": func(i *fakeInterop, p *fakePresenter, g *fakeGL) {
			i.openErr = errors.New("wglDXOpenDeviceNV failed")
		},
		"register": func(i *fakeInterop, p *fakePresenter, g *fakeGL) {
			i.rejectRenderbuffer = true
			i.rejectTexture = true
		},
		"back buffer": func(i *fakeInterop, p *fakePresenter, g *fakeGL) {
			p.bufferErr = errors.New("GetBuffer failed")
		},
		"incomplete framebuffer": func(i *fakeInterop, p *fakePresenter, g *fakeGL) {
			g.status = func(uint32) uint32 { return FRAMEBUFFER_UNSUPPORTED }
		},
	}

	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			rc, ctx := newTestContext(t)
			interop := newFakeInterop()
			presenter := &fakePresenter{}
			setup(interop, presenter, ctx.gl)

			_, err := NewBridge(rc, presenterFactory(presenter), interop, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInteropUnavailable)
			assert.False(t, interop.open, "interop device must be closed again")
			assert.Empty(t, interop.registered)

			// The context is still usable for direct presentation.
			require.NoError(t, rc.Close())
		})
	}
}

func TestNewBridge_PresenterFailure(t *testing.T) {
	rc, _ := newTestContext(t)
	failing := func(width, height int) (Presenter, error) { return nil, errors.New("no D3D11 device") }
	_, err := NewBridge(rc, failing, newFakeInterop(), nil)
	assert.ErrorIs(t, err, ErrInteropUnavailable)

	var ie *InteropError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "create presenter", ie.Stage)
}

func TestBridgeFrame_RendersInsideLock(t *testing.T) {
	rc, _ := newTestContext(t)
	interop := newFakeInterop()
	presenter := &fakePresenter{}
	b, err := NewBridge(rc, presenterFactory(presenter), interop, nil)
	require.NoError(t, err)

	var sawFBO uint32
	err = b.Frame(func(fbo uint32) error {
		assert.True(t, interop.locked, "render must run inside the lock")
		assert.Equal(t, FrameLocked, b.State())
		sawFBO = fbo
		return nil
	})
	require.NoError(t, err)
	assert.NotZero(t, sawFBO)
	assert.False(t, interop.locked)
	assert.Equal(t, 1, presenter.presents)
	assert.Equal(t, 1, presenter.waits)
	assert.Equal(t, FrameIdle, b.State())
	assert.Equal(t, uint64(1), b.Frames())
}

func TestBridgeFrame_UnlocksWhenRenderFails(t *testing.T) {
	rc, _ := newTestContext(t)
	interop := newFakeInterop()
	presenter := &fakePresenter{}
	b, err := NewBridge(rc, presenterFactory(presenter), interop, nil)
	require.NoError(t, err)

	boom := errors.New("render failed")
	err = b.Frame(func(uint32) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, interop.locked)
	assert.Zero(t, presenter.presents, "failed frames are not presented")
	assert.Equal(t, FrameIdle, b.State())
}

func TestBridgeFrame_RejectsNestedFrame(t *testing.T) {
	rc, _ := newTestContext(t)
	b, err := NewBridge(rc, presenterFactory(&fakePresenter{}), newFakeInterop(), nil)
	require.NoError(t, err)

	err = b.Frame(func(uint32) error {
		return b.Frame(func(uint32) error { return nil })
	})
	assert.ErrorIs(t, err, ErrBridgeBusy)
}

func TestBridgeClose_TeardownOrder(t *testing.T) {
	rc, ctx := newTestContext(t)
	interop := newFakeInterop()
	presenter := &fakePresenter{}
	b, err := NewBridge(rc, presenterFactory(presenter), interop, nil)
	require.NoError(t, err)

	require.NoError(t, b.Close())
	assert.Equal(t, []string{"open", "register renderbuffer", "unregister", "close"}, interop.log)
	assert.True(t, presenter.released)
	assert.Contains(t, ctx.gl.calls, "deleteFramebuffer 1")
	assert.ErrorIs(t, b.Frame(func(uint32) error { return nil }), ErrBridgeClosed)
	require.NoError(t, b.Close())
	require.NoError(t, rc.Close())
}
