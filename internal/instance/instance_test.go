package instance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/fluxsaver/internal/flux"
	"github.com/1broseidon/fluxsaver/internal/gpu"
)

func TestFadeAlphaIsMonotonicAndClamped(t *testing.T) {
	fade := 300 * time.Millisecond
	assert.Equal(t, float32(0), FadeAlpha(-5, fade))
	assert.Equal(t, float32(0), FadeAlpha(0, fade))
	assert.InDelta(t, 0.5, FadeAlpha(150, fade), 1e-6)
	assert.Equal(t, float32(1), FadeAlpha(300, fade))
	assert.Equal(t, float32(1), FadeAlpha(10_000, fade))

	prev := float32(-1)
	for ts := -50.0; ts <= 400; ts += 7.5 {
		a := FadeAlpha(ts, fade)
		assert.GreaterOrEqual(t, a, prev, "alpha decreased at %v", ts)
		prev = a
	}
}

func TestFadeAlphaZeroDurationIsOpaque(t *testing.T) {
	assert.Equal(t, float32(1), FadeAlpha(0, 0))
}

func TestNewDirectPresentation(t *testing.T) {
	rec := &recorder{}
	win := newFakeWindow(rec, false)
	var engine *fakeEngine

	inst, err := New(win, engineFactory(rec, &engine), Options{
		VSync:    true,
		Interop:  true,
		Settings: flux.Settings{ColorMode: flux.ColorMode{Preset: flux.PresetPlasma}},
	}, nil)
	require.NoError(t, err)
	defer inst.Close()

	assert.False(t, inst.Bridged())
	assert.Equal(t, 1, win.driver.ctx.interval, "vsync applies to direct presentation")
	assert.Equal(t, [4]uint32{1280, 720, 2560, 1440}, engine.sizes)
	assert.JSONEq(t, `{"colorMode":{"Preset":"Plasma"}}`, engine.json)
	assert.Equal(t, DefaultFadeDuration, inst.FadeDuration())

	rec.calls = nil
	require.NoError(t, inst.Draw(16))
	assert.Equal(t, []string{"makeCurrent", "animate 16", "swap"}, rec.calls)
}

func TestNewBridgedPresentation(t *testing.T) {
	rec := &recorder{}
	win := newFakeWindow(rec, true)
	var engine *fakeEngine

	inst, err := New(win, engineFactory(rec, &engine), Options{Interop: true}, nil)
	require.NoError(t, err)
	defer inst.Close()
	require.True(t, inst.Bridged())

	rec.calls = nil
	require.NoError(t, inst.Draw(33))
	assert.Equal(t, []string{
		"makeCurrent", "compute 33",
		"lock", "bind 1", "viewport 2560x1440", "render", "bind 0", "finish", "unlock",
		"present",
	}, rec.calls)
}

func TestInteropDisabledSkipsBridge(t *testing.T) {
	rec := &recorder{}
	win := newFakeWindow(rec, true)
	var engine *fakeEngine

	inst, err := New(win, engineFactory(rec, &engine), Options{Interop: false}, nil)
	require.NoError(t, err)
	defer inst.Close()
	assert.False(t, inst.Bridged())
	assert.Equal(t, 0, win.driver.ctx.interval)
}

func TestUnavailableInteropFallsBackToDirect(t *testing.T) {
	rec := &recorder{}
	win := newFakeWindow(rec, true)
	win.interop.unavailable = errors.New("WGL_NV_DX_interop2 missing")
	var engine *fakeEngine

	inst, err := New(win, engineFactory(rec, &engine), Options{Interop: true}, nil)
	require.NoError(t, err)
	defer inst.Close()
	assert.False(t, inst.Bridged())
}

func TestFadeToBlackDirect(t *testing.T) {
	rec := &recorder{}
	win := newFakeWindow(rec, false)
	var engine *fakeEngine
	inst, err := New(win, engineFactory(rec, &engine), Options{FadeDuration: 200 * time.Millisecond}, nil)
	require.NoError(t, err)
	defer inst.Close()

	assert.True(t, inst.Fading(199))
	assert.False(t, inst.Fading(200))

	rec.calls = nil
	require.NoError(t, inst.FadeToBlack(50))
	assert.Equal(t, []string{
		"makeCurrent", "bind 0", "viewport 2560x1440", "clearColor 0.25", "clear", "bind 0", "finish", "swap",
	}, rec.calls)
}

func TestFadeToBlackBridged(t *testing.T) {
	rec := &recorder{}
	win := newFakeWindow(rec, true)
	var engine *fakeEngine
	inst, err := New(win, engineFactory(rec, &engine), Options{Interop: true}, nil)
	require.NoError(t, err)
	defer inst.Close()

	rec.calls = nil
	require.NoError(t, inst.FadeToBlack(600))
	assert.Contains(t, rec.calls, "clearColor 1.00")
	assert.Equal(t, "present", rec.calls[len(rec.calls)-1])
	assert.NotContains(t, rec.calls, "swap")
}

func TestDrawReturnsMakeCurrentFailure(t *testing.T) {
	rec := &recorder{}
	win := newFakeWindow(rec, false)
	var engine *fakeEngine
	inst, err := New(win, engineFactory(rec, &engine), Options{}, nil)
	require.NoError(t, err)
	defer inst.Close()

	lost := errors.New("context lost")
	win.driver.ctx.currentErr = lost
	assert.ErrorIs(t, inst.Draw(1), lost)
	assert.ErrorIs(t, inst.FadeToBlack(1), lost)
}

func TestCloseOrder(t *testing.T) {
	rec := &recorder{}
	win := newFakeWindow(rec, true)
	var engine *fakeEngine
	inst, err := New(win, engineFactory(rec, &engine), Options{Interop: true}, nil)
	require.NoError(t, err)

	rec.calls = nil
	require.NoError(t, inst.Close())
	assert.Equal(t, []string{
		"makeCurrent",
		"unregister", "closeDevice", "releasePresenter",
		"closeEngine",
		"destroyContext",
		"closeWindow",
	}, rec.calls)

	require.NoError(t, inst.Close(), "close is idempotent")
	assert.Error(t, inst.Draw(1))
}

func TestEngineFailureReleasesEverything(t *testing.T) {
	rec := &recorder{}
	win := newFakeWindow(rec, true)
	failing := func(_, _, _, _ uint32, _ string) (Engine, error) {
		return nil, errors.New("shader compile failed")
	}

	inst, err := New(win, failing, Options{Interop: true}, nil)
	require.Error(t, err)
	assert.Nil(t, inst)
	assert.Contains(t, err.Error(), "create engine")
	assert.True(t, win.closed)
	assert.Contains(t, rec.calls, "unregister")
	assert.Contains(t, rec.calls, "destroyContext")
}

func TestContextFailureClosesWindow(t *testing.T) {
	rec := &recorder{}
	win := newFakeWindow(rec, false)
	win.driver.err = errors.New("no GL")
	var engine *fakeEngine

	_, err := New(win, engineFactory(rec, &engine), Options{}, nil)
	require.ErrorIs(t, err, gpu.ErrContextCreation)
	assert.True(t, win.closed)
	assert.Nil(t, engine)
}
