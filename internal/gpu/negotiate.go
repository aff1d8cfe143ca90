package gpu

import (
	"fmt"
	"log/slog"
)

// Negotiator selects a pixel configuration and creates a current rendering
// context for a window.
type Negotiator struct {
	Logger *slog.Logger
	// Primary and Fallback default to PrimaryRequest and FallbackRequest.
	Primary  *ContextRequest
	Fallback *ContextRequest
}

// CreateContext negotiates a context for a drawable of width x height
// physical pixels. On success the context is current on the calling thread
// and multisampling is disabled.
func (n *Negotiator) CreateContext(driver Driver, width, height int) (*RenderContext, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrZeroSize, width, height)
	}
	logger := n.logger()

	configs, err := driver.Configs()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for i, c := range configs {
		c.Index = i
		logger.Debug("found pixel config", "config", c.String())
	}
	config, err := SelectConfig(configs)
	if err != nil {
		return nil, err
	}
	logger.Debug("picked pixel config", "config", config.String())

	primary, fallback := n.requests()
	request := primary
	ctx, primaryErr := driver.CreateContext(config, primary)
	if primaryErr != nil {
		logger.Info("primary context request failed, trying fallback",
			"primary", primary.String(), "fallback", fallback.String(), "error", primaryErr)
		request = fallback
		var fallbackErr error
		ctx, fallbackErr = driver.CreateContext(config, fallback)
		if fallbackErr != nil {
			return nil, &ContextError{Primary: primaryErr, Fallback: fallbackErr}
		}
	}

	fail := func(stage string, err error) (*RenderContext, error) {
		if derr := ctx.Destroy(); derr != nil {
			logger.Warn("failed to destroy context after setup error", "error", derr)
		}
		return nil, fmt.Errorf("%s: %w", stage, err)
	}

	if err := ctx.BindSurface(width, height); err != nil {
		return fail("bind drawable", err)
	}
	if err := ctx.MakeCurrent(); err != nil {
		return fail("make context current", err)
	}
	gl, err := ctx.LoadGL()
	if err != nil {
		return fail("load GL dispatch", err)
	}
	gl.Disable(MULTISAMPLE)

	logger.Debug("created render context",
		"request", request.String(),
		"version", gl.GetString(VERSION),
		"renderer", gl.GetString(RENDERER),
		"vendor", gl.GetString(VENDOR))

	return &RenderContext{
		ctx:     ctx,
		gl:      gl,
		config:  config,
		request: request,
		width:   width,
		height:  height,
	}, nil
}

func (n *Negotiator) requests() (ContextRequest, ContextRequest) {
	primary, fallback := PrimaryRequest, FallbackRequest
	if n.Primary != nil {
		primary = *n.Primary
	}
	if n.Fallback != nil {
		fallback = *n.Fallback
	}
	return primary, fallback
}

func (n *Negotiator) logger() *slog.Logger {
	if n == nil || n.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return n.Logger
}

// RenderContext is a negotiated, drawable-bound context and its dispatch
// table. It must outlive every resource created from it; Close refuses while
// a Bridge still holds it.
type RenderContext struct {
	ctx     Context
	gl      GL
	config  PixelConfig
	request ContextRequest
	width   int
	height  int

	dependents int
	closed     bool
}

// GL returns the dispatch table.
func (rc *RenderContext) GL() GL { return rc.gl }

// Config returns the selected pixel configuration.
func (rc *RenderContext) Config() PixelConfig { return rc.config }

// Request returns the capability level that was granted.
func (rc *RenderContext) Request() ContextRequest { return rc.request }

// Size returns the drawable size in physical pixels.
func (rc *RenderContext) Size() (int, int) { return rc.width, rc.height }

// MakeCurrent binds the context to the calling thread.
func (rc *RenderContext) MakeCurrent() error {
	if rc.closed {
		return ErrContextClosed
	}
	if err := rc.ctx.MakeCurrent(); err != nil {
		return fmt.Errorf("make context current: %w", err)
	}
	return nil
}

// SwapBuffers presents the drawable directly.
func (rc *RenderContext) SwapBuffers() error {
	if rc.closed {
		return ErrContextClosed
	}
	if err := rc.ctx.SwapBuffers(); err != nil {
		return fmt.Errorf("swap buffers: %w", err)
	}
	return nil
}

// SetSwapInterval sets the vertical sync interval of the direct path.
func (rc *RenderContext) SetSwapInterval(interval int) error {
	if rc.closed {
		return ErrContextClosed
	}
	return rc.ctx.SetSwapInterval(interval)
}

// Close destroys the context. It fails with ErrContextInUse while dependents
// such as a Bridge are still open.
func (rc *RenderContext) Close() error {
	if rc.closed {
		return nil
	}
	if rc.dependents > 0 {
		return fmt.Errorf("%w: %d open", ErrContextInUse, rc.dependents)
	}
	rc.closed = true
	return rc.ctx.Destroy()
}

func (rc *RenderContext) retain() { rc.dependents++ }

func (rc *RenderContext) release() {
	if rc.dependents > 0 {
		rc.dependents--
	}
}
