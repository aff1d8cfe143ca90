package desktop

import (
	"errors"
	"fmt"

	"github.com/1broseidon/fluxsaver/internal/platform"
)

var errNoWindow = errors.New("window has no native handle")

// guard runs a glfw call and converts the panic glfw uses for errors into a
// CallError naming the call.
func guard(call string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = &platform.CallError{Call: call, Err: cause}
		}
	}()
	fn()
	return nil
}
