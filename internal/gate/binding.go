package gate

import (
	"fmt"

	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
)

// Binding is either Enabled with a live handle or Disabled with a reason.
// Call sites match on it instead of probing for a nil handle.
type Binding[T any] struct {
	handle  T
	enabled bool
	reason  string
}

// Enabled wraps a live handle.
func Enabled[T any](handle T) Binding[T] {
	return Binding[T]{handle: handle, enabled: true}
}

// Disabled records why no handle is available.
func Disabled[T any](reason string) Binding[T] {
	return Binding[T]{reason: reason}
}

func (b Binding[T]) IsEnabled() bool { return b.enabled }

// Get returns the handle and true when enabled, or the zero value and false.
func (b Binding[T]) Get() (T, bool) {
	return b.handle, b.enabled
}

// Reason is empty for enabled bindings.
func (b Binding[T]) Reason() string { return b.reason }

// Match calls enabled or disabled depending on the variant.
func Match[T, R any](b Binding[T], enabled func(T) R, disabled func(reason string) R) R {
	if b.enabled {
		return enabled(b.handle)
	}
	return disabled(b.reason)
}

// Bind builds a handle for feature only when the gate reports it usable.
// A build error turns into a Disabled binding carrying the error text.
func Bind[T any](g *Gate, feature runtimeconfig.Feature, build func() (T, error)) Binding[T] {
	if !g.Usable(feature) {
		return Disabled[T](DisabledReason(g, feature))
	}
	handle, err := build()
	if err != nil {
		return Disabled[T](fmt.Sprintf("%s unavailable: %v", feature, err))
	}
	return Enabled(handle)
}

// DisabledReason explains why feature is not usable.
func DisabledReason(g *Gate, feature runtimeconfig.Feature) string {
	service, ok := runtimeconfig.PairedService(feature)
	switch {
	case !ok:
		return fmt.Sprintf("unknown feature %q", feature)
	case !g.IsFeatureEnabled(feature):
		return fmt.Sprintf("feature %s is disabled", feature)
	case !g.IsServiceEnabled(service):
		return fmt.Sprintf("service %s is disabled", service)
	default:
		return ""
	}
}
