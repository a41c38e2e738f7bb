package auth

import (
	"context"
	"fmt"
)

// dispatchFunc invokes one driver. The middle return value marks the result
// as a success for short-circuit purposes; a driver can answer without
// error and still not count as a success (a logout when nothing was logged
// in), in which case iteration continues.
type dispatchFunc[T any] func(ctx context.Context, name string, d Driver) (T, bool, error)

// dispatch runs one fan-out call: every driver routed for the method is
// invoked in registration order, per-driver failures are isolated into the
// result's error map, and iteration stops at the first success unless
// UseAllDrivers is set. A method no registered driver implements is a hard
// error.
func dispatch[T any](ctx context.Context, m *Manager, method string, call dispatchFunc[T]) (Results[T], error) {
	routes := m.routes(method)
	if len(routes) == 0 {
		return Results[T]{}, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}

	useAll := func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return m.cfg.UseAllDrivers
	}()

	res := newResults[T]()
	for _, r := range routes {
		v, ok, err := call(ctx, r.name, r.driver)
		if err != nil {
			res.Errors[r.name] = err
			continue
		}
		res.Values[r.name] = v
		if ok && !useAll {
			break
		}
	}

	m.setLastErrors(res.Errors)
	return res, nil
}
