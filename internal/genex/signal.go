package genex

// Signal is a minimal synchronous publish/subscribe channel. Handlers run in
// connection order on the emitting goroutine; the simulation core is strictly
// single-threaded, so no locking is needed and dispatch order is
// deterministic.
type Signal[T any] struct {
	handlers []func(T)
}

// Connect registers a handler. Handlers cannot be disconnected; wiring is
// done once during model setup and lives for the run.
func (s *Signal[T]) Connect(fn func(T)) {
	if fn == nil {
		return
	}
	s.handlers = append(s.handlers, fn)
}

// Emit delivers v to every connected handler, in connection order.
func (s *Signal[T]) Emit(v T) {
	for _, h := range s.handlers {
		h(v)
	}
}
