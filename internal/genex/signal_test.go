package genex

import "testing"

func TestSignalDispatchOrder(t *testing.T) {
	var s Signal[int]
	var order []int

	s.Connect(func(v int) { order = append(order, v*10) })
	s.Connect(func(v int) { order = append(order, v*100) })

	s.Emit(3)
	if len(order) != 2 || order[0] != 30 || order[1] != 300 {
		t.Errorf("Expected handlers in connection order [30 300], got %v", order)
	}
}

func TestSignalNoHandlers(t *testing.T) {
	var s Signal[string]
	// Emitting with no handlers must not panic.
	s.Emit("event")
}

func TestSignalNilHandlerIgnored(t *testing.T) {
	var s Signal[int]
	s.Connect(nil)
	s.Emit(1)
}
