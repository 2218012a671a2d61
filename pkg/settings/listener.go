package settings

import "reflect"

// Callback is notified synchronously after a setting's value changed.
// It must not write the same setting again.
type Callback func(s *Setting, data any)

type listener struct {
	cb   Callback
	code uintptr
	data any
}

func (l listener) matches(code uintptr, data any) bool {
	return l.cb != nil && l.code == code && l.data == data
}

// codeOf identifies the function behind cb. Method values of one type and
// closures of one literal share a code pointer, so data tells them apart.
func codeOf(cb Callback) uintptr {
	return reflect.ValueOf(cb).Pointer()
}

// AddListener registers cb with its context data in the first free slot.
// data must be comparable and distinguish registrations of the same function,
// typically the receiver of a method value. Registering a (cb, data) pair
// that is already present panics, as does a full listener table.
func (r *Registry) AddListener(cb Callback, data any) {
	if cb == nil {
		fail("AddListener", "", "nil callback")
	}
	code := codeOf(cb)
	for _, l := range r.listeners {
		if l.matches(code, data) {
			fail("AddListener", "", "listener with this callback and data already registered")
		}
	}
	for i := range r.listeners {
		if r.listeners[i].cb == nil {
			r.listeners[i] = listener{cb: cb, code: code, data: data}
			return
		}
	}
	fail("AddListener", "", "all %d listener slots in use", len(r.listeners))
}

// RemoveListener unregisters the exact (cb, data) pair. Removing a pair that
// was never registered panics.
func (r *Registry) RemoveListener(cb Callback, data any) {
	code := codeOf(cb)
	for i := range r.listeners {
		if r.listeners[i].matches(code, data) {
			r.listeners[i] = listener{}
			return
		}
	}
	fail("RemoveListener", "", "listener was not registered")
}

// ListenerCount returns the number of occupied listener slots.
func (r *Registry) ListenerCount() int {
	n := 0
	for _, l := range r.listeners {
		if l.cb != nil {
			n++
		}
	}
	return n
}

// notify calls every listener in slot order. The slots are copied first so
// listeners added or removed by a callback only affect later changes.
func (r *Registry) notify(s *Setting) {
	snapshot := make([]listener, len(r.listeners))
	copy(snapshot, r.listeners)
	for _, l := range snapshot {
		if l.cb != nil {
			l.cb(s, l.data)
		}
	}
}
