package settings

// SetU8 writes v to a u8 setting, clamped to its bounds. Writing a command
// setting advances its handshake instead. Read-only settings and unchanged
// values are ignored.
func (r *Registry) SetU8(s *Setting, v uint8) {
	if s.IsCommand() {
		r.runCommand(s, CmdState(v))
		return
	}
	p, ok := s.payload.(*u8Payload)
	if !ok {
		fail("SetU8", s.Key, "wrote u8 to %s setting", s.Type())
	}
	if s.Flags.Has(FlagReadOnly) {
		return
	}
	v = p.clamp(v)
	if v == p.val {
		return
	}
	p.val = v
	r.changed(s)
}

// SetBool writes 1 for true and 0 for false.
func (r *Registry) SetBool(s *Setting, b bool) {
	r.SetU8(s, b2u(b))
}

// SetString replaces the content of a mutable string setting. Content longer
// than StringBufferSize-1 bytes is truncated.
func (r *Registry) SetString(s *Setting, v string) {
	p, ok := s.payload.(*stringPayload)
	if !ok {
		fail("SetString", s.Key, "wrote string to %s setting", s.Type())
	}
	if s.Flags.Has(FlagReadOnly) || p.slot == nil {
		return
	}
	if len(v) > StringBufferSize-1 {
		v = v[:StringBufferSize-1]
	}
	if p.slot.String() == v {
		return
	}
	p.slot.set(v)
	r.changed(s)
}

// Increment moves a u8 setting one step up, wrapping from max to zero.
func (r *Registry) Increment(s *Setting) { r.move(s, 1) }

// Decrement moves a u8 setting one step down, wrapping from min to max.
func (r *Registry) Decrement(s *Setting) { r.move(s, -1) }

func (r *Registry) move(s *Setting, delta int) {
	p, ok := s.payload.(*u8Payload)
	if !ok || s.Flags.Has(FlagReadOnly) {
		return
	}
	var v uint8
	switch {
	case delta < 0 && p.val <= p.min:
		v = p.max
	case delta > 0 && p.val >= p.max:
		v = 0
	default:
		v = uint8(int(p.val) + delta)
	}
	r.SetU8(s, v)
}

// SetU8Key is SetU8 by key. Unknown keys panic.
func (r *Registry) SetU8Key(key string, v uint8) { r.SetU8(r.Must(key), v) }

// SetBoolKey is SetBool by key. Unknown keys panic.
func (r *Registry) SetBoolKey(key string, b bool) { r.SetBool(r.Must(key), b) }

// SetStringKey is SetString by key. Unknown keys panic.
func (r *Registry) SetStringKey(key, v string) { r.SetString(r.Must(key), v) }

// changed notifies listeners and persists the new value.
func (r *Registry) changed(s *Setting) {
	r.logger.Info("Setting changed", "key", s.Key, "value", FormatValue(s))
	r.notify(s)
	if s.Flags.Has(FlagEphemeral) {
		return
	}
	r.persist(s)
}

func (r *Registry) persist(s *Setting) {
	var err error
	switch p := s.payload.(type) {
	case *u8Payload:
		err = r.store.SaveU8(s.Key, p.val)
	case *stringPayload:
		err = r.store.SaveString(s.Key, p.slot.String())
	default:
		return
	}
	if err == nil {
		err = r.store.Commit()
	}
	if err != nil {
		r.logger.Warn("Failed to persist setting", "key", s.Key, "error", err)
	}
}
