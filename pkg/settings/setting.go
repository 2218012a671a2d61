package settings

// Setting is one entry of the registry: a folder or a leaf value.
// The descriptive fields are fixed at declaration; only the value changes,
// and only through the registry's change pipeline.
type Setting struct {
	Key    string
	Name   string
	Parent FolderID
	Flags  Flags
	Names  []string // display table of NameMap settings
	Unit   string

	index   int
	payload payload
}

// Index returns the position of the setting in declaration order.
func (s *Setting) Index() int { return s.index }

// Type returns the storage kind. Commands report TypeU8.
func (s *Setting) Type() Type { return s.payload.kind() }

// IsFolder reports whether the setting is a folder.
func (s *Setting) IsFolder() bool { return s.Type() == TypeFolder }

// IsCommand reports whether the setting carries a command handshake.
func (s *Setting) IsCommand() bool { return s.Flags.Has(FlagCmd) }

// ParentFolderID returns the folder the setting is declared under.
func (s *Setting) ParentFolderID() FolderID { return s.Parent }

// FolderID returns the folder's own id, or 0 for non-folders.
func (s *Setting) FolderID() FolderID {
	if p, ok := s.payload.(*folderPayload); ok {
		return p.id
	}
	return 0
}

// U8 returns the current value. For commands it is the handshake state.
func (s *Setting) U8() uint8 {
	switch p := s.payload.(type) {
	case *u8Payload:
		return p.val
	case *commandPayload:
		return uint8(p.current())
	case *folderPayload:
		return uint8(p.id)
	}
	fail("U8", s.Key, "accessed %s setting as u8", s.Type())
	return 0
}

// Bool returns whether the current value is non-zero.
func (s *Setting) Bool() bool {
	if _, ok := s.payload.(*u8Payload); !ok {
		fail("Bool", s.Key, "accessed %s setting as bool", s.Type())
	}
	return s.U8() != 0
}

// Str returns the stored content of a string setting. Dynamic strings have
// no stored content; use FormatValue for them.
func (s *Setting) Str() string {
	p, ok := s.payload.(*stringPayload)
	if !ok {
		fail("Str", s.Key, "accessed %s setting as string", s.Type())
	}
	switch {
	case p.formatter != nil:
		fail("Str", s.Key, "dynamic setting has no stored value")
	case p.slot != nil:
		return p.slot.String()
	}
	return p.static
}

// Min returns the lower bound of a u8 setting.
func (s *Setting) Min() uint8 { return s.bounds("Min").min }

// Max returns the upper bound of a u8 setting.
func (s *Setting) Max() uint8 { return s.bounds("Max").max }

// Default returns the compiled-in value of a u8 setting.
func (s *Setting) Default() uint8 { return s.bounds("Default").def }

func (s *Setting) bounds(op string) *u8Payload {
	switch p := s.payload.(type) {
	case *u8Payload:
		return p
	case *commandPayload:
		return &u8Payload{}
	}
	fail(op, s.Key, "%s setting has no bounds", s.Type())
	return nil
}

// Formatter returns the dynamic formatter of the setting, if any.
func (s *Setting) Formatter() DynamicFormatter {
	if p, ok := s.payload.(*stringPayload); ok {
		return p.formatter
	}
	return nil
}

// Visibility returns the strategy of a folder, if any.
func (s *Setting) Visibility() VisibilityStrategy {
	if p, ok := s.payload.(*folderPayload); ok {
		return p.visibility
	}
	return nil
}
