package settings

// Display tables shared by the boolean builders.
var (
	OffOn = []string{"Off", "On"}
	NoYes = []string{"No", "Yes"}
)

// Decl is a single declaration of the settings table.
type Decl struct {
	s Setting
}

// WithUnit sets the suffix appended to the rendered value.
func (d Decl) WithUnit(unit string) Decl {
	d.s.Unit = unit
	return d
}

// WithFlags adds flags to the declaration.
func (d Decl) WithFlags(f Flags) Decl {
	d.s.Flags |= f
	return d
}

// Folder declares a folder. Folders are always read-only and ephemeral.
// The strategy decides the visibility of the folder's direct children; nil
// shows them all.
func Folder(key, name string, id, parent FolderID, vis VisibilityStrategy) Decl {
	return Decl{s: Setting{
		Key:     key,
		Name:    name,
		Parent:  parent,
		Flags:   FlagReadOnly | FlagEphemeral,
		payload: &folderPayload{id: id, visibility: vis},
	}}
}

// U8 declares a bounded numeric setting.
func U8(key, name string, parent FolderID, min, max, def uint8) Decl {
	return Decl{s: Setting{
		Key:     key,
		Name:    name,
		Parent:  parent,
		payload: &u8Payload{val: def, min: min, max: max, def: def},
	}}
}

// NameMap declares a u8 setting rendered through a display table.
func NameMap(key, name string, parent FolderID, names []string, def uint8) Decl {
	max := 0
	if len(names) > 0 {
		max = len(names) - 1
	}
	d := U8(key, name, parent, 0, uint8(max), def)
	d.s.Flags |= FlagNameMap
	d.s.Names = names
	return d
}

// Bool declares an Off/On setting.
func Bool(key, name string, parent FolderID, def bool) Decl {
	return NameMap(key, name, parent, OffOn, b2u(def))
}

// YesNo declares a No/Yes setting.
func YesNo(key, name string, parent FolderID, def bool) Decl {
	return NameMap(key, name, parent, NoYes, b2u(def))
}

// String declares a mutable string backed by the registry's string pool.
func String(key, name string, parent FolderID) Decl {
	return Decl{s: Setting{
		Key:     key,
		Name:    name,
		Parent:  parent,
		payload: &stringPayload{},
	}}
}

// ReadOnlyString declares a fixed string.
func ReadOnlyString(key, name string, parent FolderID, value string) Decl {
	return Decl{s: Setting{
		Key:     key,
		Name:    name,
		Parent:  parent,
		Flags:   FlagReadOnly,
		payload: &stringPayload{static: value},
	}}
}

// DynamicString declares a read-only string whose content is computed on
// every read.
func DynamicString(key, name string, parent FolderID, f DynamicFormatter) Decl {
	return Decl{s: Setting{
		Key:     key,
		Name:    name,
		Parent:  parent,
		Flags:   FlagReadOnly | FlagDynamic,
		payload: &stringPayload{formatter: f},
	}}
}

// Command declares a remotely triggerable action. The action may be nil when
// the work is done by listeners.
func Command(key, name string, parent FolderID, flags CmdFlags, action func(*Setting)) Decl {
	return Decl{s: Setting{
		Key:     key,
		Name:    name,
		Parent:  parent,
		Flags:   FlagEphemeral | FlagCmd,
		payload: &commandPayload{flags: flags, action: action},
	}}
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Table is the validated, ordered declaration list a Registry is built from.
type Table struct {
	decls   []Setting
	strings int
}

// NewTable validates the declarations and returns the table. Any violation
// is a build-time mistake and panics with a *ConfigError.
func NewTable(expected int, decls ...Decl) *Table {
	if len(decls) != expected {
		fail("NewTable", "", "declared %d settings, expected %d", len(decls), expected)
	}
	t := &Table{decls: make([]Setting, len(decls))}
	keys := make(map[string]struct{}, len(decls))
	folders := make(map[FolderID]string)

	for i, d := range decls {
		s := d.s
		if s.payload == nil {
			fail("NewTable", s.Key, "declaration has no value")
		}
		if _, dup := keys[s.Key]; dup {
			fail("NewTable", s.Key, "duplicate key")
		}
		keys[s.Key] = struct{}{}

		switch p := s.payload.(type) {
		case *folderPayload:
			if prev, dup := folders[p.id]; dup {
				fail("NewTable", s.Key, "folder id %d already used by %q", p.id, prev)
			}
			folders[p.id] = s.Key
			if !s.Flags.Has(FlagReadOnly | FlagEphemeral) {
				fail("NewTable", s.Key, "folder must be read-only and ephemeral")
			}
		case *u8Payload:
			if p.min > p.max || p.def < p.min || p.def > p.max {
				fail("NewTable", s.Key, "default %d outside [%d, %d]", p.def, p.min, p.max)
			}
			if s.Flags.Has(FlagNameMap) {
				if p.min != 0 || len(s.Names) != int(p.max)+1 {
					fail("NewTable", s.Key, "name table has %d entries for range [%d, %d]", len(s.Names), p.min, p.max)
				}
			}
		case *stringPayload:
			if s.Flags.Has(FlagDynamic) && p.formatter == nil {
				fail("NewTable", s.Key, "dynamic setting without formatter")
			}
			if !s.Flags.Has(FlagReadOnly) {
				t.strings++
			}
		}
		s.index = i
		t.decls[i] = s
	}

	for _, s := range t.decls {
		if p, ok := s.payload.(*folderPayload); ok {
			if p.id == RootFolder {
				continue
			}
			if p.id == s.Parent {
				fail("NewTable", s.Key, "folder is its own parent")
			}
		}
		if _, ok := folders[s.Parent]; !ok {
			fail("NewTable", s.Key, "parent folder %d does not exist", s.Parent)
		}
	}
	return t
}

// Len returns the number of declarations.
func (t *Table) Len() int { return len(t.decls) }

// StringSlots returns the number of mutable string settings in the table.
func (t *Table) StringSlots() int { return t.strings }
