package settings

import "time"

// Type is the storage kind of a setting.
type Type uint8

const (
	// TypeFolder is a structural node; its value is its own FolderID.
	TypeFolder Type = iota
	// TypeU8 is a bounded unsigned 8 bit value.
	TypeU8
	// TypeString is a bounded string, either mutable, fixed or computed.
	TypeString
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeFolder:
		return "folder"
	case TypeU8:
		return "u8"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Flags modify how a setting is stored, rendered and written.
type Flags uint8

const (
	// FlagReadOnly rejects every write.
	FlagReadOnly Flags = 1 << iota
	// FlagEphemeral settings are never loaded from or saved to the store.
	FlagEphemeral
	// FlagNameMap renders the value through the setting's name table.
	FlagNameMap
	// FlagDynamic settings compute their value through a DynamicFormatter.
	FlagDynamic
	// FlagCmd settings expose a command handshake instead of a stored value.
	FlagCmd
)

// Has reports whether all bits in o are set.
func (f Flags) Has(o Flags) bool {
	return f&o == o
}

// FolderID identifies a folder. Children reference it as their parent.
type FolderID uint8

// RootFolder is the id of the top level folder.
const RootFolder FolderID = 0

// PeerFolderID returns the folder id reserved for the paired peer at slot n.
// Peer folders live at the top of the id space, counting down from 0xFF.
func PeerFolderID(n int) FolderID {
	return FolderID(0xFF - n)
}

// PeerSlotOf is the inverse of PeerFolderID.
func PeerSlotOf(id FolderID) int {
	return 0xFF - int(id)
}

// StringBufferSize is the capacity of every mutable string slot, including
// the terminator the persisted format reserves. At most StringBufferSize-1
// bytes are stored.
const StringBufferSize = 32

// payload is the per-type value of a setting. Exactly one variant is attached
// to every setting.
type payload interface {
	kind() Type
	clone() payload
}

type folderPayload struct {
	id         FolderID
	visibility VisibilityStrategy
}

func (p *folderPayload) kind() Type { return TypeFolder }

func (p *folderPayload) clone() payload {
	c := *p
	return &c
}

type u8Payload struct {
	val, min, max, def uint8
}

func (p *u8Payload) kind() Type { return TypeU8 }

func (p *u8Payload) clone() payload {
	c := *p
	return &c
}

func (p *u8Payload) clamp(v uint8) uint8 {
	if v > p.max {
		v = p.max
	}
	if v < p.min {
		v = p.min
	}
	return v
}

// stringSlot is one fixed-size buffer of the registry's string pool.
type stringSlot struct {
	buf [StringBufferSize]byte
	n   int
}

func (s *stringSlot) String() string {
	return string(s.buf[:s.n])
}

func (s *stringSlot) set(v string) {
	s.n = copy(s.buf[:StringBufferSize-1], v)
}

func (s *stringSlot) clear() {
	s.buf = [StringBufferSize]byte{}
	s.n = 0
}

type stringPayload struct {
	slot      *stringSlot // bound at registry construction for mutable strings
	static    string      // value of read-only strings
	formatter DynamicFormatter
}

func (p *stringPayload) kind() Type { return TypeString }

func (p *stringPayload) clone() payload {
	c := *p
	c.slot = nil
	return &c
}

type commandPayload struct {
	state  CmdState
	flags  CmdFlags
	action func(*Setting)

	pendingSince time.Time
	timeout      time.Duration
	now          func() time.Time
}

// Commands present themselves as U8 values to consumers.
func (p *commandPayload) kind() Type { return TypeU8 }

func (p *commandPayload) clone() payload {
	c := *p
	return &c
}

// current returns the handshake state, discarding a pending confirmation that
// outlived the configured timeout.
func (p *commandPayload) current() CmdState {
	if p.timeout > 0 && p.state.pending() && p.now().Sub(p.pendingSince) >= p.timeout {
		p.state = CmdNone
	}
	return p.state
}
