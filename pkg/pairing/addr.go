package pairing

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Addr is the 6 byte air address of a device.
type Addr [6]byte

// ParseAddr parses an address in "AA:BB:CC:DD:EE:FF" form.
func ParseAddr(s string) (Addr, error) {
	var a Addr
	parts := strings.Split(s, ":")
	if len(parts) != len(a) {
		return a, fmt.Errorf("invalid address %q", s)
	}
	for i, p := range parts {
		if len(p) != 2 {
			return a, fmt.Errorf("invalid address %q", s)
		}
		b, err := hex.DecodeString(p)
		if err != nil {
			return a, fmt.Errorf("invalid address %q: %w", s, err)
		}
		a[i] = b[0]
	}
	return a, nil
}

func (a Addr) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// MarshalText implements encoding.TextMarshaler.
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Addr) UnmarshalText(b []byte) error {
	parsed, err := ParseAddr(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
