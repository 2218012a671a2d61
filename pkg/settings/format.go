package settings

import (
	"strconv"
	"strings"
)

// Null is rendered for values that have no representation.
const Null = "<null>"

// MapName returns the display name of value v of a NameMap setting.
func MapName(s *Setting, v uint8) (string, bool) {
	if !s.Flags.Has(FlagNameMap) || int(v) >= len(s.Names) {
		return "", false
	}
	return s.Names[v], true
}

// FormatName returns the display name, computed for dynamic settings.
func FormatName(s *Setting) string {
	if f := s.Formatter(); f != nil {
		if name, ok := f.Format(s, PartName); ok {
			return name
		}
	}
	return s.Name
}

// FormatValue renders the current value with its unit.
func FormatValue(s *Setting) string {
	var v string
	switch p := s.payload.(type) {
	case *folderPayload:
		return ""
	case *commandPayload:
		v = p.current().String()
	case *u8Payload:
		if name, ok := MapName(s, p.val); ok {
			v = name
		} else {
			v = strconv.Itoa(int(p.val))
		}
	case *stringPayload:
		switch {
		case p.formatter != nil:
			out, ok := p.formatter.Format(s, PartValue)
			if !ok {
				return Null
			}
			v = out
		case p.slot != nil:
			v = p.slot.String()
		default:
			v = p.static
		}
	default:
		return Null
	}
	if s.Unit != "" {
		v += s.Unit
	}
	return v
}

// Format renders the setting as a menu line: "Name >>" for folders,
// "Name ¬" for commands and "Name: value" otherwise.
func Format(s *Setting) string {
	var b strings.Builder
	b.WriteString(FormatName(s))
	switch {
	case s.IsFolder():
		b.WriteString(" >>")
	case s.IsCommand():
		b.WriteString(" ¬")
	default:
		b.WriteString(": ")
		b.WriteString(FormatValue(s))
	}
	return b.String()
}
