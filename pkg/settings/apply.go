package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Apply writes a value received from a user or remote client. Numbers, bools
// and strings are accepted for u8 settings; strings are matched against the
// name table (case-insensitively) or parsed as decimal. Command settings also
// accept handshake state names such as "change" or "commit".
func (r *Registry) Apply(key string, v any) error {
	s, ok := r.GetByKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if s.Flags.Has(FlagReadOnly) {
		return fmt.Errorf("%w: %q", ErrReadOnly, key)
	}

	switch s.payload.(type) {
	case *stringPayload:
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: %q expects a string, got %T", ErrTypeMismatch, key, v)
		}
		r.SetString(s, str)
		return nil
	case *u8Payload, *commandPayload:
		n, err := toU8(s, v)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrTypeMismatch, key, err)
		}
		r.SetU8(s, n)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrReadOnly, key)
}

// toU8 converts v to a raw u8 value. Out of range numbers saturate; the
// pipeline clamps them to the setting's bounds.
func toU8(s *Setting, v any) (uint8, error) {
	switch n := v.(type) {
	case bool:
		return b2u(n), nil
	case uint8:
		return n, nil
	case int:
		return saturate(int64(n)), nil
	case int64:
		return saturate(n), nil
	case uint64:
		if n > math.MaxUint8 {
			return math.MaxUint8, nil
		}
		return uint8(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		switch {
		case n <= 0:
			return 0, nil
		case n >= math.MaxUint8:
			return math.MaxUint8, nil
		}
		return uint8(n), nil
	case string:
		return parseU8(s, n)
	}
	return 0, fmt.Errorf("unsupported value type %T", v)
}

func parseU8(s *Setting, raw string) (uint8, error) {
	raw = strings.TrimSpace(raw)
	for i, name := range s.Names {
		if strings.EqualFold(name, raw) {
			return uint8(i), nil
		}
	}
	if s.IsCommand() {
		for c := CmdNone; c <= CmdPoll; c++ {
			if strings.EqualFold(c.String(), raw) {
				return uint8(c), nil
			}
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q", raw)
	}
	return saturate(n), nil
}

func saturate(n int64) uint8 {
	switch {
	case n < 0:
		return 0
	case n > math.MaxUint8:
		return math.MaxUint8
	}
	return uint8(n)
}
