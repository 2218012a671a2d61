// Package board describes the hardware a device build runs on: supported
// roles, radio bands, usable pins and the paired receiver capacity.
package board

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"linkcfg/pkg/version"
)

// Profile is the build-time description of a board.
type Profile struct {
	Name   string `toml:"name"`
	TX     bool   `toml:"tx"`
	RX     bool   `toml:"rx"`
	Screen bool   `toml:"screen"`

	LoRaBands   []string `toml:"lora_bands"`
	DefaultBand int      `toml:"default_band"`

	// Pins lists the GPIO numbers available for serial functions.
	Pins []int `toml:"pins"`
	// DefaultTXPin and DefaultRXPin are indices into Pins.
	DefaultTXPin int `toml:"default_tx_pin"`
	DefaultRXPin int `toml:"default_rx_pin"`

	MaxPairedRX int `toml:"max_paired_rx"`

	Version   string `toml:"version"`
	BuildDate string `toml:"build_date"`
}

// Default returns the profile of the reference board.
func Default() *Profile {
	return &Profile{
		Name:         "reference",
		TX:           true,
		RX:           true,
		Screen:       true,
		LoRaBands:    []string{"433MHz", "868MHz", "915MHz"},
		DefaultBand:  1,
		Pins:         []int{1, 3, 4, 5, 12, 13, 14, 15, 16, 17, 18, 19, 21, 22, 23, 25, 26, 27},
		DefaultTXPin: 5,
		DefaultRXPin: 6,
		MaxPairedRX:  4,
		Version:      version.Version,
		BuildDate:    version.BuildDate,
	}
}

// Load reads a profile from a TOML file. Fields missing from the file keep
// their defaults; a missing file yields the default profile.
func Load(path string) (*Profile, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("failed to read board profile: %w", err)
	}
	if err := toml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse board profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board profile %s: %w", path, err)
	}
	return p, nil
}

// Save writes the profile as TOML.
func Save(path string, p *Profile) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal board profile: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the profile for values the settings table cannot be built from.
func (p *Profile) Validate() error {
	var errs []error
	if !p.TX && !p.RX {
		errs = append(errs, errors.New("board supports neither tx nor rx"))
	}
	if len(p.LoRaBands) == 0 {
		errs = append(errs, errors.New("no lora bands"))
	} else if p.DefaultBand < 0 || p.DefaultBand >= len(p.LoRaBands) {
		errs = append(errs, fmt.Errorf("default band %d out of range", p.DefaultBand))
	}
	if len(p.Pins) == 0 {
		errs = append(errs, errors.New("no usable pins"))
	} else {
		if p.DefaultTXPin < 0 || p.DefaultTXPin >= len(p.Pins) {
			errs = append(errs, fmt.Errorf("default tx pin %d out of range", p.DefaultTXPin))
		}
		if p.DefaultRXPin < 0 || p.DefaultRXPin >= len(p.Pins) {
			errs = append(errs, fmt.Errorf("default rx pin %d out of range", p.DefaultRXPin))
		}
	}
	if len(p.Pins) > 256 || len(p.LoRaBands) > 256 {
		errs = append(errs, errors.New("too many pins or bands for a u8 setting"))
	}
	switch p.MaxPairedRX {
	case 4, 16, 32:
	default:
		errs = append(errs, fmt.Errorf("max_paired_rx must be 4, 16 or 32, got %d", p.MaxPairedRX))
	}
	return errors.Join(errs...)
}

// PinNames returns the two digit display names of the usable pins.
func (p *Profile) PinNames() []string {
	names := make([]string, len(p.Pins))
	for i, pin := range p.Pins {
		names[i] = fmt.Sprintf("%02d", pin)
	}
	return names
}

// PinAt returns the GPIO number of the pin at index i.
func (p *Profile) PinAt(i int) int {
	return p.Pins[i]
}
