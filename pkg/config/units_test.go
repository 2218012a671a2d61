package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"10s", 10 * time.Second, false},
		{"1m", 1 * time.Minute, false},
		{"1.5h", 90 * time.Minute, false},
		{"1d", 24 * time.Hour, false},
		{"1w", 168 * time.Hour, false},
		{"2d2h", 50 * time.Hour, false},
		{"100ms", 100 * time.Millisecond, false},
		{"", 0, false},
		{"invalid", 0, true},
		{"3x", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestDurationYAML(t *testing.T) {
	type TestConfig struct {
		Timeout Duration `yaml:"timeout"`
	}

	var cfg TestConfig
	if err := yaml.Unmarshal([]byte("timeout: 2d\n"), &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if cfg.Timeout.Std() != 48*time.Hour {
		t.Errorf("Expected 48h, got %v", cfg.Timeout.Std())
	}

	out, err := yaml.Marshal(TestConfig{Timeout: Duration(90 * time.Second)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != "timeout: 1m30s\n" {
		t.Errorf("unexpected YAML: %q", out)
	}
}

func TestDurationDecode(t *testing.T) {
	var d Duration
	if err := d.Decode("1w"); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if d.Std() != Week {
		t.Errorf("Expected 1w, got %v", d.Std())
	}
	if err := d.Decode("soon"); err == nil {
		t.Error("expected error for invalid duration")
	}
}
