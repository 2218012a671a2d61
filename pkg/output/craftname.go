// Package output keeps receiver-side settings in sync with the flight
// controller attached to the serial output.
package output

import (
	"log/slog"
	"time"

	"linkcfg/pkg/deviceconf"
	"linkcfg/pkg/settings"
)

// DefaultPollInterval is how often the craft name is requested.
const DefaultPollInterval = 10 * time.Second

// CraftNameSync copies the craft name reported by the flight controller into
// rx.craft_name while rx.auto_craft_name is enabled.
type CraftNameSync struct {
	reg      *settings.Registry
	logger   *slog.Logger
	interval time.Duration

	open      bool
	nextPoll  time.Time
	craftName *settings.Setting // nil while auto craft name is off
}

// NewCraftNameSync returns a closed sync.
func NewCraftNameSync(reg *settings.Registry, logger *slog.Logger, interval time.Duration) *CraftNameSync {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &CraftNameSync{reg: reg, logger: logger, interval: interval}
}

// Open starts listening for setting changes. It reports false if the sync
// was already open.
func (c *CraftNameSync) Open() bool {
	if c.open {
		return false
	}
	c.open = true
	c.configure()
	c.reg.AddListener(onSettingChanged, c)
	return true
}

// Close stops listening. Closing a closed sync does nothing.
func (c *CraftNameSync) Close() {
	if !c.open {
		return
	}
	c.reg.RemoveListener(onSettingChanged, c)
	c.open = false
	c.craftName = nil
}

func (c *CraftNameSync) configure() {
	c.nextPoll = time.Time{}
	c.craftName = nil
	if c.reg.Bool(deviceconf.KeyRXAutoCraftName) {
		c.craftName = c.reg.Must(deviceconf.KeyRXCraftName)
	}
}

func onSettingChanged(s *settings.Setting, data any) {
	c := data.(*CraftNameSync)
	if s.Key == deviceconf.KeyRXAutoCraftName {
		c.logger.Debug("Rescheduling craft name polls", "enabled", s.Bool())
		c.configure()
	}
}

// PollDue reports whether the craft name should be requested at now, and
// schedules the next request when it is.
func (c *CraftNameSync) PollDue(now time.Time) bool {
	if !c.open || c.craftName == nil {
		return false
	}
	if now.Before(c.nextPoll) {
		return false
	}
	c.nextPoll = now.Add(c.interval)
	return true
}

// HandleName stores a craft name payload. The payload is not terminated and
// is truncated to the capacity of the setting.
func (c *CraftNameSync) HandleName(payload []byte) {
	if c.craftName == nil || len(payload) == 0 {
		return
	}
	if len(payload) > settings.StringBufferSize-1 {
		payload = payload[:settings.StringBufferSize-1]
	}
	c.reg.SetString(c.craftName, string(payload))
}
