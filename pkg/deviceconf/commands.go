package deviceconf

import (
	"context"
	"log/slog"
	"strings"

	"linkcfg/pkg/settings"
)

// Controller carries out the device actions exposed as command settings.
type Controller interface {
	Select(ctx context.Context, slot int) error
	Unpair(ctx context.Context, slot int) error
	PowerOff(ctx context.Context) error
}

type commandHandler struct {
	ctx    context.Context
	ctl    Controller
	logger *slog.Logger
}

// HandleCommands dispatches executed device commands to ctl. The returned
// function unregisters the handler.
func (d *Device) HandleCommands(ctx context.Context, ctl Controller, logger *slog.Logger) (stop func()) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &commandHandler{ctx: ctx, ctl: ctl, logger: logger}
	d.AddListener(onCommand, h)
	return func() { d.RemoveListener(onCommand, h) }
}

func onCommand(s *settings.Setting, data any) {
	if !s.IsCommand() {
		return
	}
	h := data.(*commandHandler)

	var err error
	switch {
	case s.Key == KeyPowerOff:
		err = h.ctl.PowerOff(h.ctx)
	case strings.HasPrefix(s.Key, prefixPeerSelect):
		err = h.ctl.Select(h.ctx, PeerSlot(s))
	case strings.HasPrefix(s.Key, prefixPeerDelete):
		err = h.ctl.Unpair(h.ctx, PeerSlot(s))
	default:
		return
	}
	if err != nil {
		h.logger.Warn("Device command failed", "key", s.Key, "error", err)
		return
	}
	h.logger.Info("Device command executed", "key", s.Key)
}
