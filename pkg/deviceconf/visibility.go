package deviceconf

import (
	"linkcfg/pkg/settings"
)

func (d *Device) rootVisibility(_ settings.FolderID, view settings.ViewKind, s *settings.Setting) settings.Visibility {
	tx := d.RCMode() == RCModeTX
	switch s.Key {
	case KeyRCMode:
		return settings.ShowIf(d.profile.TX && d.profile.RX && view != settings.ViewFixedInput)
	case KeyTX:
		return settings.ShowIf(tx)
	case KeyRX:
		return settings.ShowIf(!tx)
	case KeyScreen:
		return settings.ShowIf(view == settings.ViewMenu && d.profile.Screen)
	case KeyReceivers:
		return settings.ShowIf(tx)
	case KeyDevices:
		return settings.ShowIf(view == settings.ViewMenu && tx)
	case KeyPowerOff:
		return settings.ShowIf(!tx)
	}
	return settings.Show
}

func (d *Device) txVisibility(_ settings.FolderID, view settings.ViewKind, s *settings.Setting) settings.Visibility {
	switch s.Key {
	case KeyTXInput:
		return settings.ShowIf(view != settings.ViewFixedInput)
	case KeyTXCRSFPin:
		return settings.ShowIf(view != settings.ViewFixedInput && d.TXInput() == TXInputCRSF)
	}
	return settings.Show
}

func (d *Device) rxVisibility(_ settings.FolderID, _ settings.ViewKind, s *settings.Setting) settings.Visibility {
	switch s.Key {
	case KeyRXSBUSPin, KeyRXSBUSInverted, KeyRXSPortPin, KeyRXSPortInverted:
		return settings.ShowIf(d.RXOutput() == RXOutputSBUSSPort)
	case KeyRXMSPTXPin, KeyRXMSPRXPin, KeyRXMSPBaudrate:
		return settings.ShowIf(d.RXOutput() == RXOutputMSP)
	case KeyRXCRSFTXPin, KeyRXCRSFRXPin:
		return settings.ShowIf(d.RXOutput() == RXOutputCRSF)
	case KeyRXFPortTXPin, KeyRXFPortRXPin, KeyRXFPortInverted:
		return settings.ShowIf(d.RXOutput() == RXOutputFPort)
	}
	return settings.Show
}

// receiversVisibility shows a peer folder only while its slot is paired.
func (d *Device) receiversVisibility(_ settings.FolderID, _ settings.ViewKind, s *settings.Setting) settings.Visibility {
	n := PeerSlot(s)
	if n < 0 {
		return settings.Show
	}
	_, ok := d.peers.PairedAt(n)
	return settings.ShowIf(ok)
}

func (d *Device) formatPeerName(s *settings.Setting, part settings.FormatPart) (string, bool) {
	if part != settings.PartValue {
		return "", false
	}
	p, ok := d.peers.PairedAt(PeerSlot(s))
	if !ok {
		return "None", true
	}
	name, ok := d.peers.Name(p.Addr)
	if !ok || name == "" {
		return "None", true
	}
	return name, true
}

func (d *Device) formatPeerAddr(s *settings.Setting, part settings.FormatPart) (string, bool) {
	if part != settings.PartValue {
		return "", false
	}
	p, ok := d.peers.PairedAt(PeerSlot(s))
	if !ok {
		return "None", true
	}
	return p.Addr.String(), true
}
