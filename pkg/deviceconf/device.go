// Package deviceconf declares the settings table of the link device and the
// rules deciding which of them each consumer sees.
package deviceconf

import (
	"fmt"
	"strconv"
	"strings"

	"linkcfg/pkg/board"
	"linkcfg/pkg/pairing"
	"linkcfg/pkg/settings"
)

// Peers resolves paired receivers for the receivers folder.
type Peers interface {
	PairedAt(slot int) (pairing.Pairing, bool)
	Name(addr pairing.Addr) (string, bool)
}

type noPeers struct{}

func (noPeers) PairedAt(int) (pairing.Pairing, bool) { return pairing.Pairing{}, false }
func (noPeers) Name(pairing.Addr) (string, bool)     { return "", false }

// Device is the settings registry of one board.
type Device struct {
	*settings.Registry

	profile *board.Profile
	peers   Peers
}

// ExpectedCount returns the number of settings of a board with room for
// maxPeers paired receivers.
func ExpectedCount(maxPeers int) int {
	return 36 + 5*maxPeers
}

// Build validates the profile and constructs the device registry, loading
// persisted values from store. A nil peers source behaves as if nothing is
// paired.
func Build(p *board.Profile, peers Peers, store settings.Store, opts ...settings.Option) (*Device, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board profile: %w", err)
	}
	if peers == nil {
		peers = noPeers{}
	}
	d := &Device{profile: p, peers: peers}
	table := settings.NewTable(ExpectedCount(p.MaxPairedRX), d.declarations()...)

	opts = append([]settings.Option{settings.WithFixedInputKeys(FixedInputKeys...)}, opts...)
	d.Registry = settings.New(table, store, opts...)
	return d, nil
}

// Profile returns the board profile the device was built for.
func (d *Device) Profile() *board.Profile { return d.profile }

func (d *Device) declarations() []settings.Decl {
	p := d.profile
	root := settings.RootFolder
	pins := p.PinNames()
	txPin, rxPin := uint8(p.DefaultTXPin), uint8(p.DefaultRXPin)

	decls := []settings.Decl{
		settings.Folder(KeyRoot, "Settings", root, root, settings.VisibilityFunc(d.rootVisibility)),
		d.rcModeDecl(),
		settings.Bool(KeyBind, "Bind", root, false).WithFlags(settings.FlagEphemeral),
		settings.NameMap(KeyLoRaBand, "LoRa Band", root, p.LoRaBands, uint8(p.DefaultBand)),

		settings.Folder(KeyTX, "TX", FolderTX, root, settings.VisibilityFunc(d.txVisibility)),
		settings.NameMap(KeyTXRFPower, "Power", FolderTX, txRFPowerNames, defaultRFPower),
		settings.String(KeyTXPilotName, "Pilot Name", FolderTX),
		settings.NameMap(KeyTXInput, "Input", FolderTX, txInputNames, TXInputCRSF),
		settings.NameMap(KeyTXCRSFPin, "CRSF Pin", FolderTX, pins, txPin),

		settings.Folder(KeyRX, "RX", FolderRX, root, settings.VisibilityFunc(d.rxVisibility)),
		settings.YesNo(KeyRXAutoCraftName, "Auto Craft Name", FolderRX, true),
		settings.String(KeyRXCraftName, "Craft Name", FolderRX),
		settings.NameMap(KeyRXOutput, "Output", FolderRX, rxOutputNames, RXOutputMSP),

		settings.NameMap(KeyRXSBUSPin, "SBUS Pin", FolderRX, pins, txPin),
		settings.YesNo(KeyRXSBUSInverted, "SBUS Inverted", FolderRX, false),
		settings.NameMap(KeyRXSPortPin, "S.Port Pin", FolderRX, pins, rxPin),
		settings.YesNo(KeyRXSPortInverted, "S.Port Inverted", FolderRX, false),

		settings.NameMap(KeyRXMSPTXPin, "MSP TX Pin", FolderRX, pins, txPin),
		settings.NameMap(KeyRXMSPRXPin, "MSP RX Pin", FolderRX, pins, rxPin),
		settings.NameMap(KeyRXMSPBaudrate, "MSP Baudrate", FolderRX, mspBaudrateNames, 0),

		settings.NameMap(KeyRXCRSFTXPin, "CRSF TX Pin", FolderRX, pins, txPin),
		settings.NameMap(KeyRXCRSFRXPin, "CRSF RX Pin", FolderRX, pins, rxPin),

		settings.NameMap(KeyRXFPortTXPin, "FPort TX Pin", FolderRX, pins, txPin),
		settings.NameMap(KeyRXFPortRXPin, "FPort RX Pin", FolderRX, pins, rxPin),
		settings.YesNo(KeyRXFPortInverted, "FPort Inverted", FolderRX, false),

		settings.Folder(KeyScreen, "Screen", FolderScreen, root, nil),
		settings.NameMap(KeyScreenOrientation, "Orientation", FolderScreen, screenOrientationNames, 0),
		settings.NameMap(KeyScreenBrightness, "Brightness", FolderScreen, screenBrightnessNames, defaultScreenBrightness),
		settings.NameMap(KeyScreenAutoOff, "Auto Off", FolderScreen, screenAutoOffNames, defaultScreenAutoOff),

		settings.Folder(KeyReceivers, "Receivers", FolderReceivers, root, settings.VisibilityFunc(d.receiversVisibility)),
	}

	peerName := settings.FormatterFunc(d.formatPeerName)
	peerAddr := settings.FormatterFunc(d.formatPeerAddr)
	for n := 0; n < p.MaxPairedRX; n++ {
		id := settings.PeerFolderID(n)
		decls = append(decls,
			settings.Folder(PeerKey(n), fmt.Sprintf("Receiver #%d", n), id, FolderReceivers, nil),
			settings.DynamicString(PeerNameKey(n), "Name", id, peerName),
			settings.DynamicString(PeerAddrKey(n), "Address", id, peerAddr),
			settings.Command(PeerSelectKey(n), "Select", id, settings.CmdConfirm, nil),
			settings.Command(PeerDeleteKey(n), "Delete", id, settings.CmdConfirm, nil),
		)
	}

	return append(decls,
		settings.Folder(KeyDevices, "Other Devices", FolderDevices, root, nil),
		settings.Command(KeyPowerOff, "Power Off", root, settings.CmdConfirm, nil),

		settings.Folder(KeyAbout, "About", FolderAbout, root, nil),
		settings.ReadOnlyString(KeyAboutVersion, "Version", FolderAbout, p.Version),
		settings.ReadOnlyString(KeyAboutBuildDate, "Build Date", FolderAbout, p.BuildDate),
		settings.ReadOnlyString(KeyAboutBoard, "Board", FolderAbout, p.Name),
	)
}

// rcModeDecl is selectable only on boards supporting both roles.
func (d *Device) rcModeDecl() settings.Decl {
	if d.profile.TX && d.profile.RX {
		return settings.NameMap(KeyRCMode, "RC Mode", settings.RootFolder, rcModeNames, RCModeTX)
	}
	mode := RCModeTX
	if !d.profile.TX {
		mode = RCModeRX
	}
	return settings.U8(KeyRCMode, "", settings.RootFolder, mode, mode, mode).WithFlags(settings.FlagReadOnly)
}

// RCMode returns the role the device currently runs as.
func (d *Device) RCMode() uint8 { return d.U8(KeyRCMode) }

// TXInput returns the selected transmitter input.
func (d *Device) TXInput() uint8 { return d.U8(KeyTXInput) }

// RXOutput returns the selected receiver output protocol.
func (d *Device) RXOutput() uint8 { return d.U8(KeyRXOutput) }

// PinNumber returns the GPIO number selected by a pin setting.
func (d *Device) PinNumber(key string) int {
	s := d.Must(key)
	if len(s.Names) != len(d.profile.Pins) || !strings.HasSuffix(key, "_pin") {
		panic(&settings.ConfigError{Op: "PinNumber", Key: key, Msg: "not a pin setting"})
	}
	return d.profile.PinAt(int(s.U8()))
}

// PeerSlot returns the receiver slot a receivers.* setting belongs to, or -1.
func PeerSlot(s *settings.Setting) int {
	if !strings.HasPrefix(s.Key, prefixPeer) {
		return -1
	}
	i := strings.LastIndexByte(s.Key, '_')
	n, err := strconv.Atoi(s.Key[i+1:])
	if err != nil {
		return -1
	}
	return n
}
