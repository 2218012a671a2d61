package deviceconf

import (
	"fmt"

	"linkcfg/pkg/settings"
)

// Setting keys. They double as persistence keys and must stay stable.
const (
	KeyRoot     = ""
	KeyRCMode   = "rc_mode"
	KeyBind     = "bind"
	KeyLoRaBand = "lora_band"

	KeyTX          = "tx"
	KeyTXRFPower   = "tx.rf_power"
	KeyTXPilotName = "tx.pilot_name"
	KeyTXInput     = "tx.input"
	KeyTXCRSFPin   = "tx.crsf_pin"

	KeyRX              = "rx"
	KeyRXAutoCraftName = "rx.auto_craft_name"
	KeyRXCraftName     = "rx.craft_name"
	KeyRXOutput        = "rx.output"
	KeyRXSBUSPin       = "rx.sbus_pin"
	KeyRXSBUSInverted  = "rx.sbus_inverted"
	KeyRXSPortPin      = "rx.sport_pin"
	KeyRXSPortInverted = "rx.sport_inverted"
	KeyRXMSPTXPin      = "rx.msp_tx_pin"
	KeyRXMSPRXPin      = "rx.msp_rx_pin"
	KeyRXMSPBaudrate   = "rx.msp_baudrate"
	KeyRXCRSFTXPin     = "rx.crsf_tx_pin"
	KeyRXCRSFRXPin     = "rx.crsf_rx_pin"
	KeyRXFPortTXPin    = "rx.fport_tx_pin"
	KeyRXFPortRXPin    = "rx.fport_rx_pin"
	KeyRXFPortInverted = "rx.fport_inverted"

	KeyScreen            = "screen"
	KeyScreenOrientation = "screen.orientation"
	KeyScreenBrightness  = "screen.brightness"
	KeyScreenAutoOff     = "screen.auto_off"

	KeyReceivers = "receivers"
	KeyDevices   = "devices"
	KeyPowerOff  = "power_off"

	KeyAbout          = "about"
	KeyAboutVersion   = "about.version"
	KeyAboutBuildDate = "about.build_date"
	KeyAboutBoard     = "about.board"
)

// Prefixes of the per-peer keys; the slot number is appended.
const (
	prefixPeer       = "receivers.rx_"
	prefixPeerName   = "receivers.rx_name_"
	prefixPeerAddr   = "receivers.rx_addr_"
	prefixPeerSelect = "receivers.rx_select_"
	prefixPeerDelete = "receivers.rx_delete_"
)

// PeerKey returns the key of the folder of peer slot n.
func PeerKey(n int) string { return fmt.Sprintf("%s%d", prefixPeer, n) }

// PeerNameKey returns the key of the name of peer slot n.
func PeerNameKey(n int) string { return fmt.Sprintf("%s%d", prefixPeerName, n) }

// PeerAddrKey returns the key of the address of peer slot n.
func PeerAddrKey(n int) string { return fmt.Sprintf("%s%d", prefixPeerAddr, n) }

// PeerSelectKey returns the key of the select command of peer slot n.
func PeerSelectKey(n int) string { return fmt.Sprintf("%s%d", prefixPeerSelect, n) }

// PeerDeleteKey returns the key of the delete command of peer slot n.
func PeerDeleteKey(n int) string { return fmt.Sprintf("%s%d", prefixPeerDelete, n) }

// Folder ids of the built-in folders. Peer folders use settings.PeerFolderID.
const (
	FolderTX settings.FolderID = iota + 1
	FolderRX
	FolderScreen
	FolderReceivers
	FolderDevices
	FolderAbout
)

// FixedInputKeys is the key list exposed while the transmitter runs in CRSF
// input passthrough mode.
var FixedInputKeys = []string{
	KeyRoot,
	KeyBind,
	KeyTX,
	KeyTXRFPower,
	KeyTXPilotName,
	KeyAbout,
	KeyAboutVersion,
	KeyAboutBuildDate,
}
