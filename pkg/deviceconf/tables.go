package deviceconf

// RC modes.
const (
	RCModeTX uint8 = iota
	RCModeRX
)

// TX inputs.
const (
	TXInputCRSF uint8 = iota
	TXInputTest
)

// RX outputs.
const (
	RXOutputSBUSSPort uint8 = iota
	RXOutputMSP
	RXOutputCRSF
	RXOutputFPort
)

var (
	rcModeNames            = []string{"TX", "RX"}
	txInputNames           = []string{"CRSF", "Test"}
	txRFPowerNames         = []string{"Auto", "1mw", "10mw", "25mw", "50mw"}
	rxOutputNames          = []string{"SBUS/Smartport", "MSP", "CRSF", "FPort"}
	mspBaudrateNames       = []string{"115200"}
	screenOrientationNames = []string{"Horizontal", "Horizontal (buttons at the right)", "Vertical", "Vertical (buttons on top)"}
	screenBrightnessNames  = []string{"Low", "Medium", "High"}
	screenAutoOffNames     = []string{"Disabled", "30 sec", "1 min", "5 min", "10 min"}
)

const (
	defaultRFPower          = 0
	defaultScreenBrightness = 1
	defaultScreenAutoOff    = 2
)
