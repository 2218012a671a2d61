package version

// Version is the firmware version reported under about.version.
const Version = "v1.4.0"

// BuildDate is injected at link time with -ldflags "-X linkcfg/pkg/version.BuildDate=...".
var BuildDate = "unknown"
