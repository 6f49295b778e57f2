package version

// Overridden at build time via -ldflags.
var (
	AppName        = "Astionic"
	AppDescription = "Discord voice bot that queues music and speaks on demand"
	AppVersion     = "dev"
	BuildDate      = ""
	GoVersion      = ""
)
