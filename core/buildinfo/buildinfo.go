package buildinfo

// Set at build time via -ldflags, e.g.:
//
//	-X 'github.com/emotipal/psychobot/core/buildinfo.Version=v0.4.0'
//	-X 'github.com/emotipal/psychobot/core/buildinfo.Commit=9f3c1a2'
//	-X 'github.com/emotipal/psychobot/core/buildinfo.Date=2026-08-29T10:00:00Z'
//
// The defaults keep local runs identifiable in logs.
var (
	// Version is the release tag of the running binary.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "local"
	// Date is the build timestamp in RFC3339.
	Date = ""
)
