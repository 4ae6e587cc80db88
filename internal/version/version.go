// internal/version/version.go
package version

// Version is the released version stamp; overridden at build time with
// -ldflags "-X fvsim/internal/version.Version=...".
var Version = "0.4.1"
