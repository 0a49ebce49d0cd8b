// ABOUTME: Version information for irecorder-go
// ABOUTME: Reported by the command-line tools
package version

// Version is overridden at build time with -ldflags "-X ...version.Version=..."
var Version = "dev"

const (
	Product      = "irecorder-decode"
	Manufacturer = "eConEXG"
)

// String formats the product banner
func String() string {
	return Manufacturer + " " + Product + " " + Version
}
