package identity

import (
	"path/filepath"
	"strings"
)

const (
	BrandName = "PeakyDash"
	// AppSlug is the canonical identifier for on-disk state and the binary name.
	AppSlug = "peakydash"
	CLIName = "peakydash"

	GlobalConfigFile = "config.yml"
	LogFileName      = "peakydash.log"
	// TemplatesDir holds user dashboard templates, next to the global config.
	TemplatesDir = "templates"
)

// ResolveBinaryName returns the name the CLI was invoked as, falling back to CLIName.
func ResolveBinaryName(args []string) string {
	if len(args) == 0 {
		return CLIName
	}
	base := strings.TrimSpace(filepath.Base(args[0]))
	base = strings.TrimSuffix(base, ".exe")
	if base == "" || base == "." || base == string(filepath.Separator) {
		return CLIName
	}
	return base
}
