package plugininfo

// plugininfo.go exposes the metadata bundled with the binary.

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultVersion is reported when the bundled metadata cannot be read.
const DefaultVersion = "1.0"

//go:embed plugininfo.yaml
var bundled []byte

// Info is the bundled metadata.
type Info struct {
	Version string `yaml:"version"`
}

// Parse decodes metadata, falling back to DefaultVersion for a missing or
// unreadable version.
func Parse(data []byte) Info {
	var info Info
	if err := yaml.Unmarshal(data, &info); err != nil {
		return Info{Version: DefaultVersion}
	}
	info.Version = strings.TrimSpace(info.Version)
	if info.Version == "" {
		info.Version = DefaultVersion
	}
	return info
}

// Version returns the version passed to the runner with the analytics flag.
func Version() string {
	return Parse(bundled).Version
}
