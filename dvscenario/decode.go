package dvscenario

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Format is the encoding of a scenario file.
type Format uint8

const (
	_ Format = iota
	FormatJSON
	FormatTOML
)

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("cannot determine scenario format of %q (want .json or .toml)", path)
	}
}

// Decode reads a scenario in the given format from r.
// Unknown fields are rejected.
func Decode(r io.Reader, f Format) (Scenario, error) {
	var s Scenario
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return Scenario{}, fmt.Errorf("failed to decode JSON scenario: %w", err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&s)
		if err != nil {
			return Scenario{}, fmt.Errorf("failed to decode TOML scenario: %w", err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return Scenario{}, fmt.Errorf("unknown keys in TOML scenario: %v", undec)
		}
	default:
		return Scenario{}, fmt.Errorf("unknown scenario format %d", f)
	}
	return s, nil
}

// Load reads a scenario file, choosing the format by extension.
func Load(path string) (Scenario, error) {
	f, err := FormatForPath(path)
	if err != nil {
		return Scenario{}, err
	}

	fh, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer fh.Close()

	return Decode(fh, f)
}
