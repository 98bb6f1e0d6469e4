package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// ErrUnsupportedData is returned for data files of an unknown type.
var ErrUnsupportedData = errors.New("unsupported data file")

// loadData reads a data file into root variables. The decoder is chosen by
// extension: .toml for TOML, .yaml, .yml and .json for YAML.
func loadData(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	vars := map[string]any{}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &vars); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".yaml", ".yml", ".json":
		if err := yaml.Unmarshal(data, &vars); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedData, path)
	}

	return vars, nil
}

// parseScalar decodes a --set value as a YAML scalar so numbers and
// booleans keep their type. Anything that does not decode stays a string.
func parseScalar(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}

	switch v.(type) {
	case nil:
		if strings.TrimSpace(s) == "" {
			return s
		}
		return nil
	case map[string]any, []any:
		// only scalars are decoded
		return s
	}

	return v
}
