package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML pricing configuration and overlays it on the
// built-in defaults. Scalar keys missing from the file keep their default
// values and quality tiers merge key by key, but a materials list in the
// file replaces the built-in catalog wholesale.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read pricing config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse pricing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("pricing config %s: %w", path, err)
	}
	return cfg, nil
}
