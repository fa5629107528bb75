package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version    int              `toml:"version"`
	Appearance appearanceSchema `toml:"appearance"`
	Meta       metadataSchema   `toml:"meta,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported preferences schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type appearanceSchema struct {
	Theme string `toml:"theme"`
}

type metadataSchema struct {
	UpdatedAt string `toml:"updated_at,omitempty"`
}
