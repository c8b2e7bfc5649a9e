package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"

	"go.viam.com/stemsolvers/logging"
)

// Read reads a config from the given file. ${VAR} references are replaced from the environment before
// parsing.
func Read(filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
//
// Settings missing from the input keep their Default values. Presets in the input are added to the
// default presets, replacing any with the same name.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	cfg := Default()
	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	cfg.ConfigFilePath = originalPath

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %q", originalPath)
	}
	logger.Debugw("config loaded", "path", originalPath, "presets", cfg.PresetNames())
	return cfg, nil
}
