package track

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a track definition from a .yaml, .yml or .json file.
func LoadFile(path string) (*Track, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrap(err, "could not read track file")
	}
	t := &Track{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, t)
	case ".json":
		err = json.Unmarshal(data, t)
	default:
		return nil, errors.Errorf("unsupported track file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not parse track file")
	}
	if err := t.Validate(); err != nil {
		return nil, errors.Wrapf(err, "track file %s", path)
	}
	return t, nil
}

// SaveFile writes the track as YAML, or JSON when the path ends in .json.
func SaveFile(t *Track, path string) error {
	var data []byte
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		data, err = json.MarshalIndent(t, "", "  ")
	} else {
		data, err = yaml.Marshal(t)
	}
	if err != nil {
		return errors.Wrap(err, "could not encode track")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o775); err != nil {
		return errors.Wrap(err, "could not create track directory")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "could not write track file")
}
