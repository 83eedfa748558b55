package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/errors"
)

// Read decodes a description from r in the given format. Read does not
// close r.
func Read(r io.Reader, f Format) (*Description, error) {
	var desc Description
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&desc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&desc)
		if err == io.EOF {
			err = nil
		}
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&desc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown description format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	return &desc, nil
}

// ReadDiagram decodes a description from r and builds the diagram.
func ReadDiagram(r io.Reader, f Format) (*diagram.Diagram, error) {
	desc, err := Read(r, f)
	if err != nil {
		return nil, err
	}
	return Build(desc)
}

// ImportDescription reads the description file at path.
func ImportDescription(path string) (*Description, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return Read(file, f)
}

// Import reads the description file at path and builds the diagram.
func Import(path string) (*diagram.Diagram, error) {
	desc, err := ImportDescription(path)
	if err != nil {
		return nil, err
	}
	d, err := Build(desc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
