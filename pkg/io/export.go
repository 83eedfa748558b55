package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/errors"
	"github.com/matzehuels/archviz/pkg/export"
)

// Write encodes the description of d to w in the given format.
func Write(d *diagram.Diagram, w io.Writer, f Format) error {
	desc := Describe(d)
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(desc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(desc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(desc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown description format %q", f)
	}
	return nil
}

// WriteJSON encodes the description of d as indented JSON.
func WriteJSON(d *diagram.Diagram, w io.Writer) error {
	return Write(d, w, FormatJSON)
}

// Export writes the description of d to path, choosing the encoding from the
// extension. The file is replaced atomically.
func Export(d *diagram.Diagram, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(d, &buf, f); err != nil {
		return err
	}
	_, err = export.WriteFile(buf.Bytes(), path)
	return err
}
