package pipeline

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/archviz/pkg/cache"
	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/errors"
	dio "github.com/matzehuels/archviz/pkg/io"
)

// Load reads a diagram description file. The format follows the file
// extension (.json, .yaml, .yml, .toml).
func Load(path string) (*diagram.Diagram, error) {
	return dio.Import(path)
}

// Parse builds a diagram from an in-memory description.
func Parse(data []byte, format string) (*diagram.Diagram, error) {
	f, err := dio.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return dio.ReadDiagram(bytes.NewReader(data), f)
}

// HashDiagram returns the content hash of d's canonical JSON description.
// Two diagrams with the same elements, labels and edges in the same order
// hash equally regardless of the source format.
func HashDiagram(d *diagram.Diagram) (string, error) {
	var buf bytes.Buffer
	if err := dio.WriteJSON(d, &buf); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "serialize diagram")
	}
	return cache.Hash(buf.Bytes()), nil
}

// Summary returns a one-line description of d for log output.
func Summary(d *diagram.Diagram) string {
	return fmt.Sprintf("%d nodes, %d groups, %d edges", d.NodeCount(), d.GroupCount(), d.EdgeCount())
}
