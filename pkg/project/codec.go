package project

import (
	"io"
	"io/fs"

	"github.com/goccy/go-yaml"

	"github.com/planstack/importsync/pkg/errors"
)

// ParseSnapshot decodes a YAML snapshot payload. Dates and allocations are
// assumed well-formed; the import codec upstream owns payload validation.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	s.Sort()
	return &s, nil
}

// LoadSnapshot reads and decodes a YAML snapshot file from the filesystem.
func LoadSnapshot(fsys fs.FS, name string) (*Snapshot, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	s, err := ParseSnapshot(data)
	if err != nil {
		return nil, errors.NewParseError("yaml", name, err.Error(), err)
	}
	return s, nil
}

// EncodeSnapshot renders a snapshot as YAML in its deterministic order.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	sorted := s.Copy()
	sorted.Sort()

	data, err := yaml.Marshal(sorted)
	if err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return data, nil
}

// WriteSnapshot encodes a snapshot as YAML to the writer.
func WriteSnapshot(w io.Writer, s *Snapshot) error {
	data, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.WrapIO("write", "", err)
	}
	return nil
}
