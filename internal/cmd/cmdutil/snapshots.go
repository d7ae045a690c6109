// Package cmdutil provides shared helpers for CLI commands: snapshot file
// I/O and output rendering.
package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/planstack/importsync/pkg/errors"
	"github.com/planstack/importsync/pkg/project"
)

// LoadSnapshotFile reads and decodes a YAML snapshot from a filesystem path.
func LoadSnapshotFile(path string) (*project.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	s, err := project.ParseSnapshot(data)
	if err != nil {
		return nil, errors.NewParseError("yaml", path, err.Error(), err)
	}
	return s, nil
}

// WriteSnapshotFile encodes a snapshot as YAML and writes it to a path.
// The file is written whole via a temp file and rename, so a crash cannot
// leave a half-written snapshot behind.
func WriteSnapshotFile(path string, s *project.Snapshot) error {
	data, err := project.EncodeSnapshot(s)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "importsync-snapshot-*.yaml")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// Render writes v to w in the requested format: "json", "yaml", or a
// caller-supplied text rendering for everything else.
func Render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.WrapParse("json", "", err)
		}
		return nil
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return errors.WrapParse("yaml", "", err)
		}
		if _, err := w.Write(data); err != nil {
			return errors.WrapIO("write", "", err)
		}
		return nil
	default:
		return text(w)
	}
}

// LoadRenames reads a YAML file mapping conflict IDs to replacement names.
func LoadRenames(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	renames := make(map[string]string)
	if err := yaml.Unmarshal(data, &renames); err != nil {
		return nil, errors.NewParseError("yaml", path,
			fmt.Sprintf("expected a mapping of conflict IDs to names: %v", err), err)
	}
	return renames, nil
}
