package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/arnet/pkg/topology"
)

// Snapshot fixture formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// FormatFromPath infers a fixture format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported snapshot format %q", filepath.Ext(path))
}

// LoadSnapshot reads a snapshot fixture, choosing the decoder by extension.
func LoadSnapshot(path string) (topology.Snapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return topology.Snapshot{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return topology.Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DecodeSnapshot(f, format)
}

// DecodeSnapshot decodes a snapshot in the given format. JSON input may be
// either a bare snapshot or a Topology envelope.
func DecodeSnapshot(r io.Reader, format string) (topology.Snapshot, error) {
	var snap topology.Snapshot
	switch format {
	case FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return snap, err
		}
		if m, err := Decode(data); err == nil && m.Type == TypeTopology {
			var p TopologyPayload
			if err := decodePayload(m, &p); err != nil {
				return snap, err
			}
			return p.Snapshot(), nil
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&snap); err != nil {
			return snap, fmt.Errorf("decode json snapshot: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&snap); err != nil && err != io.EOF {
			return snap, fmt.Errorf("decode yaml snapshot: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&snap); err != nil {
			return snap, fmt.Errorf("decode toml snapshot: %w", err)
		}
	default:
		return snap, fmt.Errorf("unsupported snapshot format %q", format)
	}
	return snap, nil
}

// EncodeSnapshot writes snap as a bare snapshot in the given format.
func EncodeSnapshot(w io.Writer, snap topology.Snapshot, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode yaml snapshot: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(snap); err != nil {
			return fmt.Errorf("encode toml snapshot: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported snapshot format %q", format)
}
