// Persisted layer settings: JSON (default) and YAML codecs
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"image-filter-layers/internal/algorithms"
	"image-filter-layers/internal/layers"
)

// DefaultSettingsFile is the name looked up next to the executable.
const DefaultSettingsFile = "settings.json"

// Settings is the persisted configuration: the layer stack plus the path of
// the external document converter.
type Settings struct {
	ConverterPath string
	Layers        layers.Stack
}

// DefaultSettings returns an empty converter path and a default stack.
func DefaultSettings() Settings {
	return Settings{Layers: layers.Default()}
}

// Format selects the textual encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

var ErrMalformedDocument = errors.New("malformed settings document")

// DecodeError reports settings that could not be read or parsed. Nothing from
// the document has been applied when it is returned.
type DecodeError struct {
	Path   string
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load settings %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("decode %s settings: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// wire types; pointers distinguish absent members from zero values. JSON
// documents are mapped onto them by parseJSON.
type fileLayer struct {
	Layer    *int     `yaml:"layer"`
	Enabled  *bool    `yaml:"enabled"`
	Filter   *string  `yaml:"filter"`
	Strength *float64 `yaml:"strength"`
}

type fileSettings struct {
	PopplerPath *string     `yaml:"poppler_path"`
	Layers      []fileLayer `yaml:"layers"`
}

type encodedLayer struct {
	Layer    int     `json:"layer" yaml:"layer"`
	Enabled  bool    `json:"enabled" yaml:"enabled"`
	Filter   string  `json:"filter" yaml:"filter"`
	Strength decimal `json:"strength" yaml:"strength"`
}

// decimal always carries a fractional part when written, so 1 is stored as
// 1.0 like the files the settings format started with.
type decimal float64

func (d decimal) String() string {
	s := strconv.FormatFloat(float64(d), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (d decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d decimal) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: d.String()}, nil
}

type encodedSettings struct {
	PopplerPath string         `json:"poppler_path" yaml:"poppler_path"`
	Layers      []encodedLayer `json:"layers" yaml:"layers"`
}

// Encode serializes every slot in slot order.
func Encode(s Settings, format Format) ([]byte, error) {
	if err := s.Layers.Validate(); err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}

	doc := encodedSettings{PopplerPath: s.ConverterPath, Layers: make([]encodedLayer, 0, layers.SlotCount)}
	for slot, l := range s.Layers.All() {
		doc.Layers = append(doc.Layers, encodedLayer{
			Layer:    slot,
			Enabled:  l.Enabled,
			Filter:   l.Filter.String(),
			Strength: decimal(l.Strength),
		})
	}

	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(doc, "", "    ")
		if err != nil {
			return nil, fmt.Errorf("encode json settings: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml settings: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml settings: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("encode settings: unsupported format %s", format)
}

// Decode parses a document onto the default settings.
func Decode(data []byte, format Format) (Settings, error) {
	return DecodeInto(data, format, DefaultSettings())
}

// DecodeInto parses a document onto base and returns the merged result; base
// itself is never modified. Layer entries only replace the slots they name,
// entries whose slot is missing or outside 1..5 are skipped, and absent
// per-layer members take the layer defaults. A missing converter path
// becomes empty. Unknown members are ignored.
func DecodeInto(data []byte, format Format, base Settings) (Settings, error) {
	doc, err := parse(data, format)
	if err != nil {
		return base, &DecodeError{Format: format, Err: err}
	}

	out := base
	out.ConverterPath = ""
	if doc.PopplerPath != nil {
		out.ConverterPath = *doc.PopplerPath
	}
	if doc.Layers == nil {
		return out, nil
	}

	for i, entry := range doc.Layers {
		if entry.Layer == nil || *entry.Layer < 1 || *entry.Layer > layers.SlotCount {
			continue
		}

		l := layers.DefaultLayer()
		if entry.Enabled != nil {
			l.Enabled = *entry.Enabled
		}
		if entry.Filter != nil {
			kind, err := algorithms.ParseFilterKind(*entry.Filter)
			if err != nil {
				return base, &DecodeError{Format: format, Err: fmt.Errorf("layers[%d]: %w", i, err)}
			}
			l.Filter = kind
		}
		if entry.Strength != nil {
			l.Strength = *entry.Strength
		}
		if err := out.Layers.SetLayer(*entry.Layer, l); err != nil {
			return base, &DecodeError{Format: format, Err: fmt.Errorf("layers[%d]: %w", i, err)}
		}
	}
	return out, nil
}

func parse(data []byte, format Format) (fileSettings, error) {
	var doc fileSettings
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return doc, fmt.Errorf("%w: top level must be an object", ErrMalformedDocument)
		}
		parsed, err := parseJSON(trimmed)
		if err != nil {
			return parsed, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return parsed, nil
	case FormatYAML:
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return doc, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
			return doc, fmt.Errorf("%w: top level must be a mapping", ErrMalformedDocument)
		}
		if err := root.Content[0].Decode(&doc); err != nil {
			return doc, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return doc, nil
	}
	return doc, fmt.Errorf("unsupported format %s", format)
}

// parseJSON decodes through raw objects so member names match exactly.
func parseJSON(data []byte) (fileSettings, error) {
	var doc fileSettings
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return doc, err
	}

	var err error
	if doc.PopplerPath, err = member[string](top, "poppler_path"); err != nil {
		return doc, err
	}

	raw, ok := top["layers"]
	if !ok {
		return doc, nil
	}
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return doc, fmt.Errorf("layers: %w", err)
	}
	if entries == nil {
		return doc, nil
	}

	doc.Layers = make([]fileLayer, len(entries))
	for i, entry := range entries {
		l := &doc.Layers[i]
		if l.Layer, err = member[int](entry, "layer"); err != nil {
			return doc, fmt.Errorf("layers[%d]: %w", i, err)
		}
		if l.Enabled, err = member[bool](entry, "enabled"); err != nil {
			return doc, fmt.Errorf("layers[%d]: %w", i, err)
		}
		if l.Filter, err = member[string](entry, "filter"); err != nil {
			return doc, fmt.Errorf("layers[%d]: %w", i, err)
		}
		if l.Strength, err = member[float64](entry, "strength"); err != nil {
			return doc, fmt.Errorf("layers[%d]: %w", i, err)
		}
	}
	return doc, nil
}

// member decodes obj[key]; absent or null members yield nil.
func member[T any](obj map[string]json.RawMessage, key string) (*T, error) {
	raw, ok := obj[key]
	if !ok {
		return nil, nil
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// LoadFile reads path and decodes it onto base, choosing the format from the
// extension. Read failures are reported as *DecodeError as well.
func LoadFile(path string, base Settings) (Settings, error) {
	format := FormatForPath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return base, &DecodeError{Path: path, Format: format, Err: err}
	}
	s, err := DecodeInto(data, format, base)
	if err != nil {
		var derr *DecodeError
		if errors.As(err, &derr) {
			derr.Path = path
		}
		return base, err
	}
	return s, nil
}

// SaveFile encodes s in the format matching the extension of path.
func SaveFile(path string, s Settings) error {
	data, err := Encode(s, FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save settings %s: %w", path, err)
	}
	return nil
}

// DefaultSettingsPath returns settings.json next to the running executable,
// or in the working directory when the executable cannot be located.
func DefaultSettingsPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultSettingsFile
	}
	return filepath.Join(filepath.Dir(exe), DefaultSettingsFile)
}
