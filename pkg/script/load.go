package script

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a script file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported script extension %q", filepath.Ext(path))
	}
}

// wireEntry is the on-disk shape of an entry. Answer is a pointer so an
// omitted answer decodes to NoAnswer rather than option 0.
type wireEntry struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	Lines    []string `json:"lines,omitempty" yaml:"lines,omitempty"`
	Question string   `json:"question,omitempty" yaml:"question,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Scores   []int    `json:"scores,omitempty" yaml:"scores,omitempty"`
	Answer   *int     `json:"answer,omitempty" yaml:"answer,omitempty"`
	Feedback []string `json:"feedback,omitempty" yaml:"feedback,omitempty"`
}

func (w wireEntry) entry() Entry {
	e := Entry{
		Kind:     w.Kind,
		Lines:    w.Lines,
		Question: w.Question,
		Options:  w.Options,
		Scores:   w.Scores,
		Answer:   NoAnswer,
		Feedback: w.Feedback,
	}
	if w.Answer != nil {
		e.Answer = *w.Answer
	}
	return e
}

// Decode parses a script strictly: unknown fields are errors. The result
// is not validated; call Validate before registering it.
func Decode(data []byte, format Format) (Script, error) {
	var wire []wireEntry
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&wire); err != nil {
			return nil, fmt.Errorf("failed to decode json script: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&wire); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode yaml script: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported script format %q", format)
	}

	s := make(Script, len(wire))
	for i, w := range wire {
		s[i] = w.entry()
	}
	return s, nil
}

// LoadFile reads and decodes a script file, choosing the format from its
// extension.
func LoadFile(path string) (Script, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	s, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}
