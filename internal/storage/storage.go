package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/npc-dialog/pkg/scene"
	"github.com/jwebster45206/npc-dialog/pkg/script"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a script or scene file does not exist.
var ErrNotFound = errors.New("not found")

var extensions = []string{".yaml", ".yml", ".json"}

// Storage is the read-only content source used by the console and the
// validator.
type Storage interface {
	ListScripts(ctx context.Context) ([]string, error)
	GetScript(ctx context.Context, id string) (script.Script, error)
	ListScenes(ctx context.Context) ([]string, error)
	GetScene(ctx context.Context, id string) (*scene.SceneSpec, error)
}

// Ensure Store implements Storage interface
var _ Storage = (*Store)(nil)

// Store loads authored content from the data directory:
//
//	<data>/scripts/<id>.yaml|yml|json
//	<data>/scenes/<id>.yaml|yml|json
type Store struct {
	dataDir string
	logger  *slog.Logger
}

// NewStore creates a filesystem store rooted at dataDir.
func NewStore(dataDir string, logger *slog.Logger) *Store {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &Store{dataDir: dataDir, logger: logger}
}

// ListScripts returns the IDs of all script files, sorted.
func (s *Store) ListScripts(ctx context.Context) ([]string, error) {
	return s.list(filepath.Join(s.dataDir, "scripts"))
}

// GetScript loads and validates a script by ID.
func (s *Store) GetScript(ctx context.Context, id string) (script.Script, error) {
	path, err := s.find(filepath.Join(s.dataDir, "scripts"), id)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", id, err)
	}

	sc, err := script.LoadFile(path)
	if err != nil {
		s.logger.Error("Failed to load script", "id", id, "path", path, "error", err)
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("script %s: %w", id, err)
	}
	return sc, nil
}

// ScriptPath returns the file holding script id.
func (s *Store) ScriptPath(id string) (string, error) {
	return s.find(filepath.Join(s.dataDir, "scripts"), id)
}

// ScenePath returns the file holding scene manifest id.
func (s *Store) ScenePath(id string) (string, error) {
	return s.find(filepath.Join(s.dataDir, "scenes"), id)
}

// ListScenes returns the IDs of all scene manifests, sorted.
func (s *Store) ListScenes(ctx context.Context) ([]string, error) {
	return s.list(filepath.Join(s.dataDir, "scenes"))
}

// GetScene loads a scene manifest and checks that every referenced script
// exists.
func (s *Store) GetScene(ctx context.Context, id string) (*scene.SceneSpec, error) {
	path, err := s.find(filepath.Join(s.dataDir, "scenes"), id)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", id, err)
	}

	spec, err := LoadSceneFile(path)
	if err != nil {
		return nil, err
	}
	spec.ID = id

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", id, err)
	}
	for _, c := range spec.Characters {
		if _, err := s.find(filepath.Join(s.dataDir, "scripts"), c.Script); err != nil {
			return nil, fmt.Errorf("scene %s: character %s: script %s: %w", id, c.ID, c.Script, err)
		}
	}
	return spec, nil
}

// LoadSceneFile decodes a scene manifest strictly. The ID is taken from the
// file name.
func LoadSceneFile(path string) (*scene.SceneSpec, error) {
	format, err := script.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var spec scene.SceneSpec
	switch format {
	case script.FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&spec)
	case script.FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&spec); errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode scene %s: %w", filepath.Base(path), err)
	}

	spec.ID = trimExt(filepath.Base(path))
	return &spec, nil
}

func (s *Store) list(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	ids := []string{}
	seen := map[string]bool{}
	for _, entry := range entries {
		if entry.IsDir() || !hasExt(entry.Name()) {
			continue
		}
		id := trimExt(entry.Name())
		if seen[id] {
			s.logger.Warn("Duplicate content file ignored", "dir", dir, "file", entry.Name())
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) find(dir, id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid id %q", id)
	}
	for _, ext := range extensions {
		path := filepath.Join(dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

func hasExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
