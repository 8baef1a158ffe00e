package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/npc-dialog/internal/storage"
	"github.com/jwebster45206/npc-dialog/pkg/scene"
	"github.com/jwebster45206/npc-dialog/pkg/script"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxOptions is the number of choice inputs a player has.
const maxOptions = 4

// snakeCase matches IDs and file names (without extension).
var snakeCase = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

var titleCaser = cases.Title(language.English)

// Validator collects problems across files and prints them per file.
type Validator struct {
	out     io.Writer
	dataDir string

	errors   []string
	warnings []string
	failed   int
	checked  int
}

// ValidateScriptFile checks one script file.
func (v *Validator) ValidateScriptFile(path string) {
	v.begin(path)
	defer v.end(path)

	v.validateFilename(path)
	s, err := script.LoadFile(path)
	if err != nil {
		v.addError(err.Error())
		return
	}
	v.validateScript(s)
}

// ValidateSceneFile checks one scene manifest and, when the data directory
// can be found, the scripts it references.
func (v *Validator) ValidateSceneFile(ctx context.Context, path string) {
	v.begin(path)
	defer v.end(path)

	v.validateFilename(path)
	spec, err := storage.LoadSceneFile(path)
	if err != nil {
		v.addError(err.Error())
		return
	}
	v.validateScene(spec)

	dataDir := v.dataDir
	if dataDir == "" {
		dataDir = filepath.Dir(filepath.Dir(path))
	}
	store := storage.NewStore(dataDir, discardLogger())
	for _, c := range spec.Characters {
		if c.Script == "" {
			continue
		}
		if _, err := store.GetScript(ctx, c.Script); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				v.addError(fmt.Sprintf("character '%s' references missing script '%s'", c.ID, c.Script))
				continue
			}
			v.addError(fmt.Sprintf("character '%s': %v", c.ID, err))
		}
	}
}

// ValidateAll checks every script, or every scene manifest when scenes is
// set, found in the data directory.
func (v *Validator) ValidateAll(ctx context.Context, scenes bool) error {
	dataDir := v.dataDir
	if dataDir == "" {
		dataDir = "./data"
	}
	store := storage.NewStore(dataDir, discardLogger())

	list, locate := store.ListScripts, store.ScriptPath
	if scenes {
		list, locate = store.ListScenes, store.ScenePath
	}
	ids, err := list(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no files to validate under %s", dataDir)
	}

	for _, id := range ids {
		path, err := locate(id)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		if scenes {
			v.ValidateSceneFile(ctx, path)
		} else {
			v.ValidateScriptFile(path)
		}
	}
	return nil
}

// Report prints a summary and returns an error when any file failed.
func (v *Validator) Report() error {
	if v.failed > 0 {
		fmt.Fprintf(v.out, "%d of %d files failed validation\n", v.failed, v.checked)
		return fmt.Errorf("validation found errors")
	}
	fmt.Fprintf(v.out, "All %d files are valid!\n", v.checked)
	return nil
}

func (v *Validator) begin(path string) {
	fmt.Fprintf(v.out, "Validating %s...\n", path)
	v.errors = nil
	v.warnings = nil
	v.checked++
}

func (v *Validator) end(path string) {
	if len(v.warnings) > 0 {
		fmt.Fprintf(v.out, "Warnings (%d):\n%s\n", len(v.warnings), strings.Join(v.warnings, "\n"))
	}
	if len(v.errors) > 0 {
		v.failed++
		fmt.Fprintf(v.out, "Errors (%d):\n%s\n", len(v.errors), strings.Join(v.errors, "\n"))
	}
}

func (v *Validator) validateFilename(path string) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if !snakeCase.MatchString(name) {
		v.addError(fmt.Sprintf("filename '%s' must be lowercase snake_case (e.g., first_lesson.yaml, not First-Lesson.yaml)", base))
	}
}

func (v *Validator) validateScript(s script.Script) {
	if err := s.Validate(); err != nil {
		for _, msg := range splitJoined(err) {
			v.addError(msg)
		}
	}

	for i, e := range s {
		if e.Kind != script.KindQuiz {
			continue
		}
		where := fmt.Sprintf("entry %d (%s)", i, titleCaser.String(e.Kind.String()))
		if len(e.Options) > maxOptions {
			v.addWarning(fmt.Sprintf("%s has %d options; only the first %d can be chosen", where, len(e.Options), maxOptions))
		}
		if len(e.Scores) > 0 && len(e.Scores) < len(e.Options) {
			v.addWarning(fmt.Sprintf("%s has %d scores for %d options; missing scores count as 0", where, len(e.Scores), len(e.Options)))
		}
	}

	if len(s.Endings()) == 0 {
		v.addWarning("script has no ending; the conversation ends after the last entry")
	}
}

func (v *Validator) validateScene(spec *scene.SceneSpec) {
	if err := spec.Validate(); err != nil {
		for _, msg := range splitJoined(err) {
			v.addError(msg)
		}
	}
	for _, c := range spec.Characters {
		v.validateIDFormat("character ID", c.ID)
		v.validateIDFormat("script ID", c.Script)
	}

	enabled := false
	for _, c := range spec.Characters {
		enabled = enabled || c.RouteEnabled
	}
	if len(spec.Characters) > 0 && !enabled {
		v.addWarning("no character has route_enabled set; nobody can be talked to")
	}
}

func (v *Validator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}
	if !snakeCase.MatchString(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *Validator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *Validator) addWarning(msg string) {
	v.warnings = append(v.warnings, "  - "+msg)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// splitJoined flattens an errors.Join result into one message per error.
func splitJoined(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
