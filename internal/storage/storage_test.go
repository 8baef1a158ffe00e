package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/npc-dialog/pkg/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greeterScript = `
- kind: dialogue
  lines: ["Hello.", "Walk with me."]
- kind: good_ending
  lines: ["Goodbye."]
`

const quizScript = `[
  {"kind": "quiz", "question": "Pick one", "options": ["a", "b"], "scores": [1, 2]},
  {"kind": "good_ending", "lines": ["Done."]}
]`

const courseScene = `
name: Course
player: {x: 0, y: 0, z: 0}
characters:
  - id: greeter
    name: Greeter
    position: {x: 1, y: 0, z: 1}
    script: greeter
    route_enabled: true
    unlocks: [examiner]
  - id: examiner
    name: Examiner
    position: {x: 5, y: 0, z: 5}
    script: quiz
    animations:
      - {name: Idle, duration: 1.5}
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "scripts"), "greeter.yaml", greeterScript)
	writeFile(t, filepath.Join(root, "scripts"), "quiz.json", quizScript)
	writeFile(t, filepath.Join(root, "scripts"), "notes.txt", "ignored")
	writeFile(t, filepath.Join(root, "scenes"), "course.yaml", courseScene)
	return NewStore(root, testLogger())
}

func TestStore_ListScripts(t *testing.T) {
	s := newTestStore(t)
	ids, err := s.ListScripts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"greeter", "quiz"}, ids)
}

func TestStore_ListMissingDir(t *testing.T) {
	s := NewStore(t.TempDir(), testLogger())
	ids, err := s.ListScenes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_Paths(t *testing.T) {
	s := newTestStore(t)

	path, err := s.ScriptPath("quiz")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.dataDir, "scripts", "quiz.json"), path)

	path, err = s.ScenePath("course")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.dataDir, "scenes", "course.yaml"), path)

	_, err = s.ScenePath("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetScript(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sc, err := s.GetScript(ctx, "greeter")
	require.NoError(t, err)
	require.Len(t, sc, 2)
	assert.Equal(t, script.KindDialogue, sc[0].Kind)
	assert.Equal(t, []string{"Hello.", "Walk with me."}, sc[0].Lines)

	sc, err = s.GetScript(ctx, "quiz")
	require.NoError(t, err)
	assert.Equal(t, script.KindQuiz, sc[0].Kind)
	assert.Equal(t, script.NoAnswer, sc[0].Answer)
}

func TestStore_GetScriptErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetScript(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetScript(ctx, "../scenes/course")
	assert.Error(t, err)

	writeFile(t, filepath.Join(s.dataDir, "scripts"), "broken.yaml", "- kind: quiz\n  question: Empty\n")
	_, err = s.GetScript(ctx, "broken")
	assert.ErrorContains(t, err, "no options")
}

func TestStore_GetScene(t *testing.T) {
	s := newTestStore(t)
	spec, err := s.GetScene(context.Background(), "course")
	require.NoError(t, err)

	assert.Equal(t, "course", spec.ID)
	assert.Equal(t, "Course", spec.Name)
	require.Len(t, spec.Characters, 2)

	greeter, ok := spec.Character("greeter")
	require.True(t, ok)
	assert.True(t, greeter.RouteEnabled)
	assert.Equal(t, []string{"examiner"}, greeter.Unlocks)

	examiner, ok := spec.Character("examiner")
	require.True(t, ok)
	assert.Equal(t, 5.0, examiner.Position.X)
	require.Len(t, examiner.Animations, 1)
	assert.Equal(t, "Idle", examiner.Animations[0].Name)
	assert.Equal(t, 1.5, examiner.Animations[0].Duration)
}

func TestStore_GetSceneMissingScript(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, filepath.Join(s.dataDir, "scenes"), "lost.yaml", `
name: Lost
characters:
  - id: ghost
    name: Ghost
    script: nowhere
`)
	_, err := s.GetScene(context.Background(), "lost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "ghost")
}

func TestStore_GetSceneInvalid(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, filepath.Join(s.dataDir, "scenes"), "bad.yaml", `
name: Bad
characters:
  - id: a
    script: greeter
    unlocks: [b, a]
  - id: a
    script: greeter
`)
	_, err := s.GetScene(context.Background(), "bad")
	require.Error(t, err)
	assert.ErrorContains(t, err, `duplicate character id "a"`)
	assert.ErrorContains(t, err, `unknown character "b"`)
	assert.ErrorContains(t, err, "unlocks itself")
}

func TestLoadSceneFile_UnknownField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "typo.yaml", "name: Typo\ncharacterz: []\n")
	_, err := LoadSceneFile(filepath.Join(dir, "typo.yaml"))
	assert.Error(t, err)
}

func TestStore_BundledData(t *testing.T) {
	s := NewStore(filepath.Join("..", "..", "data"), testLogger())
	ctx := context.Background()

	ids, err := s.ListScripts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	for _, id := range ids {
		_, err := s.GetScript(ctx, id)
		assert.NoError(t, err, id)
	}

	spec, err := s.GetScene(ctx, "course")
	require.NoError(t, err)
	assert.NotEmpty(t, spec.Characters)
}
