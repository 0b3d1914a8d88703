package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/einview/internal/config"
)

const modelSource = "import torch\ny = torch.einsum(\"ij,jk->ik\", a, b)\n"

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func alwaysOn() config.Config {
	cfg := config.Default()
	cfg.Annotate.Mode = "always-on"
	return cfg
}

func press(v *viewer, k tcell.Key, r rune) bool {
	return v.handleKey(tcell.NewEventKey(k, r, tcell.ModNone))
}

func TestViewerAnnotatesIncludedFile(t *testing.T) {
	v := newViewer(alwaysOn(), config.DefaultLanguages())
	defer v.close()

	require.NoError(t, v.open(writeTemp(t, "model.py", modelSource)))

	assert.Equal(t, 6, v.grid.Count())
	assert.True(t, v.sync.Visible())
	_, ok := v.grid.StyleAt(1, 18)
	assert.True(t, ok, "first term styled")
	_, ok = v.grid.StyleAt(1, 17)
	assert.False(t, ok, "quote styled")
}

func TestViewerSkipsExcludedFile(t *testing.T) {
	v := newViewer(alwaysOn(), config.DefaultLanguages())
	defer v.close()

	require.NoError(t, v.open(writeTemp(t, "notes.txt", modelSource)))

	assert.Equal(t, 0, v.grid.Count())
	assert.False(t, v.sync.Visible())

	press(v, tcell.KeyRune, 'x')
	assert.Equal(t, 0, v.grid.Count())
}

func TestViewerForwardsEdits(t *testing.T) {
	v := newViewer(alwaysOn(), config.DefaultLanguages())
	defer v.close()
	require.NoError(t, v.open(writeTemp(t, "model.py", modelSource)))
	scans := v.sync.Stats().FullScans

	require.False(t, press(v, tcell.KeyDown, 0))
	require.False(t, press(v, tcell.KeyRune, 'x'))

	assert.Equal(t, 1, v.sync.Stats().Patches)
	assert.Equal(t, scans, v.sync.Stats().FullScans)
	assert.Equal(t, []int{1}, v.sync.Edited())
	_, ok := v.grid.StyleAt(1, 19)
	assert.True(t, ok, "term shifted right by the insert")
	_, ok = v.grid.StyleAt(1, 18)
	assert.False(t, ok, "stale column still styled")

	require.False(t, press(v, tcell.KeyEnter, 0))
	assert.Equal(t, scans+1, v.sync.Stats().FullScans)
	assert.Equal(t, 6, v.grid.Count())

	assert.True(t, press(v, tcell.KeyCtrlQ, 0))
}

func TestViewerApplyConfigSwapsGrid(t *testing.T) {
	v := newViewer(alwaysOn(), config.DefaultLanguages())
	defer v.close()
	require.NoError(t, v.open(writeTemp(t, "model.py", modelSource)))
	old := v.grid

	cfg := alwaysOn()
	cfg.Annotate.UseCustomPalette = true
	cfg.Annotate.CustomPalette = []string{"#ff0000", "#00ff00"}
	v.applyConfig(cfg)

	assert.NotSame(t, old, v.grid)
	assert.Equal(t, 0, old.Count(), "old grid not disposed")
	assert.Equal(t, 2, v.grid.Colors())
	assert.Equal(t, 6, v.grid.Count())

	cfg.Annotate.IncludedFilePatterns = []string{"**/*.ipynb"}
	v.applyConfig(cfg)
	assert.Equal(t, 0, v.grid.Count())
	assert.False(t, v.sync.Visible())
}

func TestViewerHighlightsPython(t *testing.T) {
	v := newViewer(alwaysOn(), config.DefaultLanguages())
	defer v.close()
	require.NoError(t, v.open(writeTemp(t, "model.py", modelSource)))

	v.refreshHighlights()
	assert.Equal(t, "python", v.hl.Language())
}

func TestViewerReparsesOnLanguageSwitch(t *testing.T) {
	v := newViewer(alwaysOn(), config.DefaultLanguages())
	defer v.close()
	require.NoError(t, v.open(writeTemp(t, "model.py", modelSource)))
	v.refreshHighlights()
	require.Equal(t, "python", v.hl.Language())

	require.NoError(t, v.open(writeTemp(t, "main.go", "package main\n")))
	v.refreshHighlights()
	assert.Equal(t, "go", v.hl.Language())
}
