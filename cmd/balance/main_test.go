package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gobalance/internal/config"
	"gobalance/internal/errors"
	"gobalance/internal/presets"
	"gobalance/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func testEnv() *config.Config {
	return &config.Config{
		Data:   config.DataConfig{Dir: "/data"},
		Output: config.OutputConfig{Dir: "/out", WidthCM: 20, HeightCM: 10, Samples: 100},
	}
}

func TestRunOptions_Apply(t *testing.T) {
	cfg, err := presets.Get("weapons")
	require.NoError(t, err)

	rc, err := runOptions{precision: 3, summary: "weapons.md"}.apply(cfg, testEnv())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/out", "weapons.png"), rc.OutputPath)
	assert.InDelta(t, float64(20*vg.Centimeter), float64(rc.Width), 1e-9)
	assert.InDelta(t, float64(10*vg.Centimeter), float64(rc.Height), 1e-9)
	assert.False(t, rc.Show)
	assert.Equal(t, filepath.Join("/data", "items/weapons.json"), cfg.Sources[0].Path)
	assert.Equal(t, filepath.Join("/out", "weapons.md"), cfg.Summary)
	assert.Empty(t, cfg.Report)
	require.NotNil(t, cfg.Legend.Precision)
	assert.Equal(t, 3, *cfg.Legend.Precision)
}

func TestRunOptions_ApplyShowOnly(t *testing.T) {
	cfg, err := presets.Get("spells")
	require.NoError(t, err)

	rc, err := runOptions{show: true, precision: -1, dataDir: "/elsewhere", out: "/tmp/spells.svg"}.apply(cfg, testEnv())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/spells.svg", rc.OutputPath)
	assert.True(t, rc.Show)
	assert.Equal(t, filepath.Join("/elsewhere", "spells.json"), cfg.Sources[0].Path)
	assert.Nil(t, cfg.Legend.Precision)

	cfg, err = presets.Get("spells")
	require.NoError(t, err)
	rc, err = runOptions{show: true, precision: -1}.apply(cfg, testEnv())
	require.NoError(t, err)
	assert.Empty(t, rc.OutputPath, "show without an output file draws to a temp image")
}

func TestRunOptions_ApplyRejectsPrecision(t *testing.T) {
	cfg, err := presets.Get("weapons")
	require.NoError(t, err)
	_, err = runOptions{precision: 11}.apply(cfg, testEnv())
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestPresetsCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"presets"})
	require.NoError(t, cmd.Execute())
	for _, name := range presets.Names() {
		assert.Contains(t, out.String(), name)
	}
}

func TestPresetCommand_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	_, err := testkit.WriteJSON(dir, "items/weapons.json", testkit.NewItemGenerator(testkit.DefaultWeaponConfig()).Generate())
	require.NoError(t, err)

	outDir := filepath.Join(dir, "out")
	t.Setenv("BALANCE_OUTPUT_DIR", outDir)
	t.Setenv("PLOT_SHOW", "false")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"preset", "weapons", "--data-dir", dir, "--out", "weapons.svg", "--report", "weapons.xlsx", "--summary", "weapons.md"})
	require.NoError(t, cmd.Execute())

	for _, name := range []string{"weapons.svg", "weapons.xlsx", "weapons.md"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
	assert.Contains(t, out.String(), "One-hand: y = ")
	assert.Contains(t, out.String(), "Two-hand: y = ")
}

func TestPlotCommand_MissingData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\nsources: [{name: s, path: missing.json}]\nx: a\ny: b\n"), 0o644))
	t.Setenv("BALANCE_OUTPUT_DIR", dir)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"plot", "--config", path, "--data-dir", dir})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errors.CodeDataUnavailable, errors.GetCode(err))
	assert.NoFileExists(t, filepath.Join(dir, "a.png"))
}
