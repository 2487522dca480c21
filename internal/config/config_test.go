package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchTags(t *testing.T) {
	cfg := Default()
	for _, f := range getConfigFields() {
		got, ok := cfg.GetValue(f.Key)
		require.True(t, ok, f.Key)
		want := f.Default
		if want == "" && f.Type == "int" {
			want = "0"
		}
		if want == "" && f.Type == "bool" {
			want = "false"
		}
		assert.Equal(t, want, got, "default of %s", f.Key)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[grid]
page_size = 0
sorting = false
resize_mode = "sideways"
overscan = -4

[log]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Grid.PageSize, "clamped to min")
	assert.False(t, cfg.Grid.Sorting)
	assert.True(t, cfg.Grid.Filtering, "absent key keeps default")
	assert.Equal(t, "onChange", cfg.Grid.ResizeMode, "invalid enum reset")
	assert.Equal(t, 0, cfg.Grid.Overscan)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[grid\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	require.NoError(t, cfg.SetValue("grid.page_size", "25"))
	require.NoError(t, cfg.SetValue("display.no_color", "true"))
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSetValueValidates(t *testing.T) {
	cfg := Default()

	require.Error(t, cfg.SetValue("grid.page_size", "0"))
	require.Error(t, cfg.SetValue("grid.page_size", "ten"))
	require.Error(t, cfg.SetValue("grid.overscan", "-1"))
	require.Error(t, cfg.SetValue("grid.resize_mode", "sideways"))
	require.Error(t, cfg.SetValue("input.charset", "utf-16"))
	require.Error(t, cfg.SetValue("grid.sorting", "maybe"))
	require.Error(t, cfg.SetValue("grid.nope", "1"))
	require.Error(t, cfg.SetValue("nodot", "1"))

	require.NoError(t, cfg.SetValue("grid.resize_mode", "onEnd"))
	require.NoError(t, cfg.SetValue("input.charset", "iso-8859-15"))
	assert.Equal(t, "iso-8859-15", cfg.Input.Charset)
	require.NoError(t, cfg.SetValue("grid.pagesize", "50"))
	v, ok := cfg.GetValue("grid.page_size")
	require.True(t, ok)
	assert.Equal(t, "50", v)
}

func TestGridOptions(t *testing.T) {
	g := Default().Grid
	g.Overscan = 0
	g.ResizeMode = "onEnd"

	opts := GridOptions[int](g)
	assert.True(t, opts.EnablePagination)
	assert.Equal(t, 10, opts.PageSize)
	assert.Equal(t, -1, opts.Overscan, "0 means no overscan")
	assert.Equal(t, grid.ResizeOnEnd, opts.ColumnResizeMode)
	assert.Equal(t, 500*time.Millisecond, opts.FilterDebounce)
	assert.Equal(t, "No data", opts.EmptyMessage)
	assert.Equal(t, 35.0, opts.RowHeight)

	g.ResizeMode = "off"
	assert.Equal(t, grid.ResizeDisabled, GridOptions[int](g).ColumnResizeMode)
}

func TestListKeysAndHelp(t *testing.T) {
	keys := ListKeys()
	assert.Contains(t, keys, "grid.page_size")
	assert.Contains(t, keys, "server.addr")
	assert.True(t, slices.IsSorted(keys))

	help := GenerateHelpText()
	assert.Contains(t, help, "Grid:")
	assert.Contains(t, help, "grid.filter_debounce_ms")
	assert.Contains(t, help, "(default: 500)")
	assert.Contains(t, help, "Input files:")
	assert.Contains(t, help, "input.charset")
}

func TestPathUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p := Path()
	assert.Equal(t, "config.toml", filepath.Base(p))
	assert.Equal(t, "datagrid", filepath.Base(filepath.Dir(p)))
}
