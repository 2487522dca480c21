package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/imgajeed76/datagrid/internal/grid"
)

// Config represents the datagrid config.toml file
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Display DisplayConfig `toml:"display"`
	Input   InputConfig   `toml:"input"`
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
}

// GridConfig holds the view engine defaults
type GridConfig struct {
	Pagination       bool   `toml:"pagination" config:"grid.pagination" default:"true" desc:"Split rows into pages"`
	PageSize         int    `toml:"page_size" config:"grid.page_size" default:"10" min:"1" max:"100000" desc:"Rows per page"`
	Sorting          bool   `toml:"sorting" config:"grid.sorting" default:"true" desc:"Allow sorting by header"`
	Filtering        bool   `toml:"filtering" config:"grid.filtering" default:"true" desc:"Allow per-column filters"`
	Virtual          bool   `toml:"virtual" config:"grid.virtual" default:"true" desc:"Only materialize rows in the viewport"`
	VirtualThreshold int    `toml:"virtual_threshold" config:"grid.virtual_threshold" default:"50" min:"1" max:"10000000" desc:"Row count that turns virtualization on"`
	Overscan         int    `toml:"overscan" config:"grid.overscan" default:"3" max:"1000" desc:"Extra rows rendered past the viewport"`
	RowHeight        int    `toml:"row_height" config:"grid.row_height" default:"35" min:"1" max:"1000" desc:"Estimated row height for the HTTP view (px)"`
	FilterDebounceMS int    `toml:"filter_debounce_ms" config:"grid.filter_debounce_ms" default:"500" min:"1" max:"60000" desc:"Quiet time before typed filters apply (ms)"`
	ResizeMode       string `toml:"resize_mode" config:"grid.resize_mode" default:"onChange" enum:"onChange,onEnd,off" desc:"Column resize behavior"`
	RowSelection     bool   `toml:"row_selection" config:"grid.row_selection" default:"true" desc:"Allow selecting rows"`
	EmptyMessage     string `toml:"empty_message" config:"grid.empty_message" default:"No data" desc:"Shown when no row matches"`
	StickyHeader     bool   `toml:"sticky_header" config:"grid.sticky_header" default:"true" desc:"Keep the header visible while scrolling"`
}

// DisplayConfig holds terminal presentation settings
type DisplayConfig struct {
	ColWidth    int  `toml:"col_width" config:"display.col_width" default:"0" max:"1000" desc:"Fixed column width in cells (0 = fit content)"`
	MinColWidth int  `toml:"min_col_width" config:"display.min_col_width" default:"4" min:"1" max:"1000" desc:"Narrowest a column can be resized to"`
	MaxColWidth int  `toml:"max_col_width" config:"display.max_col_width" default:"40" min:"1" max:"1000" desc:"Widest a column can be resized to"`
	NoColor     bool `toml:"no_color" config:"display.no_color" default:"false" desc:"Disable colors (NO_COLOR also works)"`
}

// InputConfig holds file reading settings
type InputConfig struct {
	Charset string `toml:"charset" config:"input.charset" default:"windows-1252" enum:"windows-1252,iso-8859-1,iso-8859-15" desc:"Charset for CSV/TSV bytes that are not UTF-8"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" config:"log.level" default:"info" enum:"debug,info,warn,error" desc:"Minimum log level"`
	Format string `toml:"format" config:"log.format" default:"text" enum:"text,json" desc:"Log line format"`
	File   string `toml:"file" config:"log.file" desc:"Log file (empty = none, - = stderr)"`
}

// ServerConfig holds settings for datagrid serve
type ServerConfig struct {
	Addr string `toml:"addr" config:"server.addr" default:"127.0.0.1:8080" desc:"Listen address"`
}

// Default returns a config with every field at its default
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Pagination:       true,
			PageSize:         grid.DefaultPageSize,
			Sorting:          true,
			Filtering:        true,
			Virtual:          true,
			VirtualThreshold: grid.DefaultVirtualThreshold,
			Overscan:         grid.DefaultOverscan,
			RowHeight:        35,
			FilterDebounceMS: int(grid.DefaultFilterDebounce / time.Millisecond),
			ResizeMode:       "onChange",
			RowSelection:     true,
			EmptyMessage:     "No data",
			StickyHeader:     true,
		},
		Display: DisplayConfig{
			MinColWidth: 4,
			MaxColWidth: 40,
		},
		Input: InputConfig{
			Charset: "windows-1252",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Path returns the path to the config file
// Follows XDG Base Directory spec on Linux, platform conventions elsewhere
func Path() string {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, "Library", "Application Support", "datagrid")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "datagrid")
	default: // Linux and others - follow XDG
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "datagrid")
		} else {
			home, _ := os.UserHomeDir()
			configDir = filepath.Join(home, ".config", "datagrid")
		}
	}

	return filepath.Join(configDir, "config.toml")
}

// Load reads the config file at path (Path() when empty). A missing file
// yields the defaults. Keys absent from the file keep their defaults and
// out of range values are clamped.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	Clamp(cfg)
	return cfg, nil
}

// Save writes the config file to path (Path() when empty)
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// GetValue returns a config value by key (uses reflection)
func (c *Config) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a config value by key (uses reflection with validation)
func (c *Config) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}

// FilterDebounce returns the debounce interval as a duration
func (g GridConfig) FilterDebounce() time.Duration {
	return time.Duration(g.FilterDebounceMS) * time.Millisecond
}

// Resize returns the configured resize mode
func (g GridConfig) Resize() grid.ResizeMode {
	return grid.ParseResizeMode(g.ResizeMode)
}

// GridOptions maps the [grid] section onto engine options. Callbacks,
// styles and the scheduler are left for the host to fill in.
func GridOptions[T any](g GridConfig) grid.Options[T] {
	return grid.Options[T]{
		EnableColumnFiltering: g.Filtering,
		EnableSorting:         g.Sorting,
		EnablePagination:      g.Pagination,
		PageSize:              g.PageSize,
		EnableVirtual:         g.Virtual,
		VirtualThreshold:      g.VirtualThreshold,
		Overscan:              overscanOption(g.Overscan),
		RowHeight:             float64(g.RowHeight),
		ColumnResizeMode:      g.Resize(),
		RowSelection:          g.RowSelection,
		EmptyMessage:          g.EmptyMessage,
		StickyHeader:          g.StickyHeader,
		FilterDebounce:        g.FilterDebounce(),
	}
}

// overscanOption maps a configured overscan of 0 to the engine's "none".
func overscanOption(n int) int {
	if n == 0 {
		return -1
	}
	return n
}
