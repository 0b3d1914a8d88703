package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kobzarvs/einview/internal/equation"
)

type Annotate struct {
	Mode                   string   `toml:"mode"`
	CursorNearRange        int      `toml:"cursor-near-range"`
	Coloring               string   `toml:"coloring"`
	HashSeed               int64    `toml:"hash-seed"`
	Spacing                string   `toml:"spacing"`
	IncludedFilePatterns   []string `toml:"included-file-patterns"`
	UseCustomPalette       bool     `toml:"use-custom-palette"`
	CustomPalette          []string `toml:"custom-palette"`
	UseBoldTerms           bool     `toml:"use-bold-terms"`
	EquationPrefixPatterns []string `toml:"equation-prefix-patterns"`
}

type Theme struct {
	Theme                string `toml:"theme"`
	Kind                 string `toml:"kind"`
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	StatuslineForeground string `toml:"statusline-foreground"`
	StatuslineBackground string `toml:"statusline-background"`
	LineNumberForeground string `toml:"line-number-foreground"`
	SyntaxKeyword        string `toml:"syntax-keyword"`
	SyntaxString         string `toml:"syntax-string"`
	SyntaxComment        string `toml:"syntax-comment"`
	SyntaxNumber         string `toml:"syntax-number"`
}

type EditorOptions struct {
	TabWidth    int  `toml:"tab-width"`
	LineNumbers bool `toml:"line-numbers"`
}

type Config struct {
	Annotate Annotate      `toml:"annotate"`
	Editor   EditorOptions `toml:"editor"`
	Theme    Theme         `toml:"theme"`
}

func Default() Config {
	return Config{
		Annotate: Annotate{
			Mode:                   "cursor-near-line",
			CursorNearRange:        5,
			Coloring:               "semi-hashed",
			Spacing:                "auto",
			IncludedFilePatterns:   []string{"**/*.py", "**/*.pyi", "**/*.ipynb", "python"},
			CustomPalette:          nil,
			UseBoldTerms:           true,
			EquationPrefixPatterns: append([]string(nil), equation.DefaultPrefixPatterns...),
		},
		Editor: EditorOptions{
			TabWidth:    4,
			LineNumbers: true,
		},
		Theme: Theme{
			Kind:                 "dark",
			Foreground:           "#B3B1AD",
			Background:           "#0A0E14",
			StatuslineForeground: "#B3B1AD",
			StatuslineBackground: "#0F1419",
			LineNumberForeground: "#3E4B59",
			SyntaxKeyword:        "#FFA759",
			SyntaxString:         "#BAE67E",
			SyntaxComment:        "#5C6773",
			SyntaxNumber:         "#D4BFFF",
		},
	}
}

// Load reads config.toml over the defaults. Keys missing from the file keep
// their default values; a named theme fills the [theme] keys the user did not
// set explicitly.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), err
	}
	if cfg.Editor.TabWidth < 1 {
		cfg.Editor.TabWidth = Default().Editor.TabWidth
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme, md)
	}
	return cfg, nil
}

// mergeTheme copies non-empty theme file values into dst unless the user set
// the same key in config.toml.
func mergeTheme(dst *Theme, src Theme, md toml.MetaData) {
	fields := []struct {
		key string
		dst *string
		src string
	}{
		{"kind", &dst.Kind, src.Kind},
		{"foreground", &dst.Foreground, src.Foreground},
		{"background", &dst.Background, src.Background},
		{"statusline-foreground", &dst.StatuslineForeground, src.StatuslineForeground},
		{"statusline-background", &dst.StatuslineBackground, src.StatuslineBackground},
		{"line-number-foreground", &dst.LineNumberForeground, src.LineNumberForeground},
		{"syntax-keyword", &dst.SyntaxKeyword, src.SyntaxKeyword},
		{"syntax-string", &dst.SyntaxString, src.SyntaxString},
		{"syntax-comment", &dst.SyntaxComment, src.SyntaxComment},
		{"syntax-number", &dst.SyntaxNumber, src.SyntaxNumber},
	}
	for _, f := range fields {
		if f.src == "" || md.IsDefined("theme", f.key) {
			continue
		}
		*f.dst = f.src
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. The file may hold the keys at the top
// level or under a [theme] table.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	md, err := toml.Decode(string(data), &wrap)
	if err != nil {
		return Theme{}, err
	}
	if md.IsDefined("theme") {
		return wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("EINVIEW_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "einview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "einview"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
