package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "tasklist"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "todo.log"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	NextCategory   string `toml:"next_category"`
	PrevCategory   string `toml:"prev_category"`
	CyclePriority  string `toml:"cycle_priority"`
	CycleSort      string `toml:"cycle_sort"`
	NewCategory    string `toml:"new_category"`
	DeleteCategory string `toml:"delete_category"`
	ClearCompleted string `toml:"clear_completed"`
	Export         string `toml:"export"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	LogPath         string `toml:"log_path"`
	ExportDir       string `toml:"export_dir"`
	DefaultCategory string `toml:"default_category"`
	DefaultPriority string `toml:"default_priority"`
	DefaultSort     string `toml:"default_sort"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath picks $TODO_CONFIG, then the XDG config dir, then
// ~/.config, falling back to the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv("TODO_CONFIG"); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, DefaultConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Relative db, log and export paths resolve
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg.resolve(filepath.Dir(path)), nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c Config) resolve(base string) Config {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.DBPath = abs(c.DBPath)
	c.LogPath = abs(c.LogPath)
	c.ExportDir = abs(c.ExportDir)
	return c
}

func (c *Config) applyDefaults() {
	d := defaultConfig()
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.LogPath == "" {
		c.LogPath = d.LogPath
	}
	if c.ExportDir == "" {
		c.ExportDir = d.ExportDir
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = d.DefaultCategory
	}
	if c.DefaultPriority == "" {
		c.DefaultPriority = d.DefaultPriority
	}
	if c.DefaultSort == "" {
		c.DefaultSort = d.DefaultSort
	}
	k, dk := &c.Keys, d.Keys
	for _, pair := range []struct {
		v   *string
		def string
	}{
		{&k.Quit, dk.Quit},
		{&k.Add, dk.Add},
		{&k.Up, dk.Up},
		{&k.Down, dk.Down},
		{&k.Toggle, dk.Toggle},
		{&k.Delete, dk.Delete},
		{&k.Confirm, dk.Confirm},
		{&k.Cancel, dk.Cancel},
		{&k.NextCategory, dk.NextCategory},
		{&k.PrevCategory, dk.PrevCategory},
		{&k.CyclePriority, dk.CyclePriority},
		{&k.CycleSort, dk.CycleSort},
		{&k.NewCategory, dk.NewCategory},
		{&k.DeleteCategory, dk.DeleteCategory},
		{&k.ClearCompleted, dk.ClearCompleted},
		{&k.Export, dk.Export},
	} {
		if *pair.v == "" {
			*pair.v = pair.def
		}
	}
}

func defaultConfig() Config {
	return Config{
		DBPath:          DefaultDBName,
		LogPath:         DefaultLogName,
		ExportDir:       ".",
		DefaultCategory: "work",
		DefaultPriority: "medium",
		DefaultSort:     "default",
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Confirm:        "enter",
			Cancel:         "esc",
			NextCategory:   "l",
			PrevCategory:   "h",
			CyclePriority:  "p",
			CycleSort:      "s",
			NewCategory:    "n",
			DeleteCategory: "D",
			ClearCompleted: "c",
			Export:         "x",
		},
	}
}
