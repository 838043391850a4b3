// Package config loads taskflow settings from a TOML file and TASKFLOW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"taskflow/internal/geom"
)

const (
	EnvPrefix  = "TASKFLOW"
	EnvConfig  = "TASKFLOW_CONFIG"
	configName = "config.toml"
)

type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Geometry GeometryConfig `mapstructure:"geometry"`
	UI       UIConfig       `mapstructure:"ui"`
	Log      LogConfig      `mapstructure:"log"`
	Backup   BackupConfig   `mapstructure:"backup"`

	// File is the config file that was read, empty when running on defaults.
	File string `mapstructure:"-"`
}

type StorageConfig struct {
	Backend     string        `mapstructure:"backend"`
	Path        string        `mapstructure:"path"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

// GeometryConfig holds the nominal pixel layout used by gesture replay and the grid presenter.
type GeometryConfig struct {
	HeaderHeight   float64 `mapstructure:"header_height"`
	CardPitch      float64 `mapstructure:"card_pitch"`
	ListPitch      float64 `mapstructure:"list_pitch"`
	ListWidth      float64 `mapstructure:"list_width"`
	ClickThreshold float64 `mapstructure:"click_threshold"`
	MeasuredCards  bool    `mapstructure:"measured_cards"`
}

// UIConfig is the terminal board. Sizes are in cells.
type UIConfig struct {
	HeaderRows     int    `mapstructure:"header_rows"`
	CardRows       int    `mapstructure:"card_rows"`
	ListWidth      int    `mapstructure:"list_width"`
	ListGap        int    `mapstructure:"list_gap"`
	ClickThreshold int    `mapstructure:"click_threshold"`
	AltScreen      bool   `mapstructure:"alt_screen"`
	Color          string `mapstructure:"color"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
	File  string `mapstructure:"file"`
}

type BackupConfig struct {
	Dir     string `mapstructure:"dir"`
	Keep    int    `mapstructure:"keep"`
	OnStart bool   `mapstructure:"on_start"`
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return h
	}
	return os.Getenv("HOME")
}

func defaultDataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "taskflow")
	}
	return filepath.Join(homeDir(), ".local", "share", "taskflow")
}

// DefaultPath is where the config file lives when neither --config nor TASKFLOW_CONFIG is set.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".config", "taskflow", configName)
}

func setDefaults(v *viper.Viper) {
	data := defaultDataDir()
	m := geom.DefaultMetrics()

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", filepath.Join(data, "board_data.json"))
	v.SetDefault("storage.lock_timeout", "5s")

	v.SetDefault("geometry.header_height", m.HeaderHeight)
	v.SetDefault("geometry.card_pitch", m.CardPitch)
	v.SetDefault("geometry.list_pitch", m.ListPitch)
	v.SetDefault("geometry.list_width", m.ListWidth)
	v.SetDefault("geometry.click_threshold", m.ClickThreshold)
	v.SetDefault("geometry.measured_cards", false)

	v.SetDefault("ui.header_rows", 3)
	v.SetDefault("ui.card_rows", 4)
	v.SetDefault("ui.list_width", 28)
	v.SetDefault("ui.list_gap", 2)
	v.SetDefault("ui.click_threshold", 1)
	v.SetDefault("ui.alt_screen", true)
	v.SetDefault("ui.color", "auto")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")

	v.SetDefault("backup.dir", filepath.Join(data, "backups"))
	v.SetDefault("backup.keep", 10)
	v.SetDefault("backup.on_start", false)
}

// Load reads configuration. path wins over TASKFLOW_CONFIG, which wins over DefaultPath. A missing
// default file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	explicit := strings.TrimSpace(path)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(EnvConfig))
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.File = v.ConfigFileUsed()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "file", "sqlite":
	default:
		return fmt.Errorf("config: storage.backend must be file or sqlite, got %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("config: storage.path is empty")
	}
	g := c.Geometry
	if g.CardPitch <= 0 || g.ListPitch <= 0 || g.ListWidth <= 0 || g.HeaderHeight < 0 || g.ClickThreshold < 0 {
		return fmt.Errorf("config: geometry values must be positive")
	}
	u := c.UI
	if u.CardRows <= 0 || u.ListWidth <= 0 || u.HeaderRows < 0 || u.ListGap < 0 || u.ClickThreshold < 0 {
		return fmt.Errorf("config: ui sizes must be positive")
	}
	switch strings.ToLower(c.UI.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: ui.color must be auto, always or never, got %q", c.UI.Color)
	}
	return nil
}

// Metrics is the pixel layout the drag engine resolves against.
func (c Config) Metrics() geom.Metrics {
	g := c.Geometry
	return geom.Metrics{
		HeaderHeight:   g.HeaderHeight,
		CardPitch:      g.CardPitch,
		ListPitch:      g.ListPitch,
		ListWidth:      g.ListWidth,
		ClickThreshold: g.ClickThreshold,
		MeasuredCards:  g.MeasuredCards,
	}
}

// CellMetrics is the same layout expressed in terminal cells. Cards are a fixed number of rows
// there, so measured mode does not apply.
func (c Config) CellMetrics() geom.Metrics {
	u := c.UI
	return geom.Metrics{
		HeaderHeight:   float64(u.HeaderRows),
		CardPitch:      float64(u.CardRows),
		ListPitch:      float64(u.ListWidth + u.ListGap),
		ListWidth:      float64(u.ListWidth),
		ClickThreshold: float64(u.ClickThreshold),
	}
}
