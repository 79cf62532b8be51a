// Package config resolves render settings from flags, environment, .env files and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. PATHTRACER_SAMPLES
const EnvPrefix = "PATHTRACER"

// Configuration keys
const (
	KeyWidth                     = "width"
	KeyHeight                    = "height"
	KeySamples                   = "samples"
	KeyMaxDepth                  = "max_depth"
	KeyOutputPath                = "output_path"
	KeyScene                     = "scene"
	KeySeed                      = "seed"
	KeyWorkers                   = "workers"
	KeyTileSize                  = "tile_size"
	KeyPasses                    = "passes"
	KeyGamma                     = "gamma"
	KeyRussianRouletteMinBounces = "russian_roulette_min_bounces"
	KeyLogLevel                  = "log_level"
	KeyConfigFile                = "config"
)

// ErrInvalidConfig reports a setting outside its accepted range
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved render configuration
type Config struct {
	Width                     int
	Height                    int
	Samples                   int
	MaxDepth                  int
	OutputPath                string
	Scene                     string
	Seed                      uint64
	Workers                   int // 0 uses one worker per CPU
	TileSize                  int
	Passes                    int
	Gamma                     float64
	RussianRouletteMinBounces int
	LogLevel                  string
}

// SceneDefaults are the values a scene suggests for settings nobody configured
type SceneDefaults struct {
	Width                     int
	Height                    int
	Samples                   int
	MaxDepth                  int
	RussianRouletteMinBounces int
}

// flagKeys maps flag names to configuration keys
var flagKeys = map[string]string{
	"width":     KeyWidth,
	"height":    KeyHeight,
	"samples":   KeySamples,
	"max-depth": KeyMaxDepth,
	"output":    KeyOutputPath,
	"scene":     KeyScene,
	"seed":      KeySeed,
	"workers":   KeyWorkers,
	"tile-size": KeyTileSize,
	"passes":    KeyPasses,
	"gamma":     KeyGamma,
	"rr-min":    KeyRussianRouletteMinBounces,
	"log-level": KeyLogLevel,
	"config":    KeyConfigFile,
}

// RegisterFlags adds every render flag to flags. Scene-dependent flags default to 0,
// meaning "use the scene's value".
func RegisterFlags(flags *pflag.FlagSet) {
	flags.IntP("width", "w", 0, "image width in pixels (default: scene width)")
	flags.Int("height", 0, "image height in pixels (default: from scene aspect ratio)")
	flags.IntP("samples", "s", 0, "samples per pixel, 0 renders the background only (default: scene value)")
	flags.Int("max-depth", 0, "maximum ray bounces (default: scene value)")
	flags.StringP("output", "o", "output/render.png", "output image path (.png, .jpg, .bmp, .tiff)")
	flags.String("scene", "default", "built-in scene name")
	flags.Uint64("seed", 42, "random seed")
	flags.IntP("workers", "j", 0, "parallel workers, 0 uses every CPU")
	flags.Int("tile-size", 32, "tile edge length in pixels")
	flags.Int("passes", 1, "progressive passes")
	flags.Float64("gamma", 2.2, "output gamma")
	flags.Int("rr-min", 0, "bounces before Russian roulette, 0 disables it (default: scene value)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.StringP("config", "c", "", "config file (yaml, json or toml)")
}

// Loader layers the configuration sources with precedence
// flags > environment (.env included) > config file > scene defaults > built-in defaults
type Loader struct {
	v *viper.Viper
}

// NewLoader binds flags, loads envFiles (missing files are skipped) and reads the config file
// named by the config key, if any
func NewLoader(flags *pflag.FlagSet, envFiles ...string) (*Loader, error) {
	for _, file := range envFiles {
		// Existing environment variables win over .env entries
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyOutputPath, "output/render.png")
	v.SetDefault(KeyScene, "default")
	v.SetDefault(KeySeed, 42)
	v.SetDefault(KeyTileSize, 32)
	v.SetDefault(KeyPasses, 1)
	v.SetDefault(KeyGamma, 2.2)
	v.SetDefault(KeyLogLevel, "info")

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return &Loader{v: v}, nil
}

// Scene returns the configured scene name
func (l *Loader) Scene() string {
	return l.v.GetString(KeyScene)
}

// Resolve returns the validated configuration, taking scene-dependent settings from
// defaults when no source sets them
func (l *Loader) Resolve(defaults SceneDefaults) (Config, error) {
	intOr := func(key string, fallback int) int {
		if l.v.IsSet(key) {
			return l.v.GetInt(key)
		}
		return fallback
	}

	cfg := Config{
		Width:                     intOr(KeyWidth, defaults.Width),
		Height:                    intOr(KeyHeight, defaults.Height),
		Samples:                   intOr(KeySamples, defaults.Samples),
		MaxDepth:                  intOr(KeyMaxDepth, defaults.MaxDepth),
		RussianRouletteMinBounces: intOr(KeyRussianRouletteMinBounces, defaults.RussianRouletteMinBounces),
		OutputPath:                l.v.GetString(KeyOutputPath),
		Scene:                     l.v.GetString(KeyScene),
		Seed:                      l.v.GetUint64(KeySeed),
		Workers:                   l.v.GetInt(KeyWorkers),
		TileSize:                  l.v.GetInt(KeyTileSize),
		Passes:                    l.v.GetInt(KeyPasses),
		Gamma:                     l.v.GetFloat64(KeyGamma),
		LogLevel:                  l.v.GetString(KeyLogLevel),
	}

	// Only width given: keep the scene aspect ratio
	if l.v.IsSet(KeyWidth) && !l.v.IsSet(KeyHeight) && defaults.Width > 0 {
		cfg.Height = max(1, cfg.Width*defaults.Height/defaults.Width)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting range
func (c Config) Validate() error {
	var problems []string
	if c.Width <= 0 {
		problems = append(problems, fmt.Sprintf("width must be positive, got %d", c.Width))
	}
	if c.Height <= 0 {
		problems = append(problems, fmt.Sprintf("height must be positive, got %d", c.Height))
	}
	if c.Samples < 0 {
		problems = append(problems, fmt.Sprintf("samples must not be negative, got %d", c.Samples))
	}
	if c.MaxDepth < 0 {
		problems = append(problems, fmt.Sprintf("max_depth must not be negative, got %d", c.MaxDepth))
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		problems = append(problems, "output_path must not be empty")
	}
	if !(c.Gamma > 0) {
		problems = append(problems, fmt.Sprintf("gamma must be positive, got %g", c.Gamma))
	}
	if c.Workers < 0 {
		problems = append(problems, fmt.Sprintf("workers must not be negative, got %d", c.Workers))
	}
	if c.TileSize <= 0 {
		problems = append(problems, fmt.Sprintf("tile_size must be positive, got %d", c.TileSize))
	}
	if c.Passes < 1 {
		problems = append(problems, fmt.Sprintf("passes must be at least 1, got %d", c.Passes))
	}
	if c.RussianRouletteMinBounces < 0 {
		problems = append(problems, fmt.Sprintf("russian_roulette_min_bounces must not be negative, got %d", c.RussianRouletteMinBounces))
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel parses LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// AspectRatio returns width over height
func (c Config) AspectRatio() float64 {
	return float64(c.Width) / float64(c.Height)
}
