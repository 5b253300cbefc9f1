// Package config loads the optional rainbowsmoke configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/rainbowsmoke/config.toml
// (see [DefaultPath]). Every key is optional; command-line flags override
// whatever the file sets.
//
//	[paint]
//	width = 512
//	height = 256
//	seed = 7
//	strategy = "indexed"
//	progress_interval = 2000
//	output_dir = "out"
//
//	[serve]
//	addr = ":8000"
//	redis_addr = "localhost:6379"
//	redis_prefix = "rainbowsmoke:"
//	frame_ttl = "30m"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
)

// Config is the decoded configuration file.
type Config struct {
	Paint Paint `toml:"paint"`
	Serve Serve `toml:"serve"`
}

// Paint holds defaults for the paint command. Zero values mean "use the
// built-in default".
type Paint struct {
	Width            int    `toml:"width"`
	Height           int    `toml:"height"`
	Seed             uint64 `toml:"seed"`
	Strategy         string `toml:"strategy"`
	ProgressInterval int    `toml:"progress_interval"`
	OutputDir        string `toml:"output_dir"`
}

// Serve holds defaults for the preview server.
type Serve struct {
	Addr        string   `toml:"addr"`
	RedisAddr   string   `toml:"redis_addr"`
	RedisPrefix string   `toml:"redis_prefix"`
	FrameTTL    Duration `toml:"frame_ttl"`
}

// Duration is a time.Duration written as a Go duration string ("30m").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Defaults used when neither the file nor a flag sets a value.
const (
	DefaultOutputDir = "out"
	DefaultAddr      = ":8000"
)

// Default returns the configuration used without a file.
func Default() Config {
	return Config{
		Paint: Paint{OutputDir: DefaultOutputDir},
		Serve: Serve{Addr: DefaultAddr},
	}
}

// DefaultPath returns the configuration file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rainbowsmoke", "config.toml"), nil
}

// Load reads the file at path on top of [Default]. A missing file is not an
// error; a malformed one is INVALID_INPUT.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidPath, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errs.New(errs.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Paint.OutputDir == "" {
		cfg.Paint.OutputDir = DefaultOutputDir
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = DefaultAddr
	}
	return cfg, nil
}
