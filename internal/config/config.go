package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
)

// ErrConfig는 읽을 수 없거나 잘못된 설정 파일 에러다.
var ErrConfig = errors.New("invalid configuration")

// RootEnvVar는 workon_home보다 우선한다.
const RootEnvVar = "WORKON_HOME"

// Config는 vew 설정 파일의 최상위 구조체다.
type Config struct {
	Version     int      `toml:"version"`
	WorkonHome  string   `toml:"workon_home"`
	Builder     string   `toml:"builder"`
	BuilderArgs []string `toml:"builder_args"`
	Activation  string   `toml:"activation"`
	LogLevel    string   `toml:"log_level"`
}

// DefaultPath는 $XDG_CONFIG_HOME/vew/config.toml 경로를 반환한다.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "vew", "config.toml")
}

// Default는 설정 파일이 없을 때 사용하는 기본 설정을 반환한다.
func Default() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// Load는 config.toml을 파싱하여 Config를 반환한다. 파일이 없으면 Default()를 반환한다.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config.Load: %w: %v", ErrConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save는 Config를 TOML로 저장한다 (0600).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	return nil
}

// Root는 환경 루트를 결정한다. 환경변수 WORKON_HOME이 workon_home보다 우선하며
// 결과는 정규화된다.
func (c *Config) Root(env func(string) (string, bool)) (string, error) {
	root := c.WorkonHome
	if v, ok := env(RootEnvVar); ok && v != "" {
		root = v
	}
	return NormalizeRoot(root)
}

// NormalizeRoot는 ~와 $VARS를 확장하고 절대 경로로 만든다.
func NormalizeRoot(path string) (string, error) {
	expanded, err := homedir.Expand(os.ExpandEnv(path))
	if err != nil {
		return "", fmt.Errorf("config.NormalizeRoot: %w: %v", ErrConfig, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("config.NormalizeRoot: %w", err)
	}
	return abs, nil
}

func (c *Config) applyDefaults() {
	if c.WorkonHome == "" {
		c.WorkonHome = "~/.virtualenvs"
	}
	if c.Builder == "" {
		c.Builder = "virtualenv"
	}
	if c.Activation == "" {
		c.Activation = "builtin"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

func (c *Config) validate() error {
	switch c.Activation {
	case "builtin", "script":
	default:
		return fmt.Errorf("config.Load: %w: activation must be \"builtin\" or \"script\", got %q", ErrConfig, c.Activation)
	}
	return nil
}
