package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name      string `koanf:"name"`
		Port      int    `koanf:"port"`
		LogLevel  string `koanf:"log_level"`
		LogFile   string `koanf:"log_file"`
		StaticDir string `koanf:"static_dir"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Stripe struct {
		SecretKey      string `koanf:"secret_key"`
		PublishableKey string `koanf:"publishable_key"`
	} `koanf:"stripe"`

	Prodigi struct {
		APIKey        string `koanf:"api_key"`
		APIBase       string `koanf:"api_base"`
		WebhookSecret string `koanf:"webhook_secret"`
	} `koanf:"prodigi"`

	// Optional durable order store. Empty addr keeps orders in process memory.
	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env overlay (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix ARTIQ_, nested with __)
	// e.g. ARTIQ_STRIPE__SECRET_KEY, ARTIQ_PRODIGI__API_KEY, ARTIQ_APP__PORT
	if err := k.Load(env.Provider("ARTIQ_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "ARTIQ_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks only what the server cannot start without. Provider
// credentials stay optional: the API answers 503 on the affected routes
// instead of refusing to boot.
func (c Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app.port must be a valid TCP port")
	}
	if c.App.StaticDir == "" {
		return fmt.Errorf("app.static_dir required")
	}
	return nil
}
