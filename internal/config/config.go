// config реализует конфигурацию signals-service и клиента signalsctl:
// загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы авторитетного хранилища.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	API      APIConfig     `yaml:"api"`
	HTTP     HTTPConfig    `yaml:"http"`
	DB       DBConfig      `yaml:"db"`
	Redis    RedisConfig   `yaml:"redis"`
	Signals  SignalsConfig `yaml:"signals"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// APIConfig — публичный JSON API (реакции, предупреждения).
type APIConfig struct {
	Host     string `yaml:"host"      env:"API_HOST"      env-default:"0.0.0.0"`
	Port     string `yaml:"port"      env:"API_PORT"      env-default:"8080"`
	BasePath string `yaml:"base_path" env:"API_BASE_PATH" env-default:"/api"`
}

// HTTPConfig — служебный HTTP (health/metrics).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8081"`
}

// Addr возвращает адрес в формате host:port.
func (a APIConfig) Addr() string {
	return net.JoinHostPort(a.Host, a.Port)
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig — выбор и подключение авторитетного хранилища.
type DBConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER"    env-default:"mongo"`
	URL    string `yaml:"url"    env:"DATABASE_URL"`
}

// RedisConfig — кэш предупреждений. Пустой URL отключает кэш.
type RedisConfig struct {
	URL    string        `yaml:"url"    env:"REDIS_URL"`
	TTL    time.Duration `yaml:"ttl"    env:"REDIS_TTL"    env-default:"10m"`
	Prefix string        `yaml:"prefix" env:"REDIS_PREFIX" env-default:"signals:cw:"`
}

// SignalsConfig — параметры агрегации сигналов.
type SignalsConfig struct {
	// Порог голосов, при достижении которого предупреждение активируется. Параметр развёртывания.
	ActivationThreshold int `yaml:"activation_threshold" env:"ACTIVATION_THRESHOLD" env-default:"3"`
	// Запрет на создание предупреждения сразу активным (модераторский обход порога).
	DenyPreactivated bool `yaml:"deny_preactivated" env:"DENY_PREACTIVATED"`
	// Не проверять посты и имена пользователей через справочник хранилища.
	SkipIdentityResolution bool `yaml:"skip_identity_resolution" env:"SKIP_IDENTITY_RESOLUTION"`
}

// ResolveIdentities — проверять ли посты и имена через справочник хранилища.
// Справочник драйвера memory ничем не заполняется, поэтому для него проверка выключена всегда.
func (c *Config) ResolveIdentities() bool {
	return !c.Signals.SkipIdentityResolution && c.DB.Driver != DriverMemory
}

// TimeoutConfig — сервисные таймауты.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service"  env:"SERVICE_TIMEOUT"  env-default:"5s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию сервиса по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := load(path, &cfg, cfg.validate); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// load — общий порядок поиска источников для любых конфигураций.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func load(path string, cfg any, validate func() error) error {
	// чтение файла + overlay ENV.
	tryRead := func(p string) error {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, cfg); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(cfg); err != nil {
			return fmt.Errorf("failed to overlay env: %w", err)
		}

		return nil
	}

	// 1) Явный путь.
	if path != "" {
		if err := tryRead(path); err != nil {
			return err
		}

		return validate()
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		if err := tryRead(envPath); err != nil {
			return err
		}

		return validate()
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := tryRead("local.yaml"); err != nil {
			return fmt.Errorf("failed to read local.yaml: %w", err)
		}

		return validate()
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := validate(); err != nil {
		return fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverMongo, DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("db.url is required for driver %q", c.DB.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("db.driver must be one of mongo, postgres, memory")
	}

	if c.Signals.ActivationThreshold < 1 {
		return fmt.Errorf("signals.activation_threshold must be >= 1")
	}

	if c.Redis.URL != "" && c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be > 0")
	}

	if c.Timeouts.Service <= 0 {
		return fmt.Errorf("timeouts.service must be > 0")
	}

	return nil
}

// ClientConfig — конфигурация signalsctl.
type ClientConfig struct {
	Env    string       `yaml:"env" env:"ENV" env-default:"local"`
	Server ServerConfig `yaml:"server"`
	Sync   SyncConfig   `yaml:"sync"`
}

// ServerConfig — адрес API signals-service и идентичность вызывающего.
type ServerConfig struct {
	URL    string `yaml:"url"     env:"SIGNALS_URL"     env-default:"http://localhost:8080/api"`
	UserID string `yaml:"user_id" env:"SIGNALS_USER_ID"`
}

// SyncConfig — параметры обновления зеркала.
type SyncConfig struct {
	Interval time.Duration `yaml:"interval" env:"SYNC_INTERVAL" env-default:"30s"`
	Timeout  time.Duration `yaml:"timeout"  env:"SYNC_TIMEOUT"  env-default:"5s"`
	// Фильтр по автору постов; пусто — все посты.
	Author string `yaml:"author" env:"SYNC_AUTHOR"`
}

// LoadClient загружает конфигурацию клиента с тем же приоритетом, что и Load.
func LoadClient(path string) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := load(path, &cfg, cfg.validate); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *ClientConfig) validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.url must be an absolute URL")
	}

	if c.Sync.Interval < time.Second {
		return fmt.Errorf("sync.interval must be at least 1s")
	}

	if c.Sync.Timeout <= 0 {
		return fmt.Errorf("sync.timeout must be > 0")
	}

	return nil
}
