package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/robfig/cron/v3"
)

type HTTPConfig struct {
	Address string        `yaml:"address" env:"API_ADDRESS" env-default:":8080"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"5s"`
}

type GRPCConfig struct {
	Address string `yaml:"address" env:"GRPC_ADDRESS" env-default:":9090"`
}

type AuthConfig struct {
	SigningKey string        `yaml:"signing_key" env:"JWT_SECRET"`
	AccessTTL  time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL" env-default:"30m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL" env-default:"24h"`
}

// MailConfig configures status notifications; an empty From only logs them.
type MailConfig struct {
	From     string `yaml:"from" env:"MAIL_FROM"`
	Host     string `yaml:"smtp_host" env:"SMTP_HOST"`
	Port     int    `yaml:"smtp_port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"smtp_user" env:"SMTP_USER"`
	Password string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
}

type SchedulerConfig struct {
	HealthSpec string `yaml:"health_spec" env:"HEALTH_SPEC" env-default:"@every 30s"`
	PurgeSpec  string `yaml:"purge_spec" env:"PURGE_SPEC" env-default:"@hourly"`
}

type Config struct {
	LogLevel  string          `yaml:"log_level" env:"LOG_LEVEL" env-default:"DEBUG"`
	HTTP      HTTPConfig      `yaml:"api_server"`
	GRPC      GRPCConfig      `yaml:"grpc_server"`
	DBAddress string          `yaml:"db_address" env:"DB_ADDRESS" env-required:"true"`
	Auth      AuthConfig      `yaml:"auth"`
	Mail      MailConfig      `yaml:"mail"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// Load reads configPath, falling back to the environment when the path is empty or
// the file does not exist, and validates the result.
func Load(configPath string) (Config, error) {
	var cfg Config

	// если путь пустой - просто env
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
		return cfg, cfg.Validate()
	}

	// пробуем файл, если его нет - env
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("cannot read config %q: %w", configPath, err)
		}
		cfg = Config{}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
	}

	return cfg, cfg.Validate()
}

func MustLoad(configPath string) Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%s", err)
	}
	return cfg
}

func (c Config) Validate() error {
	var errs []error

	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("api_server.timeout must be positive"))
	}
	if c.Auth.SigningKey == "" {
		errs = append(errs, errors.New("auth.signing_key is required"))
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		errs = append(errs, errors.New("auth token ttls must be positive"))
	} else if c.Auth.RefreshTTL < c.Auth.AccessTTL {
		errs = append(errs, errors.New("auth.refresh_ttl must not be shorter than auth.access_ttl"))
	}
	if c.Mail.From != "" && c.Mail.Host == "" {
		errs = append(errs, errors.New("mail.smtp_host is required when mail.from is set"))
	}
	for name, spec := range map[string]string{
		"scheduler.health_spec": c.Scheduler.HealthSpec,
		"scheduler.purge_spec":  c.Scheduler.PurgeSpec,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}
