package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type EscrowConfig struct {
	Env             string `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	EscrowDB        `yaml:"escrow_db"`
	LogConfig       `yaml:"log_config"`
	LedgerService   `yaml:"ledger-service"`
	IdentityService `yaml:"identity-service"`
	KafkaService    `yaml:"kafka-service"`
	RedisService    `yaml:"redis-service"`
	Background      `yaml:"background"`
	JWT             `yaml:"jwt"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type EscrowDB struct {
	Dsn            string `yaml:"dsn" env:"ESCROW_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type LedgerService struct {
	BaseURL string `yaml:"base_url" env:"LEDGER_BASE_URL"`
	Timeout string `yaml:"timeout" env-default:"5s"`
}

type IdentityService struct {
	BaseURL string `yaml:"base_url" env:"IDENTITY_BASE_URL"`
	Timeout string `yaml:"timeout" env-default:"5s"`
}

type KafkaService struct {
	Host string `yaml:"host" env:"KAFKA_HOST"`
	Port string `yaml:"port" env:"KAFKA_PORT"`
}

type RedisService struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

// Background tunes the sweep loops. Intervals are parsed with
// time.ParseDuration at wiring time.
type Background struct {
	SweepInterval     string `yaml:"sweep_interval" env-default:"15s"`
	SweepBatchSize    int    `yaml:"sweep_batch_size" env-default:"100"`
	RetryInterval     string `yaml:"retry_interval" env-default:"30s"`
	RetryMinIntentAge string `yaml:"retry_min_intent_age" env-default:"1m"`
	ClaimTTL          string `yaml:"claim_ttl" env-default:"30s"`
}

type JWT struct {
	Secret string `yaml:"secret" env:"JWT_SECRET"`
}

func MustLoad() *EscrowConfig {
	configPath := os.Getenv("ESCROW_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("ESCROW_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg EscrowConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
