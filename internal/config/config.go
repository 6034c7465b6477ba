package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	Mailer   MailerConfig   `envPrefix:"MAILER_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Search   SearchConfig   `envPrefix:"SEARCH_"`
}

type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:":8080"`
}

type DatabaseConfig struct {
	Hosts    []string `env:"HOSTS" envDefault:"localhost:27017"`
	Database string   `env:"DATABASE" envDefault:"products"`
	Username string   `env:"USERNAME"`
	Password string   `env:"PASSWORD"`
	AuthDB   string   `env:"AUTH_DB" envDefault:"admin"`
	Direct   bool     `env:"DIRECT" envDefault:"false"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"product-events"`
	GroupID string   `env:"GROUP_ID" envDefault:"product-service-notifications"`
}

type MailerConfig struct {
	BaseURL string `env:"BASE_URL"`
	APIKey  string `env:"API_KEY"`
	Sender  string `env:"SENDER" envDefault:"no-reply@product-service.local"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET,required"`
}

type SearchConfig struct {
	// Timezone decides where "start of today" is computed for the
	// delayed due-date filter. IANA name.
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	return cfg
}
