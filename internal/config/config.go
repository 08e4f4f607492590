package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `default:"8080"`
	DBDSN    string `envconfig:"DB_DSN" default:"techmart.db"`
	RedisURL string `envconfig:"REDIS_URL"` // empty: carts live in sqlite
	LogLevel string `split_words:"true" default:"info"`
	// PaymentFailRate is the simulated decline probability in [0,1).
	PaymentFailRate float64 `split_words:"true" default:"0.1"`
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("[config] %v", err)
	}
	log.Printf("[config] PORT=%s DB_DSN=%s REDIS_URL=%s LOG_LEVEL=%s",
		cfg.Port, cfg.DBDSN, cfg.RedisURL, cfg.LogLevel)
	return cfg
}
