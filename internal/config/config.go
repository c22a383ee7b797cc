package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDR" env-default:":8080"`
}

type Database struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
	TTLSec   int    `yaml:"ttl_seconds" env-default:"300"`
}

type Engine struct {
	CommandBuffer int      `yaml:"command_buffer" env-default:"1024"`
	Symbols       []string `yaml:"symbols"`
	PriceScale    int32    `yaml:"price_scale" env-default:"2"`
	QtyScale      int32    `yaml:"qty_scale" env-default:"0"`
}

type Config struct {
	Env        string   `yaml:"env" env:"ENV" env-default:"production"`
	Database   Database `yaml:"database"`
	Redis      Redis    `yaml:"redis"`
	Engine     Engine   `yaml:"engine"`
	HTTPServer `yaml:"http_server"`
}

// MustLoad reads the config file named by CONFIG_PATH or the -config flag.
// An empty path yields a config of pure defaults (in-memory adapters).
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "path to config file")
		flag.Parse()
		configPath = *flags
	}

	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("Unable to load config from env: %s", err.Error())
		}
		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Unable to load config: %s", err.Error())
	}
	return &cfg
}
