package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/booklend/lending-service/pkg/kafka"
	"github.com/booklend/lending-service/pkg/logger"
	"github.com/booklend/lending-service/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LENDING_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LENDING_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

type CatalogHTTPServer struct {
	Host string `envconfig:"CATALOG_HTTP_HOST" default:"localhost"`
	Port string `envconfig:"CATALOG_HTTP_PORT" default:"8060"`
}

type DirectoryHTTPServer struct {
	Host string `envconfig:"DIRECTORY_HTTP_HOST" default:"localhost"`
	Port string `envconfig:"DIRECTORY_HTTP_PORT" default:"8070"`
}

// Lending carries the borrow policy; tests may narrow the bounds all
// the way down without touching the engine.
type Lending struct {
	MinDays       int     `envconfig:"LENDING_MIN_DAYS" default:"7"`
	MaxDays       int     `envconfig:"LENDING_MAX_DAYS" default:"90"`
	DefaultDays   int     `envconfig:"LENDING_DEFAULT_DAYS" default:"14"`
	LateFeePerDay float64 `envconfig:"LENDING_LATE_FEE_PER_DAY" default:"2.00"`
	LateFeeCap    float64 `envconfig:"LENDING_LATE_FEE_CAP" default:"25.00"`
}

type Config struct {
	Server    HTTPServer   `yaml:"server"`
	Database  postgres.DB  `yaml:"db"`
	Kafka     kafka.Config `yaml:"kafka"`
	Lending   Lending      `yaml:"lending"`
	Catalog   CatalogHTTPServer
	Directory DirectoryHTTPServer
	Log       logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
