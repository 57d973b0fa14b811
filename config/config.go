package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	postgres_wrapper "github.com/joripage/limitbook/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/limitbook/pkg/infra/redis"
	"github.com/joripage/limitbook/pkg/marketdata"
)

type NatsConfig struct {
	URL     string `yaml:"url"`
	Stream  string `yaml:"stream"`
	Subject string `yaml:"subject"`
	Durable string `yaml:"durable"`
}

type IntakeConfig struct {
	NumShards int `yaml:"num_shards"`
	QueueSize int `yaml:"queue_size"`
}

type ExchangeConfig struct {
	DepthLevels     int `yaml:"depth_levels"`
	DepthTTLSeconds int `yaml:"depth_ttl_seconds"`
}

type AppConfig struct {
	ServiceName string                           `yaml:"service_name"`
	JournalDB   *postgres_wrapper.PostgresConfig `yaml:"journal_db"`
	Redis       *redis_wrapper.RedisConfig       `yaml:"redis"`
	Feed        *marketdata.FeedConfig           `yaml:"feed"`
	Nats        *NatsConfig                      `yaml:"nats"`
	Intake      *IntakeConfig                    `yaml:"intake"`
	Exchange    *ExchangeConfig                  `yaml:"exchange"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
