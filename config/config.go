package config

import (
	"bytes"
	"fmt"
	"github.com/spf13/viper"
	"path"
	"time"
)

// Config for the whole application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	MySQL       MySQLConfig       `mapstructure:"mysql"`
	Memcache    MemcacheConfig    `mapstructure:"memcache"`
	Log         LogConfig         `mapstructure:"log"`
	Jaeger      JaegerConfig      `mapstructure:"jaeger"`
	Reservation ReservationConfig `mapstructure:"reservation"`
	Worker      WorkerConfig      `mapstructure:"worker"`
}

// ReservationConfig for the reservation engine
type ReservationConfig struct {
	// LockTimeout bounds the campaign lock acquisition
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
	// LockTTL must be greater than the longest reservation critical section
	LockTTL      time.Duration `mapstructure:"lock_ttl"`
	LockRetryMin time.Duration `mapstructure:"lock_retry_min"`
	LockRetryMax time.Duration `mapstructure:"lock_retry_max"`

	FundCacheSize       int `mapstructure:"fund_cache_size"`
	FundCacheTTLSeconds int `mapstructure:"fund_cache_ttl_seconds"`
}

// WorkerConfig ...
type WorkerConfig struct {
	FundGaugeCron string `mapstructure:"fund_gauge_cron"`
}

const defaultConfig = `
server:
  grpc:
    host: localhost
    port: 5090
  http:
    host: localhost
    port: 5080

mysql:
  host: localhost
  port: 3306
  database: offer_reserve
  username: root
  password: "1"
  max_open_conns: 20
  max_idle_conns: 5
  options:
    - key: parseTime
      value: "true"
    - key: multiStatements
      value: "true"
    - key: clientFoundRows
      value: "true"

memcache:
  enabled: false
  host: localhost
  port: 11211
  num_conns: 4

log:
  level: info
  development: false

jaeger:
  enabled: false
  url: http://localhost:14268/api/traces

reservation:
  lock_timeout: 3s
  lock_ttl: 10s
  lock_retry_min: 5ms
  lock_retry_max: 100ms
  fund_cache_size: 8388608
  fund_cache_ttl_seconds: 2

worker:
  fund_gauge_cron: "@every 30s"
`

func loadConfigWithDefault(vip *viper.Viper) Config {
	vip.SetConfigType("yaml")

	err := vip.ReadConfig(bytes.NewBufferString(defaultConfig))
	if err != nil {
		panic(err)
	}

	err = vip.MergeInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(err)
		}
		fmt.Println("Config file not found, using default config")
	}

	var cfg Config
	err = vip.Unmarshal(&cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load config from config.yml in the working directory
func Load() Config {
	vip := viper.New()
	vip.SetConfigName("config")
	vip.AddConfigPath(".")
	return loadConfigWithDefault(vip)
}

// LoadTestConfig loads config.test.yml from the root directory of the repo
func LoadTestConfig(rootDir string) Config {
	vip := viper.New()
	vip.SetConfigFile(path.Join(rootDir, "config.test.yml"))
	return loadConfigWithDefault(vip)
}
