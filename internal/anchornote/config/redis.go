package config

import (
	"fmt"
	"time"
)

// RedisConfig представляет конфигурацию кэша записей реестра.
type RedisConfig struct {
	Host            string        `yaml:"host" env:"ANCHORNOTE_REDIS_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"ANCHORNOTE_REDIS_PORT" env-default:"6379"`
	Password        string        `yaml:"password" env:"ANCHORNOTE_REDIS_PASSWORD" env-default:""`
	DB              int           `yaml:"db" env:"ANCHORNOTE_REDIS_DB" env-default:"0"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"ANCHORNOTE_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"ANCHORNOTE_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"ANCHORNOTE_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize        int           `yaml:"pool_size" env:"ANCHORNOTE_REDIS_POOL_SIZE" env-default:"10"`
	MinIdle         int           `yaml:"min_idle" env:"ANCHORNOTE_REDIS_MIN_IDLE" env-default:"2"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"ANCHORNOTE_REDIS_IDLE_TIMEOUT" env-default:"5m"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"ANCHORNOTE_REDIS_MAX_CONN_LIFETIME" env-default:"1h"`
	DefaultTTL      time.Duration `yaml:"default_ttl" env:"ANCHORNOTE_REDIS_DEFAULT_TTL" env-default:"24h"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
