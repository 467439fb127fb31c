package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// QuotaConfig controls subscription gating and the cached read path.
// The free-tier defaults apply when a user has no subscription row.
type QuotaConfig struct {
	FreeDailyTestLimit      int    `mapstructure:"free_daily_test_limit"`
	FreeMaxTopicsPerSubject int    `mapstructure:"free_max_topics_per_subject"`
	SubscriptionTTLSeconds  int    `mapstructure:"subscription_ttl_seconds"`
	ReferenceTTLSeconds     int    `mapstructure:"reference_ttl_seconds"`
	MasteryTTLSeconds       int    `mapstructure:"mastery_ttl_seconds"`
	SupplierTimeoutSeconds  int    `mapstructure:"supplier_timeout_seconds"`
	ReadRetries             int    `mapstructure:"read_retries"`
	Timezone                string `mapstructure:"timezone"`
}
