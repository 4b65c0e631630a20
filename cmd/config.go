package cmd

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DB      DBConfig
	Redis   RedisConfig
	Staging StagingConfig
	VNPay   VNPayConfig
	MoMo    MoMoConfig
	Auth    AuthConfig
}

type DBConfig struct {
	Host         string        `envconfig:"DB_HOST" default:"localhost"`
	Port         string        `envconfig:"DB_PORT" default:"5432"`
	User         string        `envconfig:"DB_USER" default:"postgres"`
	Password     string        `envconfig:"DB_PASSWORD"`
	Name         string        `envconfig:"DB_NAME" default:"orderflow"`
	SSLMode      string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLife  time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

// RedisConfig switches staging and notifications to Redis when Enabled.
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type StagingConfig struct {
	TTL           time.Duration `envconfig:"STAGING_TTL" default:"15m"`
	SweepSchedule string        `envconfig:"STAGING_SWEEP_SCHEDULE" default:"0 * * * * *"`
}

type VNPayConfig struct {
	TmnCode    string `envconfig:"VNPAY_TMN_CODE" required:"true"`
	HashSecret string `envconfig:"VNPAY_HASH_SECRET" required:"true"`
	PayURL     string `envconfig:"VNPAY_PAY_URL" default:"https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"`
	ReturnURL  string `envconfig:"VNPAY_RETURN_URL" default:"http://localhost:8080/api/v1/payments/vnpay/return"`
	Version    string `envconfig:"VNPAY_VERSION" default:"2.1.0"`
	Locale     string `envconfig:"VNPAY_LOCALE" default:"vn"`
}

type MoMoConfig struct {
	Endpoint  string `envconfig:"MOMO_ENDPOINT"`
	ReturnURL string `envconfig:"MOMO_RETURN_URL" default:"http://localhost:8080/api/v1/payments/momo/return"`
	Simulate  bool   `envconfig:"MOMO_SIMULATE" default:"true"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// LoadDBConfig reads only the database settings, for tools that do not serve traffic.
func LoadDBConfig(envFiles ...string) (DBConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	_ = godotenv.Load(envFiles...)

	var cfg DBConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return DBConfig{}, fmt.Errorf("load db config: %w", err)
	}
	return cfg, nil
}
