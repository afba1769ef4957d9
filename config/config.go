package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type (
	APP struct {
		Name       string
		Host       string
		Port       string
		Env        string
		JWTSecret  string
		SessionTTL time.Duration
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
		Migrate  bool
	}
	Redis struct {
		Addr      string
		Password  string
		DB        int
		KeyPrefix string
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}
	Auth struct {
		AdminUserID   string
		AdminUsername string
		AdminPassword string

		Argon2Memory      uint32
		Argon2Iterations  uint32
		Argon2Parallelism uint8

		MaxPageSize int
	}

	Config struct {
		App   APP
		DB    DB
		Redis Redis
		MQ    MQ
		Auth  Auth
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return def
	}
	return d
}

func Load() Config {
	app := APP{
		Name:       getEnv("SERVICE_NAME", "useraccountapi"),
		Host:       getEnv("SERVICE_HOST", ""),
		Port:       getEnv("SERVICE_PORT", "8080"),
		Env:        getEnv("SERVICE_ENV", ""),
		JWTSecret:  getEnv("SERVICE_JWT_SECRET", ""),
		SessionTTL: getEnvDuration("SERVICE_SESSION_TTL", 8*time.Hour),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
		Migrate:  getEnvBool("POSTGRES_MIGRATE", true),
	}
	rds := Redis{
		Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
		Password:  getEnv("REDIS_PASSWORD", ""),
		DB:        getEnvInt("REDIS_DB", 0),
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "useraccount:revoked"),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "user.lifecycle"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "user.lifecycle.audit"),
	}
	auth := Auth{
		AdminUserID:       strings.ToLower(strings.TrimSpace(getEnv("ADMIN_USER_ID", "admin@demo.com"))),
		AdminUsername:     getEnv("ADMIN_USERNAME", "Administrator"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "Admin@123"),
		Argon2Memory:      uint32(getEnvInt("ARGON2_MEMORY_KB", 64*1024)),
		Argon2Iterations:  uint32(getEnvInt("ARGON2_ITERATIONS", 3)),
		Argon2Parallelism: uint8(getEnvInt("ARGON2_PARALLELISM", 4)),
		MaxPageSize:       getEnvInt("USERS_MAX_PAGE_SIZE", 100),
	}

	return Config{
		App:   app,
		DB:    db,
		Redis: rds,
		MQ:    mq,
		Auth:  auth,
	}
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		url.QueryEscape(c.DB.User),
		url.QueryEscape(c.DB.Password),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
