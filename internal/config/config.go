package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	commoncfg "github.com/gopalbasak1/wind-house-management-server/common/config"

	"github.com/joho/godotenv"
)

// Store backends selectable through STORE_BACKEND.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config windhouse HTTP API 配置
type Config struct {
	HTTP struct {
		Addr        string
		CORSOrigins []string
	}
	// Env is "production" or anything else (development).
	Env string

	StoreBackend string
	Database     commoncfg.DatabaseConfig
	Mongo        commoncfg.MongoConfig

	RedisEnabled bool
	Redis        commoncfg.RedisConfig

	Auth struct {
		Secret   string
		TokenTTL time.Duration
	}

	Payment struct {
		GatewayURL string
		SecretKey  string
		Currency   string
	}

	MQTT struct {
		Enabled bool
		commoncfg.MQTTConfig
		Topic string
	}

	Events struct {
		Stream string
		MaxLen int64
	}

	Log struct {
		Level  string
		Format string
	}
}

// Production reports whether cookies must be Secure/SameSite=None.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":"+getEnv("PORT", "5000"))
	cfg.HTTP.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174"))
	cfg.Env = getEnv("APP_ENV", getEnv("NODE_ENV", "development"))

	cfg.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", StoreMemory))

	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "windhouse"
	cfg.Database.SSLMode = "disable"
	cfg.Database.LoadFromEnv("DB")

	cfg.Mongo.URI = "mongodb://localhost:27017"
	cfg.Mongo.Database = "windHouse"
	cfg.Mongo.LoadFromEnv("MONGO")

	cfg.RedisEnabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Auth.Secret = getEnv("ACCESS_TOKEN_SECRET", "")
	cfg.Auth.TokenTTL = parseDuration(getEnv("TOKEN_TTL", ""), 365*24*time.Hour)

	cfg.Payment.GatewayURL = getEnv("PAYMENT_GATEWAY_URL", "https://api.stripe.com")
	cfg.Payment.SecretKey = getEnv("PAYMENT_SECRET_KEY", "")
	cfg.Payment.Currency = getEnv("PAYMENT_CURRENCY", "usd")

	// MQTT 配置（公告广播，默认禁用）
	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "windhouse-api"
	cfg.MQTT.LoadFromEnv("MQTT")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "windhouse/announcements")

	cfg.Events.Stream = getEnv("EVENTS_STREAM", "windhouse:events")
	cfg.Events.MaxLen = int64(parseInt(getEnv("EVENTS_MAXLEN", "10000"), 10000))

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// parseDuration accepts Go durations ("1h") and a day suffix ("365d").
func parseDuration(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return def
		}
		return time.Duration(n) * 24 * time.Hour
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
