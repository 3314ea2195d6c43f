package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	Port   string // サーバーポート（5000）
	AppEnv string // development/production

	LogMode string // debug/release
	LogDir  string
	LogFile string

	DB DBConfig

	JWTSecret  string        // JWT署名シークレット
	JWTTTL     time.Duration // アクセストークンの有効期限
	BcryptCost int

	RedisAddr       string // 空ならキャッシュ無効
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration

	KafkaBrokers     []string // 空ならイベント送信しない
	KafkaTopicOrders string

	CORSOrigins []string
}

// DB接続の設定
type DBConfig struct {
	Driver string // postgres/sqlite
	URL    string // DATABASE_URL（あれば最優先）

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SQLitePath string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Loadは.env（あれば）と環境変数から設定を読む
func Load() (Config, error) {
	// .envは無くてもよい
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnvは環境変数だけから設定を組み立てる
func FromEnv() (Config, error) {
	pgPort, err := intEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	maxOpen, err := intEnv("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, err
	}
	maxIdle, err := intEnv("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return Config{}, err
	}
	lifetime, err := durationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	jwtTTL, err := durationEnv("JWT_TTL", time.Hour)
	if err != nil {
		return Config{}, err
	}
	cost, err := intEnv("BCRYPT_COST", 10)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := durationEnv("CATALOG_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:   getenv("PORT", "5000"),
		AppEnv: getenv("APP_ENV", "development"),

		LogMode: getenv("LOG_MODE", "release"),
		LogDir:  os.Getenv("LOG_DIR"),
		LogFile: os.Getenv("LOG_FILE"),

		DB: DBConfig{
			Driver: strings.ToLower(getenv("DB_DRIVER", "postgres")),
			URL:    os.Getenv("DATABASE_URL"),

			PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
			PostgresPort:     pgPort,
			PostgresUser:     getenv("POSTGRES_USER", "postgres"),
			PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
			PostgresDB:       getenv("POSTGRES_DB", "storefront"),
			PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

			SQLitePath: getenv("SQLITE_PATH", "storefront.db"),

			MaxOpenConns:    maxOpen,
			MaxIdleConns:    maxIdle,
			ConnMaxLifetime: lifetime,
		},

		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTTTL:     jwtTTL,
		BcryptCost: cost,

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		CatalogCacheTTL: cacheTTL,

		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopicOrders: getenv("KAFKA_TOPIC_ORDERS", "order-events"),

		CORSOrigins: splitList(getenv("CORS_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 必須チェック
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	switch c.DB.Driver {
	case "postgres", "postgresql", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite: %q", c.DB.Driver)
	}
	if c.AppEnv != "development" && c.AppEnv != "production" {
		return fmt.Errorf("APP_ENV must be development or production: %q", c.AppEnv)
	}
	return nil
}

// Addrはecho.Startに渡すアドレス
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

// カンマ区切りを分解（空要素は捨てる）
func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
