package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Parser      ParserConfig    `mapstructure:"parser"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Storage     StorageConfig   `mapstructure:"storage"`
	KB          KBConfig        `mapstructure:"kb"`
	Shopping    ShoppingConfig  `mapstructure:"shopping"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// 解析器模式
const (
	ParserModeRule   = "rule"
	ParserModeRemote = "remote"
)

// ParserConfig 解析器設定，啟動時選定一次
type ParserConfig struct {
	Mode   string       `mapstructure:"mode"`
	Remote RemoteConfig `mapstructure:"remote"`
}

// RemoteConfig 遠端（OpenRouter 相容）解析服務設定
type RemoteConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CallDelay time.Duration `mapstructure:"call_delay"`
}

// 快取後端
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// 儲存驅動
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// StorageConfig 儲存設定
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// KBConfig 知識庫設定
type KBConfig struct {
	SeedOnStart bool `mapstructure:"seed_on_start"`
}

// ShoppingConfig 購物清單設定
type ShoppingConfig struct {
	// RangeBound 範圍數量寫入清單時取 lower、upper 或 midpoint
	RangeBound string `mapstructure:"range_bound"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定：預設值 → .env（可省略）→ APP_ 環境變數
func LoadConfig() (*Config, error) {
	// 加載 .env 文件，不存在時略過
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	v.BindEnv("parser.mode", "PARSER_MODE")
	v.BindEnv("parser.remote.api_key", "OPENROUTER_API_KEY")
	v.BindEnv("parser.remote.model", "OPENROUTER_MODEL")
	v.BindEnv("parser.remote.max_tokens", "MODEL_MAX_TOKENS")
	v.BindEnv("parser.remote.call_delay", "PARSER_CALL_DELAY")
	v.BindEnv("cache.enabled", "CACHE_ENABLED")
	v.BindEnv("cache.backend", "CACHE_BACKEND")
	v.BindEnv("cache.redis_addr", "REDIS_ADDR")
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.dsn", "DATABASE_URL")
	v.BindEnv("shopping.range_bound", "RANGE_BOUND")
	v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("dedup_window", "DEDUP_WINDOW")
	v.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration",
		"parser_mode:", v.GetString("parser.mode"),
		"openrouter_api_key:", maskAPIKey(v.GetString("parser.remote.api_key")),
		"storage_driver:", v.GetString("storage.driver"),
	)

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "ingredient-engine")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 10<<20) // 10MB

	// 解析器設定
	v.SetDefault("parser.mode", ParserModeRule)
	v.SetDefault("parser.remote.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("parser.remote.model", "qwen/qwen2.5-72b-instruct:free")
	v.SetDefault("parser.remote.max_tokens", 300)
	v.SetDefault("parser.remote.timeout", "30s")
	v.SetDefault("parser.remote.call_delay", "1s")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// 儲存設定
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.dsn", "")

	// 知識庫設定
	v.SetDefault("kb.seed_on_start", true)

	// 購物清單設定
	v.SetDefault("shopping.range_bound", "lower")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.Parser.Mode {
	case ParserModeRule:
	case ParserModeRemote:
		if config.Parser.Remote.APIKey == "" {
			return fmt.Errorf("parser.remote.api_key is required in remote mode")
		}
		if config.Parser.Remote.CallDelay < 0 {
			return fmt.Errorf("invalid parser call delay")
		}
	default:
		return fmt.Errorf("unknown parser mode %q", config.Parser.Mode)
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case CacheBackendMemory:
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case CacheBackendRedis:
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("cache.redis_addr is required for redis backend")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	switch config.Storage.Driver {
	case StorageMemory:
	case StoragePostgres, StorageSQLite:
		if config.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for %s", config.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	switch config.Shopping.RangeBound {
	case "lower", "upper", "midpoint":
	default:
		return fmt.Errorf("invalid shopping.range_bound %q", config.Shopping.RangeBound)
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}
