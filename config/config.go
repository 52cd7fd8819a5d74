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

type Config struct {
	Server struct {
		Port           string
		AllowedOrigins []string // 空 = 放行所有来源（CORS 与 /ws 共用）
	}
	Database struct {
		DSN string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	JWT struct {
		Secret string
		TTL    time.Duration
	}
	Table struct {
		Decks        int
		CanDouble    bool
		CanSplit     bool
		CanSurrender bool
	}
	Betting struct {
		Bankroll      float64
		EdgeThreshold float64
	}
	Log struct {
		Level string
	}
}

var C Config

const envPrefix = "SHOEEDGE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.allowedOrigins", []string{})
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.dsn", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("table.decks", 6)
	v.SetDefault("table.canDouble", true)
	v.SetDefault("table.canSplit", true)
	v.SetDefault("table.canSurrender", true)
	v.SetDefault("betting.bankroll", 1000.0)
	v.SetDefault("betting.edgeThreshold", 0.005)
	v.SetDefault("log.level", "info")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default 只含默认值（不读文件与环境变量）
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load 先加载可选的 .env，再读 YAML；SHOEEDGE_* 环境变量覆盖文件。
// path 为空或文件不存在时只用默认值 + 环境变量。
func Load(path string) error {
	_ = godotenv.Load()

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// SetConfigFile 下文件缺失是 *fs.PathError
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	c.Server.AllowedOrigins = NormalizeOrigins(c.Server.AllowedOrigins)
	if err := c.Validate(); err != nil {
		return err
	}
	C = c
	return nil
}

// NormalizeOrigins 统一来源写法：去空白、去末尾 "/"、转小写，丢弃空项。
// CORS 与 /ws 校验共用这一份列表。
func NormalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) Validate() error {
	for _, o := range c.Server.AllowedOrigins {
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("server.allowedOrigins: %q must start with http:// or https://", o)
		}
	}
	if c.Table.Decks < 1 || c.Table.Decks > 8 {
		return fmt.Errorf("table.decks must be 1..8, got %d", c.Table.Decks)
	}
	if c.Betting.Bankroll < 0 {
		return fmt.Errorf("betting.bankroll must not be negative")
	}
	if c.Betting.EdgeThreshold <= 0 {
		return fmt.Errorf("betting.edgeThreshold must be positive")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt.ttl must be positive")
	}
	return nil
}
