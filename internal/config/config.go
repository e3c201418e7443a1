package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSecretKey is only suitable for local development.
const DefaultSecretKey = "dev-insecure-secret-key"

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path  string
		Reset bool
	}
	Auth struct {
		SecretKey string
	}
	Session struct {
		TTL           time.Duration
		RememberTTL   time.Duration
		CookieName    string
		SecureCookie  bool
		RedisAddr     string
		RedisPassword string
		RedisDB       int
	}
	News struct {
		APIKey  string
		BaseURL string
		Country string
	}
	Storage struct {
		Bucket        string
		KeyPrefix     string
		Region        string
		Endpoint      string
		PublicBaseURL string
	}
	AWS struct {
		Profile string
	}
	Seed struct {
		Enabled  bool
		Username string
		Email    string
		Password string
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("NEWSDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/news.db")
	v.SetDefault("database.reset", false)
	v.SetDefault("auth.secretkey", DefaultSecretKey)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.rememberttl", 365*24*time.Hour)
	v.SetDefault("session.cookiename", "newsdesk_session")
	v.SetDefault("session.securecookie", false)
	v.SetDefault("session.redisaddr", "")
	v.SetDefault("session.redispassword", "")
	v.SetDefault("session.redisdb", 0)
	v.SetDefault("news.apikey", "")
	v.SetDefault("news.baseurl", "https://newsapi.org/v2/top-headlines")
	v.SetDefault("news.country", "us")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "articles")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.username", "test")
	v.SetDefault("seed.email", "test@example.com")
	v.SetDefault("seed.password", "test123")
	v.SetDefault("log.level", "info")

	// plain names used by existing deployments
	_ = v.BindEnv("auth.secretkey", "NEWSDESK_AUTH_SECRETKEY", "SECRET_KEY")
	_ = v.BindEnv("news.apikey", "NEWSDESK_NEWS_APIKEY", "NEWS_API_KEY")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
