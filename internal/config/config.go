package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret        string        `mapstructure:"secret"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime"`
}

// MicrosoftConfig configures the OAuth2 provider and the Graph API base.
// Authority and GraphBaseURL are overridable so tests can point the client
// at a local fake.
type MicrosoftConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	TenantID     string   `mapstructure:"tenant_id"`
	Authority    string   `mapstructure:"authority"`
	RedirectURI  string   `mapstructure:"redirect_uri"`
	Scopes       []string `mapstructure:"scopes"`
	GraphBaseURL string   `mapstructure:"graph_base_url"`
}

type OneDriveConfig struct {
	FilePath string `mapstructure:"file_path"`
}

type SessionConfig struct {
	Backend       string `mapstructure:"backend"` // "memory" or "redis"
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Microsoft MicrosoftConfig `mapstructure:"microsoft"`
	OneDrive  OneDriveConfig  `mapstructure:"onedrive"`
	Session   SessionConfig   `mapstructure:"session"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Frontend  struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"frontend"`
}

// Load reads config.yaml (if present) and environment variables prefixed
// with ROUTE_ (e.g. ROUTE_JWT_SECRET, ROUTE_MICROSOFT_CLIENT_ID).
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Failed to read config file: %v", err)
		}
		log.Println("No config.yaml found, using environment and defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to parse configuration: %v", err)
	}

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret (ROUTE_JWT_SECRET) is not set")
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "route_user")
	v.SetDefault("database.name", "route_db")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("jwt.token_lifetime", 7*24*time.Hour)

	v.SetDefault("microsoft.tenant_id", "common")
	v.SetDefault("microsoft.authority", "https://login.microsoftonline.com/common")
	v.SetDefault("microsoft.scopes", []string{"Files.ReadWrite.All", "User.Read", "offline_access"})
	v.SetDefault("microsoft.graph_base_url", "https://graph.microsoft.com/v1.0")

	v.SetDefault("onedrive.file_path", "/RoutePlan/4-Week Route Plan.xlsx")

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.redis_addr", "localhost:6379")

	v.SetDefault("cors.origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("frontend.url", "http://localhost:5173")
}
