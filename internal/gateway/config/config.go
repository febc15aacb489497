package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMemory    = "memory"
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"
)

type Config struct {
	Port   string
	Env    string
	Log    LogConfig
	Store  StoreConfig
	Auth   AuthConfig
	Gemini GeminiConfig
	Vapi   VapiConfig
	Cover  CoverConfig
	Cache  CacheConfig
	CORS   CORSConfig
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type StoreConfig struct {
	Backend     string
	DatabaseURL string
	MaxConns    int32
}

type AuthConfig struct {
	FirebaseProjectID string
	CredentialsFile   string
}

type GeminiConfig struct {
	APIKey string
	Model  string
	RPS    float64
	Burst  int
}

type VapiConfig struct {
	WebToken   string
	WorkflowID string
}

type CoverConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// SeedDir, when set, holds cover images uploaded at startup.
	SeedDir string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type CacheConfig struct {
	InterviewSize int
	InterviewTTL  time.Duration
}

// Production reports whether cookies must be marked Secure.
func (c *Config) Production() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// CanUseS3 reports whether enough object storage settings are present.
func (c CoverConfig) CanUseS3() bool {
	return c.Enabled &&
		strings.TrimSpace(c.Endpoint) != "" &&
		strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.Bucket) != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	v := newViper()
	if envPort := strings.TrimSpace(v.GetString("port")); envPort != "" {
		*port = envPort
	}
	return FromViper(v, *port)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper, port string) (*Config, error) {
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	env := strings.TrimSpace(v.GetString("app_env"))
	if env == "" {
		env = "local"
	}

	cfg := &Config{
		Port: port,
		Env:  env,
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Pretty: v.GetBool("log_pretty"),
		},
		Store: StoreConfig{
			Backend:     resolveBackend(v),
			DatabaseURL: strings.TrimSpace(v.GetString("database_url")),
			MaxConns:    v.GetInt32("pg_max_conns"),
		},
		Auth: AuthConfig{
			FirebaseProjectID: strings.TrimSpace(v.GetString("firebase_project_id")),
			CredentialsFile:   strings.TrimSpace(v.GetString("firebase_credentials_file")),
		},
		Gemini: GeminiConfig{
			APIKey: firstNonEmpty(v.GetString("gemini_api_key"), v.GetString("google_generative_ai_api_key")),
			Model:  v.GetString("gemini_model"),
			RPS:    v.GetFloat64("gemini_rps"),
			Burst:  v.GetInt("gemini_burst"),
		},
		Vapi: VapiConfig{
			WebToken:   firstNonEmpty(v.GetString("next_public_vapi_web_token"), v.GetString("vapi_web_token")),
			WorkflowID: firstNonEmpty(v.GetString("vapi_workflow_id"), v.GetString("next_public_vapi_workflow_id")),
		},
		Cover: loadCoverConfig(v, env),
		Cache: CacheConfig{
			InterviewSize: v.GetInt("interview_cache_size"),
			InterviewTTL:  v.GetDuration("interview_cache_ttl"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for _, key := range []string{
		"port", "app_env", "log_level", "log_pretty",
		"store_backend", "database_url", "pg_max_conns",
		"firebase_project_id", "firebase_credentials_file",
		"gemini_api_key", "google_generative_ai_api_key", "gemini_model", "gemini_rps", "gemini_burst",
		"next_public_vapi_web_token", "vapi_web_token", "vapi_workflow_id", "next_public_vapi_workflow_id",
		"cover_s3_endpoint", "cover_s3_region", "cover_s3_access_key", "cover_s3_secret_key",
		"cover_s3_bucket", "cover_s3_use_ssl", "cover_minio_endpoint", "cover_seed_dir",
		"interview_cache_size", "interview_cache_ttl", "cors_allowed_origins",
	} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}
	SetDefaults(v)
	return v
}

// SetDefaults registers the fallback value of every tunable key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "INFO")
	v.SetDefault("pg_max_conns", 10)
	v.SetDefault("gemini_model", "gemini-2.0-flash-001")
	v.SetDefault("gemini_burst", 1)
	v.SetDefault("cover_s3_region", "us-east-1")
	v.SetDefault("cover_s3_bucket", "prepwise-covers")
	v.SetDefault("interview_cache_size", 512)
	v.SetDefault("interview_cache_ttl", 10*time.Minute)
	v.SetDefault("cors_allowed_origins", "http://localhost:3000")
}

func resolveBackend(v *viper.Viper) string {
	backend := strings.ToLower(strings.TrimSpace(v.GetString("store_backend")))
	if backend != "" {
		return backend
	}
	if strings.TrimSpace(v.GetString("database_url")) != "" {
		return StorePostgres
	}
	return StoreMemory
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreMemory:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case StoreFirestore:
		if c.Auth.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
