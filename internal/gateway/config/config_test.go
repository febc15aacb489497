package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(values map[string]any) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(newTestViper(nil), "8081")
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.False(t, cfg.Production())
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, "gemini-2.0-flash-001", cfg.Gemini.Model)
	assert.Equal(t, 512, cfg.Cache.InterviewSize)
	assert.Equal(t, 10*time.Minute, cfg.Cache.InterviewTTL)
	assert.False(t, cfg.Cover.CanUseS3())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestAllowedOriginsSplitsList(t *testing.T) {
	cfg, err := FromViper(newTestViper(map[string]any{
		"cors_allowed_origins": "https://app.example.test, ,https://admin.example.test",
	}), ":1")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.test", "https://admin.example.test"}, cfg.CORS.AllowedOrigins)
}

func TestFromViperPicksPostgresWhenDatabaseURLSet(t *testing.T) {
	cfg, err := FromViper(newTestViper(map[string]any{
		"database_url": "postgres://u:p@localhost:5432/db",
	}), ":9000")
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store.Backend)
}

func TestFromViperRejectsFirestoreWithoutProject(t *testing.T) {
	_, err := FromViper(newTestViper(map[string]any{"store_backend": "firestore"}), ":1")
	require.Error(t, err)
}

func TestFromViperRejectsUnknownBackend(t *testing.T) {
	_, err := FromViper(newTestViper(map[string]any{"store_backend": "mongo"}), ":1")
	require.Error(t, err)
}

func TestVapiTokenPrefersPublicName(t *testing.T) {
	cfg, err := FromViper(newTestViper(map[string]any{
		"next_public_vapi_web_token": "pub",
		"vapi_web_token":             "other",
		"app_env":                    "production",
	}), ":1")
	require.NoError(t, err)
	assert.Equal(t, "pub", cfg.Vapi.WebToken)
	assert.True(t, cfg.Production())
}

func TestCoverConfigDeployedDefaultsToSSL(t *testing.T) {
	cfg, err := FromViper(newTestViper(map[string]any{
		"app_env":             "production",
		"cover_s3_endpoint":   "s3.example.com",
		"cover_s3_access_key": "ak",
		"cover_s3_secret_key": "sk",
		"cover_seed_dir":      " ./public ",
	}), ":1")
	require.NoError(t, err)
	assert.True(t, cfg.Cover.UseSSL)
	assert.True(t, cfg.Cover.CanUseS3())
	assert.Equal(t, "prepwise-covers", cfg.Cover.Bucket)
	assert.Equal(t, "./public", cfg.Cover.SeedDir)
}
