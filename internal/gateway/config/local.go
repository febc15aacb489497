package config

import (
	"strings"

	"github.com/spf13/viper"
)

// loadCoverConfig resolves the cover image bucket. Local runs talk to the
// docker-compose minio without TLS; deployed runs need an explicit endpoint.
func loadCoverConfig(v *viper.Viper, env string) CoverConfig {
	endpoint := resolveCoverEndpoint(v, env)
	return CoverConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    v.GetString("cover_s3_region"),
		AccessKey: strings.TrimSpace(v.GetString("cover_s3_access_key")),
		SecretKey: strings.TrimSpace(v.GetString("cover_s3_secret_key")),
		Bucket:    v.GetString("cover_s3_bucket"),
		UseSSL:    resolveCoverUseSSL(v, env),
		SeedDir:   strings.TrimSpace(v.GetString("cover_seed_dir")),
	}
}

func resolveCoverEndpoint(v *viper.Viper, env string) string {
	if isLocal(env) {
		return strings.TrimSpace(v.GetString("cover_minio_endpoint"))
	}
	return strings.TrimSpace(v.GetString("cover_s3_endpoint"))
}

func resolveCoverUseSSL(v *viper.Viper, env string) bool {
	if isLocal(env) {
		return false
	}
	if !v.IsSet("cover_s3_use_ssl") {
		return true
	}
	return v.GetBool("cover_s3_use_ssl")
}

func isLocal(env string) bool {
	return strings.EqualFold(strings.TrimSpace(env), "local")
}
