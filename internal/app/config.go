package app

import (
	"time"

	"github.com/daftaros/daftar-backend/internal/platform/envutil"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
	"github.com/daftaros/daftar-backend/internal/services"
)

type Config struct {
	Auth services.AuthConfig
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.String("JWT_SECRET_KEY", "defaultsecret")
	accessTokenTTLSeconds := envutil.Int("ACCESS_TOKEN_TTL", 3600)
	refreshTokenTTLSeconds := envutil.Int("REFRESH_TOKEN_TTL", 86400)
	if jwtSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set, using default")
	}
	return Config{
		Auth: services.AuthConfig{
			JWTSecretKey:    jwtSecretKey,
			AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
			RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		},
	}
}
