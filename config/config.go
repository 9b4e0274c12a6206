package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Token identifier schemes. Embedded menaruh nama/telepon customer di dalam
// token string (bisa didecode tanpa query), opaque tidak membawa PII sama
// sekali. Default opaque.
const (
	TokenSchemeOpaque   = "opaque"
	TokenSchemeEmbedded = "embedded"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// TokenScheme membaca skema token dari environment (TOKEN_SCHEME)
func TokenScheme() string {
	if getEnv("TOKEN_SCHEME", TokenSchemeOpaque) == TokenSchemeEmbedded {
		return TokenSchemeEmbedded
	}
	return TokenSchemeOpaque
}

// InitDB membuka koneksi MySQL dari environment variables
func InitDB() (*gorm.DB, error) {
	user := getEnv("DB_USER", "root")
	pass := getEnv("DB_PASSWORD", "")
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "3306")
	name := getEnv("DB_NAME", "servicepos")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
