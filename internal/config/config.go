package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	SiteName          string
	DatabaseDriver    string
	DatabasePath      string
	DatabaseURL       string
	SessionSecret     string
	CookieSecure      bool
	GinMode           string
	LogLevel          string
	LogFormat         string
	SuperRootUserName string
	SuperRootPassword string

	// Object storage. STORAGE_DRIVER selects local, minio or s3.
	StorageDriver     string
	StorageBucket     string
	UploadDir         string
	UploadURLPath     string
	StorageEndpoint   string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageUseSSL     bool
	StoragePublicBase string
	StorageRegion     string

	// AuthoringRollback undoes a partially created post (rows and blobs) when
	// any step of the publish sequence fails.
	AuthoringRollback bool
}

// Load 从 .env 与环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")

	listenAddr := getEnv("LISTEN_ADDR", "")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		SiteName:          getEnv("SITE_NAME", "OutfitCult"),
		DatabaseDriver:    strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabasePath:      getEnv("DATABASE_PATH", "data/outfitcult.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SessionSecret:     getEnv("SESSION_SECRET", "outfitcult-dev-secret"),
		CookieSecure:      getBool("COOKIE_SECURE", false),
		GinMode:           getEnv("GIN_MODE", "release"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		SuperRootUserName: getEnv("SUPER_ROOT_USER_NAME", ""),
		SuperRootPassword: getEnv("SUPER_ROOT_PASSWORD", ""),

		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		StorageBucket:     getEnv("STORAGE_BUCKET", "blog-images"),
		UploadDir:         getEnv("UPLOAD_DIR", "web/static/uploads"),
		UploadURLPath:     getEnv("UPLOAD_URL_PATH", "/static/uploads"),
		StorageEndpoint:   getEnv("STORAGE_ENDPOINT", ""),
		StorageAccessKey:  getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey:  getEnv("STORAGE_SECRET_KEY", ""),
		StorageUseSSL:     getBool("STORAGE_USE_SSL", false),
		StoragePublicBase: getEnv("STORAGE_PUBLIC_BASE", ""),
		StorageRegion:     getEnv("STORAGE_REGION", "us-east-1"),

		AuthoringRollback: getBool("AUTHORING_ROLLBACK", true),
	}
}

// IsRelease reports whether gin runs in release mode.
func (c AppConfig) IsRelease() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
