package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// LoadEnvFile loads a .env file from the working directory if one exists.
// Missing files are not an error; explicit environment always wins.
func LoadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("LR_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("LR_DEBUG") == "true"
}

func GetListen() string {
	return os.Getenv("LR_LISTEN")
}

func GetPort() string {
	port := os.Getenv("LR_PORT")
	if port == "" {
		port = "4000"
	}
	return port
}

// GetSecret returns the cookie-signing secret. Empty means the server
// generates a random one at startup, which invalidates sessions on restart.
func GetSecret() string {
	return os.Getenv("LR_SECRET")
}

// GetRedisAddr returns the external redis address. Empty means an embedded
// redis is started instead.
func GetRedisAddr() string {
	return os.Getenv("LR_REDIS_ADDR")
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("LR_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("LR_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}

// GetWebOrigin returns the browser client origin allowed for CORS.
func GetWebOrigin() string {
	origin := os.Getenv("LR_WEB_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}
	return origin
}

func GetSMTPAddr() string {
	return os.Getenv("LR_SMTP_ADDR")
}

func GetSMTPUser() string {
	return os.Getenv("LR_SMTP_USER")
}

func GetSMTPPassword() string {
	return os.Getenv("LR_SMTP_PASSWORD")
}

func GetSMTPFrom() string {
	from := os.Getenv("LR_SMTP_FROM")
	if from == "" {
		from = "noreply@localhost"
	}
	return from
}
