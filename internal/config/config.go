package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config holds process settings; the engine's own settings live in a JSON
// file (see Settings).
type Config struct {
	Host          string
	Port          int
	AllowOrigins  []string
	LogLevel      string
	MaxUploadMB   int
	LogFile       string
	SettingsFile  string
	MappingsFile  string
	AutomationDir string
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "32"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:          getenv("HOST", "127.0.0.1"),
		Port:          port,
		AllowOrigins:  origins,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		MaxUploadMB:   mb,
		LogFile:       getenv("LOG_FILE", filepath.Join("logs", "catalog-matcher.log")),
		SettingsFile:  getenv("SETTINGS_FILE", "config_motor_busca.json"),
		MappingsFile:  getenv("MAPPINGS_FILE", "mapeamentos_aprendidos.json"),
		AutomationDir: getenv("AUTOMATION_DIR", defaultAutomationDir()),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func defaultAutomationDir() string {
	if runtime.GOOS == "windows" {
		return `C:\AUTOMACAO_COREL`
	}
	return "automacao_corel"
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
