package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port           string
	DBDSN          string
	LogFile        string
	TemplatesDir   string
	AdminUser      string
	AdminPassword  string
	PageSize       int
	ImportMaxBytes int
	CookieSecure   bool
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "stocktrack.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./stocktrack.log"
	}
	templates := os.Getenv("TEMPLATES_DIR")
	if templates == "" {
		templates = "./web/templates"
	}
	adminUser := os.Getenv("ADMIN_USER")
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPass := os.Getenv("ADMIN_PASSWORD")
	if adminPass == "" {
		adminPass = "Passw0rd!"
	}

	cfg := Config{
		Port:           port,
		DBDSN:          dsn,
		LogFile:        logFile,
		TemplatesDir:   templates,
		AdminUser:      adminUser,
		AdminPassword:  adminPass,
		PageSize:       envInt("PAGE_SIZE", 5),
		ImportMaxBytes: envInt("IMPORT_MAX_BYTES", 5<<20),
		CookieSecure:   os.Getenv("COOKIE_SECURE") == "true",
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TEMPLATES_DIR=%s PAGE_SIZE=%d IMPORT_MAX_BYTES=%d",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.TemplatesDir, cfg.PageSize, cfg.ImportMaxBytes)
	return cfg
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] ignoring invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
