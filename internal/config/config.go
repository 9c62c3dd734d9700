package config

import (
	"fmt"
	"net"
	"os"
	"strings"
)

// Config zawiera konfigurację aplikacji wczytaną ze zmiennych środowiskowych
type Config struct {
	Port         string
	DatabaseURL  string
	JWTSecret    string
	AllowedHosts []string // Pusta lista = brak ograniczeń
}

// Load wczytuje konfigurację ze zmiennych środowiskowych.
// Zmienne DATABASE_URL i JWT_SECRET są wymagane.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        os.Getenv("PORT"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("zmienna DATABASE_URL nie jest ustawiona")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("zmienna JWT_SECRET nie jest ustawiona")
	}

	// ALLOWED_HOSTS to lista hostów rozdzielona przecinkami
	if hosts := os.Getenv("ALLOWED_HOSTS"); hosts != "" {
		for _, h := range strings.Split(hosts, ",") {
			h = strings.TrimSpace(h)
			if h != "" {
				cfg.AllowedHosts = append(cfg.AllowedHosts, h)
			}
		}
	}

	return cfg, nil
}

// HostAllowed sprawdza czy host żądania znajduje się na liście dozwolonych
func (c *Config) HostAllowed(host string) bool {
	if len(c.AllowedHosts) == 0 {
		return true
	}

	// Odetnij port jeśli występuje; host bez portu zostaje bez zmian
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	for _, allowed := range c.AllowedHosts {
		if allowed == "*" || strings.EqualFold(allowed, host) {
			return true
		}
	}
	return false
}
