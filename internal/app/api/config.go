package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-dog-registry/internal/shared/pagination"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	Environment       string
	LogLevel          string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	DefaultPageSize   int

	OTLPEndpoint string
	OTLPInsecure bool

	Keycloak KeycloakConfig
	JWT      JWTConfig
}

// KeycloakConfig locates the realm and the admin client. An empty BaseURL
// selects the in-process identity gateway.
type KeycloakConfig struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
}

func (k KeycloakConfig) Enabled() bool {
	return k.BaseURL != ""
}

// JWTConfig verifies bearer tokens. Without PublicKey the realm key is fetched from Keycloak.
type JWTConfig struct {
	PublicKey string
	Issuer    string
}

// LoadConfig reads an optional .env file, then environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom is LoadConfig with explicit env files. Missing files are ignored;
// variables already set in the environment win.
func LoadConfigFrom(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		Environment:       envDefault("ENVIRONMENT", "local"),
		LogLevel:          envDefault("LOG_LEVEL", "info"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		DefaultPageSize:   pagination.DefaultSize,
		OTLPEndpoint:      strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:      os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "0",
		Keycloak: KeycloakConfig{
			BaseURL:      strings.TrimRight(strings.TrimSpace(os.Getenv("KEYCLOAK_BASE_URL")), "/"),
			Realm:        envDefault("KEYCLOAK_REALM", "dog-registry"),
			ClientID:     strings.TrimSpace(os.Getenv("KEYCLOAK_CLIENT_ID")),
			ClientSecret: os.Getenv("KEYCLOAK_CLIENT_SECRET"),
		},
		JWT: JWTConfig{
			PublicKey: strings.TrimSpace(os.Getenv("JWT_PUBLIC_KEY")),
			Issuer:    strings.TrimSpace(os.Getenv("JWT_ISSUER")),
		},
	}
	if raw := strings.TrimSpace(os.Getenv("DEFAULT_PAGE_SIZE")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 || size > pagination.MaxSize {
			return Config{}, fmt.Errorf("DEFAULT_PAGE_SIZE must be an integer between 1 and %d", pagination.MaxSize)
		}
		cfg.DefaultPageSize = size
	}
	if cfg.Keycloak.Enabled() && cfg.Keycloak.ClientID == "" {
		return Config{}, errors.New("KEYCLOAK_CLIENT_ID is required when KEYCLOAK_BASE_URL is set")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
