package config

import (
	"fmt"
	"os"
	"strings"

	"taxreturn/internal/calc"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the process settings read from the environment.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	AllowedOrigins []string
	LogLevel       string
	// TaxParamsFile optionally overrides the compiled tax parameters.
	TaxParamsFile string
}

// Load reads envFile when present, then the environment. A missing env file is not an error.
func Load(envFile string) (Config, bool) {
	loaded := godotenv.Load(envFile) == nil

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		TaxParamsFile:  os.Getenv("TAX_PARAMS_FILE"),
	}
	cfg.DatabaseURL = databaseURL()
	return cfg, loaded
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return "postgres://" + getEnv("DB_USER", "postgres") + ":" + getEnv("DB_PASSWORD", "postgres") +
		"@" + getEnv("DB_HOST", "localhost") + ":" + getEnv("DB_PORT", "5432") +
		"/" + getEnv("DB_NAME", "postgres") + "?sslmode=" + getEnv("DB_SSLMODE", "disable")
}

// TaxParams returns the compiled parameters merged with the optional parameter file.
func (c Config) TaxParams() (calc.Params, error) {
	if c.TaxParamsFile == "" {
		return calc.DefaultParams(), nil
	}
	return LoadTaxParams(c.TaxParamsFile)
}

// LoadTaxParams reads a YAML parameter file and merges it over the compiled defaults.
func LoadTaxParams(path string) (calc.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return calc.Params{}, fmt.Errorf("failed to read tax params: %w", err)
	}
	return ParseTaxParams(data)
}

func ParseTaxParams(data []byte) (calc.Params, error) {
	var f calc.ParamsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return calc.Params{}, fmt.Errorf("failed to parse tax params: %w", err)
	}
	p, err := f.Merge(calc.DefaultParams())
	if err != nil {
		return calc.Params{}, fmt.Errorf("invalid tax params: %w", err)
	}
	return p, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
