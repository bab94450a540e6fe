package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config contains runtime settings for the MCP server
type Config struct {
	LogLevel string
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 8080
	Neo4j    struct {
		URI         string
		Username    string
		Password    string
		Database    string // empty selects the server default
		MaxPoolSize int    // 0 keeps the driver default
	}
	Recommendation struct {
		Limit      int // default 10
		Neighbours int // default 20
	}
	Sheets struct {
		CredentialsPath string // export disabled when empty
	}
}

// Load populates config from environment variables
func Load() (Config, error) {
	cfg := Config{
		LogLevel: "info",
		Host:     "0.0.0.0",
		Port:     "8080",
	}
	cfg.Recommendation.Limit = 10
	cfg.Recommendation.Neighbours = 20

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("MCP_HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Neo4j.Database = os.Getenv("NEO4J_DATABASE")
	cfg.Sheets.CredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")

	var problems []string

	intVars := []struct {
		name string
		dst  *int
		min  int
	}{
		{"NEO4J_MAX_POOL_SIZE", &cfg.Neo4j.MaxPoolSize, 0},
		{"RECOMMENDATION_LIMIT", &cfg.Recommendation.Limit, 1},
		{"RECOMMENDATION_NEIGHBOURS", &cfg.Recommendation.Neighbours, 1},
	}
	for _, iv := range intVars {
		v := os.Getenv(iv.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < iv.min {
			problems = append(problems, fmt.Sprintf("%s must be an integer >= %d, got %q", iv.name, iv.min, v))
			continue
		}
		*iv.dst = n
	}

	var missingVars []string

	if cfg.Neo4j.URI == "" {
		missingVars = append(missingVars, "NEO4J_URI")
	}

	if cfg.Neo4j.Username == "" {
		missingVars = append(missingVars, "NEO4J_USERNAME")
	}

	if cfg.Neo4j.Password == "" {
		missingVars = append(missingVars, "NEO4J_PASSWORD")
	}

	if len(missingVars) > 0 {
		problems = append([]string{"missing required environment variables: " + strings.Join(missingVars, ", ")}, problems...)
	}

	if len(problems) > 0 {
		return cfg, fmt.Errorf("%s", strings.Join(problems, "; "))
	}

	return cfg, nil
}
