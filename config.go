package folio

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for the RSS feed
	Author      string `yaml:"author"`      // Author name

	Host string `yaml:"host"` // Bind host (invalid hostnames coerce to "0.0.0.0")
	Port string `yaml:"port"` // Listen port (default "3000")

	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/folio.db")
	DataDir      string `yaml:"data_dir"`      // File-backend directory (default "data")
	PostsBackend string `yaml:"posts_backend"` // "sqlite" (default) or "file"

	AdminPassword string `yaml:"admin_password"` // Required: admin login password
	SessionSecret string `yaml:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	PostCacheTTL time.Duration `yaml:"post_cache_ttl"` // Post cache TTL (default 5min)
}

// LoadConfig reads an optional YAML config file, expanding ${VAR}
// references from the environment after loading any .env file. A
// missing file is not an error: the zero config plus defaults applies.
func LoadConfig(path string) (SiteConfig, error) {
	_ = godotenv.Load()

	var cfg SiteConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			cfg.setDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	cfg.setDefaults()
	return cfg, nil
}

// applyEnv lets environment variables fill fields the file left empty,
// so a bare .env deployment works without a config file.
func (c *SiteConfig) applyEnv() {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	fill(&c.Name, "SITE_NAME")
	fill(&c.URL, "SITE_URL")
	fill(&c.Description, "SITE_DESCRIPTION")
	fill(&c.Author, "SITE_AUTHOR")
	fill(&c.Host, "HOST")
	fill(&c.Port, "PORT")
	fill(&c.DatabasePath, "DATABASE_PATH")
	fill(&c.DataDir, "DATA_DIR")
	fill(&c.PostsBackend, "POSTS_BACKEND")
	fill(&c.AdminPassword, "ADMIN_PASSWORD")
	fill(&c.SessionSecret, "ADMIN_SESSION_SECRET")
	if !c.CookieSecure {
		c.CookieSecure = strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true")
	}
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	} else {
		c.URL = strings.TrimSuffix(c.URL, "/")
	}
	// Deploy environments sometimes export an unresolvable machine name
	// as HOST; fall back to the wildcard bind address rather than fail
	// DNS resolution at listen time.
	if c.Host != "localhost" && net.ParseIP(c.Host) == nil {
		c.Host = "0.0.0.0"
	}
	if c.Port == "" {
		c.Port = "3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.PostsBackend == "" {
		c.PostsBackend = "sqlite"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Addr returns the host:port listen address.
func (c SiteConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
