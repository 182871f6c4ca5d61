package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable read from the environment at startup.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGO_DB" default:"propfinder"`

	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"168h"`

	MailjetAPIKey    string `envconfig:"MAILJET_API_KEY"`
	MailjetSecretKey string `envconfig:"MAILJET_SECRET_KEY"`
	MailFrom         string `envconfig:"MAIL_FROM" default:"no-reply@propfinder.io"`
	AdminEmail       string `envconfig:"ADMIN_EMAIL"`

	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	MinioBucket    string `envconfig:"MINIO_BUCKET" default:"property-images"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`

	SeedAdminName     string `envconfig:"SEED_ADMIN_NAME" default:"Administrator"`
	SeedAdminPhone    string `envconfig:"SEED_ADMIN_PHONE"`
	SeedAdminEmail    string `envconfig:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `envconfig:"SEED_ADMIN_PASSWORD"`
}

// Load reads the configuration from the environment and normalizes the
// MongoDB URI so it always carries a database name.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env config: %w", err)
	}
	cfg.MongoURI = NormalizeMongoURI(cfg.MongoURI, cfg.MongoDatabase)
	return cfg, nil
}

// NormalizeMongoURI appends the database name to a connection string whose
// path segment is empty. URIs that already name a database pass through
// unchanged, as do any query options.
func NormalizeMongoURI(uri, database string) string {
	rest := uri
	prefix := ""
	if i := strings.Index(uri, "://"); i >= 0 {
		prefix = uri[:i+3]
		rest = uri[i+3:]
	}

	query := ""
	if i := strings.Index(rest, "?"); i >= 0 {
		rest, query = rest[:i], rest[i:]
	}

	if i := strings.Index(rest, "/"); i >= 0 && i < len(rest)-1 {
		return uri
	}
	rest = strings.TrimSuffix(rest, "/")

	return prefix + rest + "/" + database + query
}
