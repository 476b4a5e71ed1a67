package config // package config loads application configuration from environment variables

import (
    "log/slog" // slog reports configuration problems before the app logger exists
    "os"       // os provides access to environment variables
    "strings"  // strings normalizes driver names

    "github.com/joho/godotenv" // godotenv seeds the environment from a .env file
)

// Supported values for DB_DRIVER.
const (
    DriverMySQL    = "mysql"
    DriverPostgres = "postgres"
    DriverSQLite   = "sqlite"
)

// Config holds the core runtime configuration.  Feature-specific settings
// (cache, rate limiting, auth, events, logging) live in their own structs
// so each middleware or worker can be handed only what it needs.
type Config struct {
    Env         string   // application environment (e.g. "dev", "prod")
    Port        string   // HTTP port to listen on
    DBDriver    string   // mysql | postgres | sqlite
    DBUser      string   // database username
    DBPass      string   // database password (optional)
    DBHost      string   // database host address
    DBPort      string   // database port number
    DBName      string   // database name
    DBSSLMode   string   // postgres sslmode
    SQLitePath  string   // SQLite file path (or a file: memory URI)
    CORSOrigins []string // origins allowed to call the API from a browser
    BodyLimit   string   // maximum accepted request body, echo notation (e.g. "1M")

    Cache     CacheConfig
    RateLimit RateLimitConfig
    Redis     RedisConfig
    Auth      AuthConfig
    Events    EventsConfig
    Log       LogConfig
}

// Load seeds the environment from the .env file (ENV_FILE overrides the
// path) and returns the assembled Config.  Connection settings are required
// for the networked drivers; missing values terminate the process.
func Load() Config {
    loadEnvFile()

    driver := strings.ToLower(envStr("DB_DRIVER", DriverMySQL))
    cfg := Config{
        Env:         envStr("APP_ENV", "dev"),
        Port:        envStr("APP_PORT", "8080"),
        DBDriver:    driver,
        DBPass:      os.Getenv("DB_PASS"),
        DBSSLMode:   envStr("DB_SSLMODE", "disable"),
        SQLitePath:  envStr("SQLITE_PATH", "movielist.db"),
        CORSOrigins: envList("CORS_ALLOW_ORIGINS", []string{"http://localhost:8080"}),
        BodyLimit:   envStr("BODY_LIMIT", "1M"),

        Cache:     LoadCacheConfig(),
        RateLimit: LoadRateLimitConfig(),
        Redis:     LoadRedisConfig(),
        Auth:      LoadAuthConfig(),
        Events:    LoadEventsConfig(),
        Log:       LoadLogConfig(),
    }

    switch driver {
    case DriverMySQL, DriverPostgres:
        cfg.DBUser = must("DB_USER")
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
        cfg.DBName = must("DB_NAME")
    case DriverSQLite:
    default:
        fatal("unsupported DB_DRIVER", "value", driver)
    }
    return cfg
}

// loadEnvFile loads ENV_FILE when set (and fails if it cannot be read) or
// the default .env, whose absence is ignored.  Variables already present in
// the environment win over file values.
func loadEnvFile() {
    if path := os.Getenv("ENV_FILE"); path != "" {
        if err := godotenv.Load(path); err != nil {
            fatal("load env file", "path", path, "error", err)
        }
        return
    }
    _ = godotenv.Load()
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs an error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        fatal("missing required env var", "key", key)
    }
    return v
}

func fatal(msg string, args ...any) {
    slog.Error("config: "+msg, args...)
    os.Exit(1)
}
