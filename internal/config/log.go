package config

// LogConfig configures the application logger.  An empty FilePath logs to
// stdout; otherwise output rotates through lumberjack with the given limits.
type LogConfig struct {
    Debug      bool
    FilePath   string
    MaxSizeMB  int
    MaxAgeDays int
    MaxBackups int
    Compress   bool
}

func LoadLogConfig() LogConfig {
    return LogConfig{
        Debug:      envBool("DEBUG", false),
        FilePath:   envStr("LOG_FILE_PATH", ""),
        MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 500),
        MaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 30),
        MaxBackups: envInt("LOG_MAX_BACKUPS", 3),
        Compress:   envBool("LOG_COMPRESS", true),
    }
}
