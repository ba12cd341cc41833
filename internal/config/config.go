package config

import "time"

// Config is the root configuration of lessonctl.
type Config struct {
	Content  ContentConfig  `yaml:"content"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Publish  PublishConfig  `yaml:"publish"`
	Export   ExportConfig   `yaml:"export"`
}

// ContentConfig selects where lesson modules are read from.
type ContentConfig struct {
	// Dir overrides the embedded content with a directory of module_NN.yaml files.
	Dir    string `yaml:"dir"    env:"CONTENT_DIR"`
	Strict bool   `yaml:"strict" env:"CONTENT_STRICT" env-default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings. The DSN is only needed
// by commands that touch the database.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// PublishConfig holds defaults for the publish command.
type PublishConfig struct {
	PruneMissing bool          `yaml:"prune_missing" env:"PUBLISH_PRUNE_MISSING" env-default:"false"`
	DryRun       bool          `yaml:"dry_run"       env:"PUBLISH_DRY_RUN"       env-default:"false"`
	Timeout      time.Duration `yaml:"timeout"       env:"PUBLISH_TIMEOUT"       env-default:"2m"`
}

// ExportConfig holds bundle export settings.
type ExportConfig struct {
	BrotliQuality int `yaml:"brotli_quality" env:"EXPORT_BROTLI_QUALITY" env-default:"9"`
}
