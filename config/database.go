package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"autograder"`
	Password string `env:"PASSWORD"                envDefault:"autograder"`
	Name     string `env:"NAME"                    envDefault:"autograder"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig points at the Redis instance that holds login sessions.
// URI is host:port or a redis:// (rediss:// for TLS) URL. Credentials and the database
// number in a URL take precedence over Password and DB.
type RedisConfig struct {
	URI         string        `env:"URI"          envDefault:"localhost:6379"`
	Password    string        `env:"PASSWORD"     envDefault:""`
	DB          int           `env:"DB"           envDefault:"0"`
	PoolSize    int           `env:"POOL_SIZE"    envDefault:"10"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
}
