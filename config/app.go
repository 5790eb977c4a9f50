package config

import "time"

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	JWTTTLHours int    `env:"JWT_TTL_HOURS" default:"24"`
	Env         string `env:"APP_ENV" default:"dev"`

	AdminUsername string `env:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD,required"`

	// LoanMaxDays is the default and maximum loan period.
	LoanMaxDays int `env:"LOAN_MAX_DAYS" default:"15"`

	DBMaxConns     int32         `env:"DB_MAX_CONNS" default:"10"`
	DBMinConns     int32         `env:"DB_MIN_CONNS" default:"0"`
	DBConnLifetime time.Duration `env:"DB_CONN_LIFETIME" default:"1h"`

	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" default:"15s"`
}

func (a App) IsProd() bool { return a.Env == "prod" || a.Env == "production" }
