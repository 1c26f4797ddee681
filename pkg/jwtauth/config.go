package jwtauth

import "time"

type Config struct {
	Secret   string        `env:"JWT_SIGNING_KEY,required"`
	Issuer   string        `env:"JWT_ISSUER"`
	TokenTTL time.Duration `env:"JWT_TTL" envDefault:"1h"`
	Leeway   time.Duration `env:"JWT_LEEWAY" envDefault:"30s"`
}
