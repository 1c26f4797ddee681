package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type options struct {
	files       []string
	prefix      string
	environment map[string]string
}

type Option func(*options)

// WithEnvFiles loads the given .env files first. Missing files are skipped.
func WithEnvFiles(files ...string) Option {
	return func(o *options) {
		o.files = append(o.files, files...)
	}
}

// WithPrefix prepends prefix to every variable name.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithEnvironment parses from vars instead of the process environment.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) {
		o.environment = vars
	}
}

// Load parses a T from the environment.
func Load[T any](opts ...Option) (T, error) {
	var (
		cfg T
		o   options
	)
	for _, opt := range opts {
		opt(&o)
	}

	for _, file := range o.files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, errors.Join(ErrLoadingEnv, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      o.prefix,
		Environment: o.environment,
	}); err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}
