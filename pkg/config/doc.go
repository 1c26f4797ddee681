// Package config fills configuration structs from the environment using
// caarlos0/env field tags, after loading optional .env files with godotenv.
//
//	type AppConfig struct {
//		DB pg.Config
//		HTTP httpserver.Config
//	}
//
//	cfg, err := config.Load[AppConfig](config.WithEnvFiles(".env"))
//
// Variables already present in the process environment win over .env values.
package config
