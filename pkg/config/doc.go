// Package config loads environment-based configuration structs.
//
// Configuration is declared as plain structs with `env` tags and loaded
// with Load or MustLoad. A .env file in the working directory is read
// once per process before the first parse, so local development does not
// need exported variables.
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
