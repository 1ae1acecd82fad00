// Package spotlight parses spotlight service flags and launches the service.
package spotlight

import (
	"context"
	"flag"

	entrypoint "github.com/Tienisto/pub-dev/internal/platform/cmd"
	server "github.com/Tienisto/pub-dev/internal/services/spotlight/app"
)

// Config holds spotlight command configuration.
type Config struct {
	Port int `env:"PUB_DEV_SPOTLIGHT_PORT" envDefault:"8090"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The spotlight HTTP server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the spotlight HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSpotlight, func(context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}
