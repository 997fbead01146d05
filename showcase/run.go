package showcase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-drift/loom/pkg/config"
	"github.com/go-drift/loom/pkg/elm"
	"github.com/go-drift/loom/pkg/platform"
	"github.com/go-drift/loom/pkg/term"
)

// Run opens the terminal and runs the App until the user quits.
func Run(ctx context.Context, cfg *config.Resolved, log zerolog.Logger) (Exit, error) {
	backend, err := term.Open(term.Options{Mouse: cfg.Mouse, Logger: log})
	if err != nil {
		return Exit{}, err
	}
	defer backend.Close()

	rt := platform.NewRuntime(backend, platform.WithLogger(log))
	defer rt.Close()

	log.Info().Str("app", cfg.AppName).Dur("tick", cfg.Tick).Msg("starting")
	exit, err := elm.Run(ctx, rt, NewApp, Params{
		Runtime: rt,
		Canvas:  backend.Canvas(),
		Title:   cfg.AppName,
		Tick:    cfg.Tick,
	})
	if err != nil {
		return Exit{}, err
	}
	log.Info().Int("count", exit.Count).Str("reason", exit.Reason).Msg("finished")
	return exit, nil
}
