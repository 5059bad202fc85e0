// Command sweeper marks elapsed approved bookings as no-shows. It is meant to
// run from cron (or any external scheduler) as a one-shot process.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/makerlabhq/lab-booking-backend/internal/booking"
	"github.com/makerlabhq/lab-booking-backend/internal/config"
	"github.com/makerlabhq/lab-booking-backend/internal/db"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer pool.Close()

	repo := booking.NewPgxRepository(pool)
	n, err := repo.MarkNoShows(ctx, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("no-show sweep failed")
	}

	log.Info().Int64("marked", n).Msg("no-show sweep complete")
}
