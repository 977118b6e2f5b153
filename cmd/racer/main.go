package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"racer/internal/config"
	"racer/internal/game"
	"racer/internal/headless"
	"racer/internal/logging"
	"racer/internal/results"
	"racer/internal/track"
	"racer/internal/trackmap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := config.Flags("racer")
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	s, err := config.Load(fs)
	if err != nil {
		boot := logging.New(stderr, nil, "info")
		boot.Error().Err(err).Msg("load config")
		return 1
	}

	var logFile io.Writer
	if s.LogFile != "" {
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logFile = f
	}
	var sinks []io.Writer
	if s.Graylog != "" {
		w, err := logging.Graylog(s.Graylog)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
		sinks = append(sinks, w)
	}
	log := logging.New(stderr, logFile, s.LogLevel, sinks...)
	if s.ConfigFile != "" {
		log.Debug().Str("path", s.ConfigFile).Msg("config file loaded")
	}

	t, err := s.BuildTrack()
	if err != nil {
		log.Error().Err(err).Msg("build track")
		return 1
	}
	log.Info().
		Str("circuit", s.Circuit).
		Int("segments", t.Segments()).
		Float64("length_m", t.Length()).
		Float64("surface_m2", t.SurfaceArea()).
		Msg("track built")

	switch {
	case s.MapPath != "":
		return writeMap(s, t, log)
	case s.Headless:
		return raceHeadless(s, t, stdout, log)
	}
	game.RunDesktop(s, t, log)
	return 0
}

func writeMap(s config.Settings, t *track.Track, log zerolog.Logger) int {
	opts := trackmap.DefaultOptions()
	opts.Scenery = track.PlaceScenery(t, s.Seed, game.TreeCount, game.TreeSpread, game.TreeClearance)
	start := t.StartPosition()
	opts.Car = &start
	if err := trackmap.SavePNG(s.MapPath, t, opts); err != nil {
		log.Error().Err(err).Msg("write track map")
		return 1
	}
	log.Info().Str("path", s.MapPath).Msg("track map written")
	return 0
}

func raceHeadless(s config.Settings, t *track.Track, stdout io.Writer, log zerolog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := headless.DefaultOptions()
	opts.Vehicle = s.VehicleParams()
	opts.Race = s.RaceConfig()
	opts.Seed = s.Seed

	res, err := headless.Run(ctx, t, opts, logging.Component(log, "race"))
	switch {
	case errors.Is(err, headless.ErrDidNotFinish):
		results.Table(stdout, res)
		log.Warn().Msg("did not finish")
		return 3
	case err != nil:
		log.Error().Err(err).Msg("headless race")
		return 1
	}
	results.Table(stdout, res)
	return 0
}
