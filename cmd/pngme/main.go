package main

import (
	"os"
	"time"

	"github.com/beam-cloud/pngme/pkg/commands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := commands.NewRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("pngme failed")
	}
}
