package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/devkit/internal/config"
	"github.com/danmuck/devkit/internal/observability"
)

const defaultPath = "devkit.toml"

func main() {
	observability.InitLogger("configgen")

	kind := flag.String("kind", "server", "config kind: server")
	output := flag.String("output", defaultPath, "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", defaultPath, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if err := run(*kind, *output, *input, *validate, *force); err != nil {
		log.Error().Err(err).Msg("configgen failed")
		os.Exit(1)
	}
}

func run(kind, output, input string, validate, force bool) error {
	if _, err := config.Template(kind); err != nil {
		return err
	}
	if validate {
		cfg, err := config.LoadServerConfig(input)
		if err != nil {
			return err
		}
		log.Info().
			Str("path", input).
			Str("name", cfg.Name).
			Str("addr", cfg.Addr).
			Strs("tools", cfg.Tools).
			Msg("validated config")
		return nil
	}

	if err := config.WriteTemplate(output, kind, force); err != nil {
		return err
	}
	log.Info().Str("kind", kind).Str("path", output).Msg("wrote config template")
	return nil
}
