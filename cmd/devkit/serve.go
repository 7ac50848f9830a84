package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/devkit/internal/catalog"
	"github.com/danmuck/devkit/internal/config"
	"github.com/danmuck/devkit/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool registry over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServeConfig(configPath, addr)
			if err != nil {
				return err
			}
			reg, err := catalog.NewRegistry(cfg.Tools)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg, reg)
			log.Info().
				Str("name", cfg.Name).
				Str("addr", cfg.Addr).
				Int("tools", reg.Len()).
				Msg("devkit server started")
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config path (defaults built in)")
	cmd.Flags().StringVar(&addr, "addr", "", "override the listen address")
	return cmd
}

func loadServeConfig(path, addr string) (config.ServerConfig, error) {
	cfg := config.DefaultServerConfig()
	if strings.TrimSpace(path) != "" {
		loaded, err := config.LoadServerConfig(path)
		if err != nil {
			return config.ServerConfig{}, err
		}
		cfg = loaded
		log.Info().Str("path", path).Msg("loaded server config")
	}
	if addr = strings.TrimSpace(addr); addr != "" {
		cfg.Addr = addr
		if err := config.ValidateServerConfig(cfg); err != nil {
			return config.ServerConfig{}, err
		}
	}
	return cfg, nil
}
