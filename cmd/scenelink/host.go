package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/scenelink/scenelink/internal/assets"
	"github.com/scenelink/scenelink/internal/config"
	"github.com/scenelink/scenelink/internal/dispatch"
	"github.com/scenelink/scenelink/internal/handlers"
	"github.com/scenelink/scenelink/internal/hostserver"
	"github.com/scenelink/scenelink/internal/mainloop"
	"github.com/scenelink/scenelink/internal/paths"
	"github.com/scenelink/scenelink/internal/scene"
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Run the reference scene host",
	Long: `host runs a standalone scene host: a TCP command server in front of an
in-memory scene document. All scene mutations execute on a single main
loop, mirroring how embedded DCC hosts schedule work on their UI thread.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger := newLogger()
		flags := config.NewFlagStore(cfg.Integrations)
		doc := scene.NewDocument("Scene")
		assetClient := assets.NewClient(logger, assets.WithCacheDir(paths.CacheDir()))

		registry := dispatch.NewRegistry(flags)
		handlers.New(doc, flags, assetClient, logger).Register(registry)

		loop := mainloop.New()
		srv := hostserver.New(cfg.HostAddr(), registry, loop, logger)
		if err := srv.Start(); err != nil {
			return err
		}
		logger.Info("scene host listening", "addr", srv.Addr())

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			loop.Run(ctx)
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			srv.Stop()
			return nil
		})
		return g.Wait()
	},
}
