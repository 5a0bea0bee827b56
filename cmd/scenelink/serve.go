package main

import (
	"github.com/spf13/cobra"

	"github.com/scenelink/scenelink/internal/facade"
	"github.com/scenelink/scenelink/internal/hostclient"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP tools over stdio, relaying commands to the scene host",
	Long: `serve starts an MCP stdio server exposing the scene tool set. Each tool
call is relayed to the scene host as a JSON command over TCP. The host
connection is established lazily on the first call and re-established
after failures.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := newLogger()
		conn := hostclient.New(cfg.HostAddr(), cfg.ReceiveTimeout(), logger)
		defer conn.Disconnect()

		// Best effort: a host that is not up yet is not fatal, tool
		// calls will retry the dial.
		if conn.Connect(cmd.Context()) {
			logger.Info("connected to scene host", "addr", cfg.HostAddr())
		}

		return facade.NewServer(conn, logger).ServeStdio()
	},
}
