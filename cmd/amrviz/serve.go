package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/martinemde/amrviz/amrgraph"
	"github.com/martinemde/amrviz/config"
	"github.com/martinemde/amrviz/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion API over HTTP",
	Long:  "Run an HTTP service that converts AMR text into graph payloads for the visualization front end.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("listen", "127.0.0.1:8000", "Address to listen on")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "CORS origins allowed to call the API")
	serveCmd.Flags().Int("max-stored-graphs", 256, "Number of conversion results kept for retrieval")

	_ = viper.BindPFlag(config.KeyListenAddr, serveCmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag(config.KeyAllowedOrigins, serveCmd.Flags().Lookup("allowed-origins"))
	_ = viper.BindPFlag(config.KeyMaxStoredGraphs, serveCmd.Flags().Lookup("max-stored-graphs"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mode, err := amrgraph.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	srv := server.NewServer(server.Options{
		Mode:            mode,
		AllowedOrigins:  cfg.AllowedOrigins,
		MaxStoredGraphs: cfg.MaxStoredGraphs,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		MaxBatchSize:    cfg.MaxBatchSize,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.ListenAddr)
}
