package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/martinemde/amrviz/amrgraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file.amr>",
	Short: "Re-convert an AMR file whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml, vis, summary")
	watchCmd.Flags().StringP("out", "o", "", "Write output to this file instead of stdout")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	path := args[0]
	if path == "-" {
		return fmt.Errorf("watch needs a file, not stdin")
	}

	convert := func() error {
		text, err := readInput(nil, []string{path})
		if err != nil {
			return err
		}
		graph := mode.Convert(text)
		logger.Info("converted",
			zap.String("file", path),
			zap.Int("nodes", len(graph.Nodes)),
			zap.Int("edges", len(graph.Edges)),
		)
		if out == "" {
			return writeGraph(cmd.OutOrStdout(), graph, format)
		}
		return writeGraphFile(out, graph, format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchFile(ctx, path, convert, logger)
}

// writeGraphFile writes g to path through a temporary file so readers never
// see a partial graph.
func writeGraphFile(path string, g *amrgraph.Graph, format string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".amrviz-*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeGraph(tmp, g, format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing output file: %w", err)
	}
	return nil
}

// watchFile calls onChange once, then again after every write, create or
// rename of path, until ctx is cancelled. The parent directory is watched so
// editors that replace the file are followed. onChange errors are logged and
// watching continues.
func watchFile(ctx context.Context, path string, onChange func() error, logger *zap.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if err := onChange(); err != nil {
		logger.Warn("conversion failed", zap.String("file", path), zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("file changed", zap.String("file", path), zap.Stringer("op", event.Op))
			if err := onChange(); err != nil {
				logger.Warn("conversion failed", zap.String("file", path), zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}
