package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qtermtikz/quantikz"
)

func newWatchCmd(root *rootFlags) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "watch file",
		Short: "Re-render a file whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.setup(cmd, f)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src := args[0]
			if src == "-" {
				return errors.New("watch needs a file, not standard input")
			}
			return watchFile(ctx, src, log, func() error {
				return renderFile(src, f, cfg, log)
			})
		},
	}
	addRenderFlags(cmd, f)
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// renderFile translates src and replaces the output file. A failed
// translation leaves the previous output in place.
func renderFile(src string, f *renderFlags, cfg *Config, log *zap.Logger) error {
	text, err := readSource(os.Stdin, src)
	if err != nil {
		return err
	}
	res, err := quantikz.TranslateSource(text, cfg.options(log))
	if err != nil {
		return err
	}
	return withOutputWriter(os.Stdout, f.output, func(w io.Writer) error {
		if f.table {
			writeTable(w, res)
			return nil
		}
		return writeTeX(w, res, cfg)
	})
}

// watchFile calls build once and then after every write to path until
// ctx is done. The parent directory is watched so that editors which
// replace the file on save are followed.
func watchFile(ctx context.Context, path string, log *zap.Logger, build func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "watch")
	}
	defer w.Close()

	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}

	rebuild := func() {
		if err := build(); err != nil {
			log.Error("render failed", zap.String("file", path), zap.Error(err))
			return
		}
		log.Info("rendered", zap.String("file", path))
	}
	rebuild()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				log.Debug("source changed", zap.Stringer("op", ev.Op))
				rebuild()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}
