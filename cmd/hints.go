package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Myriad-Dreamin/tinymist-sub003/analysis"
	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
)

var HintsCmd = &cobra.Command{
	Use:          "hints file.typ",
	Short:        "Print parameter-name inlay hints for every call in a file",
	RunE:         runHints,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var (
	hintsWatch    *bool
	hintsLogLevel *int
	hintsConfig   *string
)

func init() {
	hintsWatch = HintsCmd.Flags().BoolP("watch", "w", false, "recompute on file change")
	hintsLogLevel = HintsCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
	hintsConfig = HintsCmd.Flags().StringP("config", "c", "", "path to a YAML config file")
}

func runHints(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(*hintsConfig)
	if err != nil {
		return err
	}
	cfg.apply(*hintsLogLevel)

	target, err := filepath.Abs(args[0])
	if err != nil {
		return errors.Wrap(err, "could not get absolute path of target")
	}

	emit := func() error {
		src, err := os.ReadFile(target)
		if err != nil {
			return errors.Wrap(err, "could not read target")
		}
		root, parseErrs := syntax.Parse(string(src))
		for _, perr := range parseErrs {
			fmt.Fprintln(cmd.ErrOrStderr(), perr)
		}
		info := analysis.SeedTypes(root, foundations.Library())
		for _, hint := range analysis.InlayHints(analysis.NewContext(info), info, root) {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", hint.Offset, cfg.colorize(hint.Label))
		}
		return nil
	}

	if err := emit(); err != nil {
		return err
	}
	if !*hintsWatch {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "could not start watcher")
	}
	defer watcher.Close()
	// watch the directory: editors replace files on save
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrap(err, "could not watch target")
	}

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := emit(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}
}
