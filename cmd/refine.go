package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Myriad-Dreamin/tinymist-sub003/analysis"
	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
)

var RefineCmd = &cobra.Command{
	Use:          "refine file.typ",
	Short:        "Print the contextually refined type at a byte offset",
	RunE:         runRefine,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var (
	refineOffset   *int
	refineLogLevel *int
	refineConfig   *string
)

func init() {
	refineOffset = RefineCmd.Flags().IntP("offset", "O", 0, "byte offset in the file")
	refineLogLevel = RefineCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
	refineConfig = RefineCmd.Flags().StringP("config", "c", "", "path to a YAML config file")
}

func runRefine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(*refineConfig)
	if err != nil {
		return err
	}
	cfg.apply(*refineLogLevel)

	src, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(err, "could not read target")
	}

	root, parseErrs := syntax.Parse(string(src))
	for _, perr := range parseErrs {
		fmt.Fprintln(cmd.ErrOrStderr(), perr)
	}

	leaf := root.LeafAt(*refineOffset)
	if leaf == nil {
		return errors.Errorf("no syntax at offset %d", *refineOffset)
	}

	info := analysis.SeedTypes(root, foundations.Library())
	result := analysis.PostTypeCheck(analysis.NewContext(info), info, leaf)
	if result == nil {
		// nothing contextual to add, fall back to the baseline
		result = info.TypeOfSpan(leaf.Span())
	}
	if result == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "no type information")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), cfg.colorize(info.Simplify(result, false).String()))
	return nil
}
