package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/prepview/internal/viewer"
	"github.com/Faultbox/prepview/pkg/annotation"
)

var renumberCmd = &cobra.Command{
	Use:   "renumber [case.json]",
	Short: "Change a tooth's display number",
	Long: `Validate and apply a new display number (1-16) to one tooth and write the
edited case document to --output, or to stdout when no output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRenumber,
}

var renumberOpts struct {
	side   string
	tooth  string
	num    string
	output string
}

func init() {
	f := renumberCmd.Flags()
	f.StringVar(&renumberOpts.side, "side", "upper", "Arch (upper or lower)")
	f.StringVar(&renumberOpts.tooth, "tooth", "", "Tooth identifier")
	f.StringVar(&renumberOpts.num, "num", "", "New display number")
	f.StringVarP(&renumberOpts.output, "output", "o", "", "Output JSON path")
	_ = renumberCmd.MarkFlagRequired("tooth")
	_ = renumberCmd.MarkFlagRequired("num")
	rootCmd.AddCommand(renumberCmd)
}

func runRenumber(cmd *cobra.Command, args []string) error {
	side, err := viewer.ParseSide(renumberOpts.side)
	if err != nil {
		return err
	}
	c, session, err := loadSession(cmd, args[0])
	if err != nil {
		return err
	}

	if err := session.Renumber(side, renumberOpts.tooth, renumberOpts.num); err != nil {
		return fmt.Errorf("tooth %s: %w", renumberOpts.tooth, err)
	}
	edited := caseFromSession(c, session)

	dups := session.Document(side).DuplicateDisplayNumbers()
	for _, num := range sortedKeys(dups) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s display number %d used by %v\n", yellow("warning:"), num, dups[num])
	}

	if renumberOpts.output == "" {
		return annotation.Encode(cmd.OutOrStdout(), edited)
	}
	f, err := os.Create(renumberOpts.output)
	if err != nil {
		return err
	}
	if err := annotation.Encode(f, edited); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
