package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Faultbox/prepview/internal/engine/picking"
	"github.com/Faultbox/prepview/internal/engine/planar"
	"github.com/Faultbox/prepview/internal/viewer"
	"github.com/Faultbox/prepview/pkg/annotation"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [case.json]",
	Short: "Show per-tooth boundary fits for both arches",
	Long: `Print every tooth of both arches with its defect flag, display number,
boundary loop size, fitted plane normal, out-of-plane statistics and
whether a pick region can be built for it.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	_, session, err := loadSession(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", bold("Case:"), args[0])
	for _, side := range viewer.Sides {
		doc := session.Document(side)
		if doc == nil {
			fmt.Fprintf(out, "\n%s not loaded\n", bold(side.String()))
			continue
		}
		reg, err := session.Registry(side)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s: %d teeth, %d pick regions\n", bold(side.String()), doc.Len(), reg.Len())
		for _, id := range doc.IDs() {
			inspectTooth(out, id, doc.Centers[id], reg)
		}
		for _, id := range doc.OutOfRangeDisplayNumbers() {
			fmt.Fprintf(out, "  %s tooth %s display number %d outside %d-%d\n", yellow("warning:"),
				id, doc.Centers[id].Num, annotation.MinDisplayNumber, annotation.MaxDisplayNumber)
		}
		dups := doc.DuplicateDisplayNumbers()
		for _, num := range sortedKeys(dups) {
			fmt.Fprintf(out, "  %s display number %d used by %v\n", yellow("warning:"), num, dups[num])
		}
	}
	return nil
}

func inspectTooth(out io.Writer, id string, t annotation.Tooth, reg *picking.Registry) {
	flag := green("ok  ")
	if t.IsDefective() {
		flag = red("prep")
	}
	fmt.Fprintf(out, "  tooth %-4s %s  #%-2d  loop %d points\n", id, flag, t.Num, len(t.Spline))

	plane, ok := planar.FitPlane(t.Spline)
	if !ok {
		fmt.Fprintf(out, "    plane: %s\n", yellow("degenerate"))
		return
	}
	stats := planar.Planarity(t.Spline, plane)
	fmt.Fprintf(out, "    normal %s  deviation mean %.4f sd %.4f max %.4f\n",
		formatVec3(plane.Normal), stats.Mean, stats.StdDev, stats.MaxAbs)

	if ls, ok := planar.FitLeastSquares(t.Spline); ok {
		fmt.Fprintf(out, "    least-squares agreement %.4f\n", planar.NormalAgreement(plane.Normal, ls.Normal))
	}
	if t.IsDefective() {
		_, built := reg.Region(id)
		fmt.Fprintf(out, "    pick region: %v\n", built)
	}
}
