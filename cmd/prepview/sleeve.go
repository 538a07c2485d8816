package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/prepview/internal/engine/sleeve"
	"github.com/Faultbox/prepview/internal/viewer"
	"github.com/Faultbox/prepview/pkg/annotation"
)

var sleeveCmd = &cobra.Command{
	Use:   "sleeve [case.json]",
	Short: "Export highlight sleeves as binary STL",
	Long: `Build the hollow highlight sleeve for one tooth (--tooth) or for every
selected tooth of an arch and write the triangles as binary STL.`,
	Args: cobra.ExactArgs(1),
	RunE: runSleeve,
}

var sleeveOpts struct {
	side   string
	tooth  string
	output string
}

func init() {
	f := sleeveCmd.Flags()
	f.StringVar(&sleeveOpts.side, "side", "upper", "Arch (upper or lower)")
	f.StringVar(&sleeveOpts.tooth, "tooth", "", "Tooth identifier; default is every selected tooth")
	f.StringVarP(&sleeveOpts.output, "output", "o", "sleeve.stl", "Output STL path")
	rootCmd.AddCommand(sleeveCmd)
}

func runSleeve(cmd *cobra.Command, args []string) error {
	side, err := viewer.ParseSide(sleeveOpts.side)
	if err != nil {
		return err
	}
	_, session, err := loadSession(cmd, args[0])
	if err != nil {
		return err
	}

	var (
		tris  []sleeve.Triangle
		count int
	)
	params := sleeveParams()

	if sleeveOpts.tooth != "" {
		tooth, ok := session.Document(side).Tooth(sleeveOpts.tooth)
		if !ok {
			return fmt.Errorf("%w: %q", annotation.ErrUnknownTooth, sleeveOpts.tooth)
		}
		sl := sleeve.Build(tooth.Spline, params)
		if sl == nil {
			return fmt.Errorf("tooth %s: %w", sleeveOpts.tooth, sleeve.ErrNoGeometry)
		}
		tris = sl.Mesh.Triangles(sl.Placement)
		count = 1
	} else {
		highlights, err := session.Highlights(side, params)
		if err != nil {
			return err
		}
		for _, h := range highlights {
			tris = append(tris, h.Sleeve.Mesh.Triangles(h.Sleeve.Placement)...)
		}
		count = len(highlights)
	}
	if count == 0 {
		return fmt.Errorf("%s arch, no selected tooth has a usable boundary: %w", side, sleeve.ErrNoGeometry)
	}

	f, err := os.Create(sleeveOpts.output)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("prepview %s sleeves", side)
	if err := sleeve.WriteSTL(f, name, tris, params.Color); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d sleeves, %d triangles\n", sleeveOpts.output, count, len(tris))
	return nil
}
