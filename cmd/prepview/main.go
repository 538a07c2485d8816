// Package main is the prepview command line: it inspects tooth annotation
// documents, picks teeth by ray, renumbers them and exports highlight
// sleeves.
package main

import (
	"fmt"
	gomath "math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/prepview/internal/config"
	"github.com/Faultbox/prepview/internal/engine/sleeve"
	"github.com/Faultbox/prepview/internal/logger"
	"github.com/Faultbox/prepview/internal/viewer"
	"github.com/Faultbox/prepview/pkg/annotation"
	"github.com/Faultbox/prepview/pkg/math"
)

// cfg is replaced by the loaded configuration before any command runs.
var cfg = config.Default()

var flags *config.Flags

var (
	bold   = color.New(color.Bold).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "prepview",
	Short: "Inspect and review tooth preparation annotations",
	Long: `prepview works on annotation documents for a pair of scanned dental arches.
It fits planes to tooth boundary loops, picks teeth by ray, edits display
numbers and exports the highlight sleeves drawn around defective teeth.
A case path of "-" reads the document from standard input.`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags)
		if err != nil {
			return err
		}
		cfg = loaded

		if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		logger.Debug("config loaded",
			zap.Float64("edge_buffer", cfg.Picking.EdgeBuffer),
			zap.Float64("wall", cfg.Sleeve.WallThickness),
			zap.Float64("height", cfg.Sleeve.Height))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	flags = config.BindFlags(rootCmd.PersistentFlags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// stdinPath selects standard input in place of a case file.
const stdinPath = "-"

// loadSession parses the case at path, or standard input for "-", into a
// fresh session.
func loadSession(cmd *cobra.Command, path string) (*annotation.Case, *viewer.Session, error) {
	var (
		c   *annotation.Case
		err error
	)
	if path == stdinPath {
		c, err = annotation.ReadCase(cmd.InOrStdin())
	} else {
		c, err = annotation.ParseCaseFile(path)
	}
	if err != nil {
		return nil, nil, err
	}
	s := viewer.NewSession(sessionOptions())
	if err := s.Load(c); err != nil {
		return nil, nil, err
	}
	return c, s, nil
}

func sessionOptions() viewer.Options {
	return viewer.Options{
		EdgeBuffer: cfg.Picking.EdgeBuffer,
		Near:       cfg.Picking.Near,
		Far:        cfg.Picking.FarLimit(),
		CurveLift:  cfg.Sleeve.CurveLift,
	}
}

func sleeveParams() sleeve.Params {
	return sleeve.Params{
		WallThickness: cfg.Sleeve.WallThickness,
		Height:        cfg.Sleeve.Height,
		Color:         cfg.Sleeve.Color,
		HoverColor:    cfg.Sleeve.HoverColor,
		Opacity:       cfg.Sleeve.Opacity,
	}
}

func fovRadians() float64 {
	return cfg.Camera.FOVDegrees * gomath.Pi / 180
}

// parseFloats parses n comma-separated numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseVec3(s string) (math.Vec3, error) {
	v, err := parseFloats(s, 3)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func formatVec3(v math.Vec3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

// parseSideTooth splits "side:id".
func parseSideTooth(s string) (viewer.Side, string, error) {
	sideText, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return 0, "", fmt.Errorf("expected side:tooth, got %q", s)
	}
	side, err := viewer.ParseSide(sideText)
	if err != nil {
		return 0, "", err
	}
	return side, id, nil
}

// caseFromSession rebuilds a case document from the session's current
// snapshots, keeping the mesh1/mesh2 slots of the loaded case.
func caseFromSession(c *annotation.Case, s *viewer.Session) *annotation.Case {
	out := &annotation.Case{}
	for _, side := range viewer.Sides {
		switch s.Original(side) {
		case nil:
		case c.Mesh1:
			out.Mesh1 = s.Document(side)
		case c.Mesh2:
			out.Mesh2 = s.Document(side)
		}
	}
	return out
}

func sortedKeys(m map[int][]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
