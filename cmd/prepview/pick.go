package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/prepview/internal/engine/camera"
	"github.com/Faultbox/prepview/internal/engine/picking"
	"github.com/Faultbox/prepview/internal/logger"
	"github.com/Faultbox/prepview/internal/viewer"
)

var pickCmd = &cobra.Command{
	Use:   "pick [case.json]",
	Short: "Pick a tooth with a ray and toggle its selection",
	Long: `Cast a ray against the defective teeth of one arch. The ray is given either
directly with --origin and --dir, or as a pixel with --screen and --viewport,
in which case the camera is fitted to the arch.`,
	Args: cobra.ExactArgs(1),
	RunE: runPick,
}

var pickOpts struct {
	side     string
	origin   string
	dir      string
	screen   string
	viewport string
}

func init() {
	f := pickCmd.Flags()
	f.StringVar(&pickOpts.side, "side", "upper", "Arch to pick on (upper or lower)")
	f.StringVar(&pickOpts.origin, "origin", "", "Ray origin x,y,z")
	f.StringVar(&pickOpts.dir, "dir", "", "Ray direction x,y,z")
	f.StringVar(&pickOpts.screen, "screen", "", "Pixel x,y")
	f.StringVar(&pickOpts.viewport, "viewport", "800,600", "Viewport width,height")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	side, err := viewer.ParseSide(pickOpts.side)
	if err != nil {
		return err
	}
	_, session, err := loadSession(cmd, args[0])
	if err != nil {
		return err
	}

	ray, err := pickRay(session, side)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	hit, ok, err := session.Pick(side, ray)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, yellow("no hit"))
		return nil
	}

	state := red("deselected")
	if session.IsSelected(side, hit.ToothID()) {
		state = green("selected")
	}
	where := "inside"
	if !hit.Inside {
		where = "edge buffer"
	}
	fmt.Fprintf(out, "tooth %s %s (%s)\n", bold(hit.ToothID()), state, where)
	fmt.Fprintf(out, "  distance %.4f  point %s\n", hit.Distance, formatVec3(hit.Point))
	fmt.Fprintf(out, "  selection: %v\n", session.Selected(side))
	return nil
}

func pickRay(session *viewer.Session, side viewer.Side) (picking.Ray, error) {
	if pickOpts.screen == "" {
		if pickOpts.origin == "" || pickOpts.dir == "" {
			return picking.Ray{}, errors.New("either --origin and --dir or --screen is required")
		}
		origin, err := parseVec3(pickOpts.origin)
		if err != nil {
			return picking.Ray{}, fmt.Errorf("--origin: %w", err)
		}
		dir, err := parseVec3(pickOpts.dir)
		if err != nil {
			return picking.Ray{}, fmt.Errorf("--dir: %w", err)
		}
		if dir.Length() == 0 {
			return picking.Ray{}, errors.New("--dir must not be zero")
		}
		return picking.NewRay(origin, dir), nil
	}

	px, err := parseFloats(pickOpts.screen, 2)
	if err != nil {
		return picking.Ray{}, fmt.Errorf("--screen: %w", err)
	}
	vp, err := parseFloats(pickOpts.viewport, 2)
	if err != nil {
		return picking.Ray{}, fmt.Errorf("--viewport: %w", err)
	}
	if vp[0] <= 0 || vp[1] <= 0 {
		return picking.Ray{}, errors.New("--viewport must be positive")
	}

	cam, err := fitCamera(session, side)
	if err != nil {
		return picking.Ray{}, err
	}
	inv, ok := cam.InverseViewProjection(vp[0] / vp[1])
	if !ok {
		return picking.Ray{}, errors.New("camera projection is singular")
	}
	return picking.ScreenToRay(px[0], px[1], vp[0], vp[1], inv), nil
}

// fitCamera frames the arch for a one-shot pick.
func fitCamera(session *viewer.Session, side viewer.Side) (*camera.OrbitCamera, error) {
	doc := session.Document(side)
	if doc == nil {
		return nil, fmt.Errorf("%w: no %s document", viewer.ErrMissingInputs, side)
	}
	cam := camera.NewOrbitCamera()
	cam.FitToBounds(doc.Bounds(), fovRadians(), cfg.Camera.Padding)
	logger.Named("camera").Debug("camera fitted",
		zap.Stringer("side", side),
		zap.Float64("distance", cam.Distance))
	return cam, nil
}
