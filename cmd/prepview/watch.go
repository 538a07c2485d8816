package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/prepview/internal/assets"
	"github.com/Faultbox/prepview/internal/engine/camera"
	"github.com/Faultbox/prepview/internal/logger"
	"github.com/Faultbox/prepview/internal/viewer"
	"github.com/Faultbox/prepview/internal/watch"
	"github.com/Faultbox/prepview/pkg/annotation"
)

var watchCmd = &cobra.Command{
	Use:   "watch [case.json]",
	Short: "Reload the case whenever the file changes",
	Long: `Keep a session open and reload the annotation document when it changes on
disk. Each reload replaces both arches and rebuilds their pick regions.
The camera is fitted once per mesh pair given with --mesh and refitted when
one of those files changes. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var watchMeshes []string

func init() {
	watchCmd.Flags().StringArrayVar(&watchMeshes, "mesh", nil, "Mesh file of the scanned pair (repeatable); the camera refits when the pair changes")
	rootCmd.AddCommand(watchCmd)
}

// reloader applies changed case and mesh files to a session. Callbacks
// arrive on timer goroutines; mu serializes them.
type reloader struct {
	mu       sync.Mutex
	session  *viewer.Session
	casePath string
	meshes   []string
	meshKeys map[string]string // mesh path -> resource key
	assets   *assets.Manager
	fits     map[viewer.Side]*camera.FitGuard
	cams     map[viewer.Side]*camera.OrbitCamera
	log      *zap.Logger
}

func newReloader(session *viewer.Session, casePath string, meshes []string) *reloader {
	r := &reloader{
		session:  session,
		casePath: casePath,
		meshes:   meshes,
		meshKeys: make(map[string]string),
		assets:   assets.NewManager(),
		fits:     make(map[viewer.Side]*camera.FitGuard),
		cams:     make(map[viewer.Side]*camera.OrbitCamera),
		log:      logger.Named("watch"),
	}
	for _, side := range viewer.Sides {
		r.fits[side] = &camera.FitGuard{}
		r.cams[side] = camera.NewOrbitCamera()
	}
	return r
}

// loadMeshes opens every mesh of the pair.
func (r *reloader) loadMeshes() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, path := range r.meshes {
		if err := r.openMesh(path); err != nil {
			return err
		}
	}
	return nil
}

// openMesh loads path and releases the content it replaces once no other
// mesh of the pair refers to it. r.mu must be held.
func (r *reloader) openMesh(path string) error {
	res, err := r.assets.Open(path)
	if err != nil {
		return err
	}
	old, had := r.meshKeys[path]
	r.meshKeys[path] = res.Key
	if had && old != res.Key && !r.keyInUse(old) {
		r.assets.Release(old)
	}
	return nil
}

func (r *reloader) keyInUse(key string) bool {
	for _, k := range r.meshKeys {
		if k == key {
			return true
		}
	}
	return false
}

// fitKey identifies the resources the camera is framed for: the mesh pair
// when meshes are given, the case file otherwise.
func (r *reloader) fitKey() string {
	if len(r.meshes) == 0 {
		return "case:" + r.casePath
	}
	keys := make([]string, len(r.meshes))
	for i, path := range r.meshes {
		keys[i] = r.meshKeys[path]
	}
	return strings.Join(keys, "+")
}

// reload reads path and swaps the new snapshots in. A malformed file is
// logged and the current documents are kept.
func (r *reloader) reload(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := annotation.ParseCaseFile(path)
	if err != nil {
		r.log.Warn("reload rejected", zap.String("path", path), zap.Error(err))
		return
	}

	next := map[viewer.Side]*annotation.Mesh{viewer.SideOf(c.Mesh1): c.Mesh1}
	if c.Mesh2 != nil {
		if _, clash := next[viewer.SideOf(c.Mesh2)]; clash {
			next = map[viewer.Side]*annotation.Mesh{viewer.Upper: c.Mesh1, viewer.Lower: c.Mesh2}
		} else {
			next[viewer.SideOf(c.Mesh2)] = c.Mesh2
		}
	}

	for _, side := range viewer.Sides {
		mesh, ok := next[side]
		if !ok {
			continue
		}
		if err := r.session.ReplaceDocument(side, mesh); err != nil {
			r.log.Warn("side not replaced", zap.Stringer("side", side), zap.Error(err))
			continue
		}
		r.report(side)
	}
}

// reloadMesh reopens a changed mesh file and refits the camera for the new
// pair.
func (r *reloader) reloadMesh(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.openMesh(path); err != nil {
		r.log.Warn("mesh reload rejected", zap.String("path", path), zap.Error(err))
		return
	}
	r.reportAll()
}

func (r *reloader) reportAll() {
	for _, side := range viewer.Sides {
		if r.session.Loaded(side) {
			r.report(side)
		}
	}
}

// report logs the rebuilt registry and fits the camera once per mesh pair.
// It reports whether the camera was refitted. r.mu must be held.
func (r *reloader) report(side viewer.Side) bool {
	reg, err := r.session.Registry(side)
	if err != nil {
		return false
	}
	key := r.fitKey()
	refit := r.fits[side].FitOnce(key, func() {
		r.cams[side].FitToBounds(r.session.Document(side).Bounds(), fovRadians(), cfg.Camera.Padding)
	})

	r.log.Info("registry rebuilt",
		zap.Stringer("side", side),
		zap.Uint64("version", r.session.Version(side)),
		zap.Int("regions", reg.Len()),
		zap.Strings("selected", r.session.Selected(side)),
		zap.String("fit_key", key),
		zap.Bool("camera_refit", refit))
	return refit
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	if path == stdinPath {
		return errors.New("watch needs a case file, not standard input")
	}
	_, session, err := loadSession(cmd, path)
	if err != nil {
		return err
	}

	r := newReloader(session, path, watchMeshes)
	defer r.assets.Close()
	if err := r.loadMeshes(); err != nil {
		return err
	}
	r.mu.Lock()
	r.reportAll()
	r.mu.Unlock()

	fw, err := watch.NewFileWatcher(cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Watch([]string{path}, r.reload); err != nil {
		return err
	}
	if len(watchMeshes) > 0 {
		if err := fw.Watch(watchMeshes, r.reloadMesh); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s (Ctrl-C to stop)\n", path)
	if err := fw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
