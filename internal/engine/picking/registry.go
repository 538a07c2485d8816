package picking

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/prepview/internal/logger"
	"github.com/Faultbox/prepview/pkg/annotation"
)

// Registry indexes one Region per defective tooth of a mesh document.
// A registry is immutable; a changed document gets a new registry.
type Registry struct {
	source     *annotation.Mesh
	edgeBuffer float64
	regions    []*Region
	byID       map[string]*Region
}

// BuildRegistry creates regions for every defective tooth of mesh whose
// boundary loop is usable. Non-defective teeth and degenerate loops are
// skipped. Regions are ordered by annotation.Mesh.IDs, which fixes the
// tie-break order of Pick.
func BuildRegistry(mesh *annotation.Mesh, edgeBuffer float64) *Registry {
	log := logger.Named("picking")

	reg := &Registry{
		source:     mesh,
		edgeBuffer: edgeBuffer,
		byID:       make(map[string]*Region),
	}
	for _, id := range mesh.IDs() {
		tooth := mesh.Centers[id]
		if !tooth.IsDefective() {
			continue
		}
		region, ok := NewRegion(id, tooth.Spline, edgeBuffer)
		if !ok {
			log.Debug("skipping degenerate boundary",
				zap.String("tooth", id),
				zap.Int("points", len(tooth.Spline)))
			continue
		}
		reg.regions = append(reg.regions, region)
		reg.byID[id] = region
	}

	log.Debug("registry built",
		zap.Int("teeth", mesh.Len()),
		zap.Int("regions", len(reg.regions)),
		zap.Float64("edge_buffer", edgeBuffer))
	return reg
}

// Source returns the document snapshot the registry was built from.
func (r *Registry) Source() *annotation.Mesh {
	return r.source
}

// EdgeBuffer returns the tolerance regions were built with.
func (r *Registry) EdgeBuffer() float64 {
	return r.edgeBuffer
}

// Len returns the number of regions.
func (r *Registry) Len() int {
	return len(r.regions)
}

// Regions returns the regions in pick order.
func (r *Registry) Regions() []*Region {
	return r.regions
}

// Region returns the region for a tooth, if one was built.
func (r *Registry) Region(toothID string) (*Region, bool) {
	region, ok := r.byID[toothID]
	return region, ok
}

// IDs returns the identifiers that have regions, in pick order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.regions))
	for i, region := range r.regions {
		ids[i] = region.ToothID
	}
	return ids
}

// Pick returns the nearest accepted hit. Equal distances resolve to the
// region that comes first in pick order.
func (r *Registry) Pick(ray Ray, near, far float64) (Hit, bool) {
	var best Hit
	found := false
	for _, region := range r.regions {
		if near >= 0 {
			if _, ok := ray.IntersectAABB(region.bounds); !ok {
				continue
			}
		}
		hit, ok := region.Intersect(ray, near, far)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

// IntersectAll returns every accepted hit ordered by distance, keeping pick
// order among equal distances.
func (r *Registry) IntersectAll(ray Ray, near, far float64) []Hit {
	var hits []Hit
	for _, region := range r.regions {
		if hit, ok := region.Intersect(ray, near, far); ok {
			hits = append(hits, hit)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}
