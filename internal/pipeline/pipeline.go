// internal/pipeline/pipeline.go - View loading and layer exposure
package pipeline

import (
	"fmt"

	"tileblend/internal"
	"tileblend/internal/cache"
	"tileblend/internal/style"
	"tileblend/internal/tile"
	"tileblend/internal/view"
)

// Pipeline composes the resolution selector, the tile cache and the
// classifier's paint order into the single integration point a renderer
// depends on. It is constructed once at startup and passed explicitly;
// there is no process-wide instance.
type Pipeline struct {
	selector   *view.Selector
	store      *cache.Cache
	classifier *style.Classifier
}

// New creates a pipeline over its collaborators
func New(selector *view.Selector, store *cache.Cache, classifier *style.Classifier) *Pipeline {
	return &Pipeline{
		selector:   selector,
		store:      store,
		classifier: classifier,
	}
}

// LayerDraw pairs one tile layer with the opacity its resolution level
// fades at. Draws of one level are emitted in paint order.
type LayerDraw struct {
	Tile    tile.Address
	Layer   *cache.Layer
	Opacity float64
}

// LevelLayers is the renderable content of one active resolution level
type LevelLayers struct {
	Level view.Level
	Draws []LayerDraw
}

// Resolve returns the active levels for a view and the deduplicated union
// of their tile addresses, in request order.
func (p *Pipeline) Resolve(v view.View) ([]view.Level, []tile.Address) {
	levels := p.selector.Levels(v)

	var union []tile.Address
	seen := make(map[tile.Address]struct{})
	for _, level := range levels {
		for _, addr := range p.selector.Tiles(v, level.Zoom) {
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
			union = append(union, addr)
		}
	}
	return levels, union
}

// LoadView ensures every tile the view needs is decoded and resident in
// the cache. Load failures propagate; the frame is then not renderable.
func (p *Pipeline) LoadView(v view.View) error {
	_, addrs := p.Resolve(v)
	return p.store.EnsureLoadedBatch(addrs)
}

// FrameLayers exposes, per active resolution level, the ordered sequence
// of (layer, opacity) pairs for a view. Layers iterate in global bucket
// order across the level's tiles, which is the authoritative paint order.
// Tiles that are not yet loaded make the frame unrenderable and are
// reported as an error.
func (p *Pipeline) FrameLayers(v view.View) ([]LevelLayers, error) {
	levels := p.selector.Levels(v)

	frame := make([]LevelLayers, 0, len(levels))
	for _, level := range levels {
		addrs := p.selector.Tiles(v, level.Zoom)

		tiles := make([]*cache.DecodedTile, 0, len(addrs))
		for _, addr := range addrs {
			decoded, ok := p.store.Get(addr)
			if !ok {
				return nil, internal.NewError(internal.ErrorCodeNotFound,
					fmt.Sprintf("tile %s is not loaded", addr), nil)
			}
			tiles = append(tiles, decoded)
		}

		out := LevelLayers{Level: level}
		for bucket := 0; bucket < p.classifier.BucketCount(); bucket++ {
			for i, decoded := range tiles {
				layer := decoded.Layer(bucket)
				if layer == nil {
					continue
				}
				out.Draws = append(out.Draws, LayerDraw{
					Tile:    addrs[i],
					Layer:   layer,
					Opacity: level.Weight,
				})
			}
		}
		frame = append(frame, out)
	}

	return frame, nil
}

// Selector exposes the pipeline's resolution selector for consumers that
// need the view transforms.
func (p *Pipeline) Selector() *view.Selector {
	return p.selector
}
