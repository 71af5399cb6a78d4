// internal/cache/builder.go - Decoded tile construction
package cache

import (
	"fmt"

	"tileblend/internal"
	"tileblend/internal/geometry"
	"tileblend/internal/logging"
	"tileblend/internal/style"
	"tileblend/internal/tile"
	"tileblend/pkg/mvt"
)

// Layer is a bucket of normalized paths and areas within one tile,
// together with the style that selected them. Bucket is the global
// paint-order index assigned by the classifier.
type Layer struct {
	Bucket int
	Source string
	Style  style.Style
	Paths  []geometry.Path
	Areas  []geometry.Area
}

// DecodedTile is the fully processed form of one tile. It is created once,
// immutable afterward, and shared by reference with every consumer. Layers
// are sorted by bucket index, which is the authoritative paint order.
type DecodedTile struct {
	Address tile.Address
	Layers  []*Layer

	// WindingRepairs counts areas whose ring orientation had to be
	// corrected during normalization. Diagnostic only.
	WindingRepairs int
}

// Layer returns the layer for a bucket index, or nil if the tile has no
// geometry in that bucket.
func (t *DecodedTile) Layer(bucket int) *Layer {
	for _, layer := range t.Layers {
		if layer.Bucket == bucket {
			return layer
		}
	}
	return nil
}

// Builder turns raw tile payloads into DecodedTiles by running them
// through the decoder, the classifier and the geometry normalizer.
type Builder struct {
	decoder    *mvt.Decoder
	classifier *style.Classifier
}

// NewBuilder creates a tile builder over a compiled classifier
func NewBuilder(classifier *style.Classifier) *Builder {
	return &Builder{
		decoder:    mvt.NewDecoder(),
		classifier: classifier,
	}
}

// Build decodes a raw payload and assembles the tile's layers. Features of
// untracked source layers are skipped wholesale; features matching no rule
// are silently excluded; winding repairs are counted and logged.
func (b *Builder) Build(addr tile.Address, payload []byte) (*DecodedTile, error) {
	rawLayers, err := b.decoder.Decode(payload)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeDecode,
			fmt.Sprintf("tile %s: payload decode failed", addr), err)
	}

	type accum struct {
		source string
		styled style.Style
		norm   *geometry.Normalizer
	}
	buckets := make(map[int]*accum)

	for _, raw := range rawLayers {
		if !b.classifier.Tracked(raw.Name) {
			continue
		}
		for _, feature := range raw.Features {
			bucket, ok := b.classifier.Classify(raw.Name, feature.Properties, addr.Zoom)
			if !ok {
				continue
			}
			acc := buckets[bucket.Index]
			if acc == nil {
				acc = &accum{source: raw.Name, styled: bucket.Style, norm: geometry.NewNormalizer()}
				buckets[bucket.Index] = acc
			}
			acc.norm.Add(feature.Geometry, raw.Extent)
		}
	}

	decoded := &DecodedTile{Address: addr}
	for idx := 0; idx < b.classifier.BucketCount(); idx++ {
		acc := buckets[idx]
		if acc == nil || acc.norm.Empty() {
			continue
		}
		decoded.WindingRepairs += acc.norm.Finish()
		decoded.Layers = append(decoded.Layers, &Layer{
			Bucket: idx,
			Source: acc.source,
			Style:  acc.styled,
			Paths:  acc.norm.Paths,
			Areas:  acc.norm.Areas,
		})
	}

	if decoded.WindingRepairs > 0 {
		logging.L().WithField("tile", addr.String()).
			Warnf("repaired ring winding on %d areas", decoded.WindingRepairs)
	}

	return decoded, nil
}
