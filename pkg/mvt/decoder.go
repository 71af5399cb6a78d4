// pkg/mvt/decoder.go - Mapbox Vector Tile decoding implementation
package mvt

import (
	"bytes"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
)

// DefaultExtent is the MVT extent assumed when a layer does not declare one
const DefaultExtent = 4096

// Layer is one raw source layer of a decoded tile payload. Geometry is
// still expressed on the layer's integer extent grid.
type Layer struct {
	Name     string
	Extent   float64
	Features []Feature
}

// Feature is one raw feature: its loosely-typed property map and its
// source geometry.
type Feature struct {
	Properties map[string]interface{}
	Geometry   orb.Geometry
}

// Decoder handles decoding of Mapbox Vector Tiles from Protocol Buffer
// format
type Decoder struct {
	defaultExtent float64
}

// NewDecoder creates a new MVT decoder with default settings
func NewDecoder() *Decoder {
	return &Decoder{defaultExtent: DefaultExtent}
}

// Decode decodes a raw tile payload into its source layers, in payload
// order. Gzip-compressed payloads are handled transparently.
func (d *Decoder) Decode(data []byte) ([]Layer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty tile data")
	}

	var (
		layers mvt.Layers
		err    error
	)
	if isGzipped(data) {
		layers, err = mvt.UnmarshalGzipped(data)
	} else {
		layers, err = mvt.Unmarshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal MVT data: %w", err)
	}

	decoded := make([]Layer, 0, len(layers))
	for _, layer := range layers {
		extent := float64(layer.Extent)
		if extent <= 0 {
			extent = d.defaultExtent
		}

		out := Layer{
			Name:     layer.Name,
			Extent:   extent,
			Features: make([]Feature, 0, len(layer.Features)),
		}
		for _, feature := range layer.Features {
			if feature.Geometry == nil {
				continue
			}
			out.Features = append(out.Features, Feature{
				Properties: feature.Properties,
				Geometry:   feature.Geometry,
			})
		}
		decoded = append(decoded, out)
	}

	return decoded, nil
}

// isGzipped checks for the gzip magic header
func isGzipped(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0x1f, 0x8b})
}
