// internal/tile/address.go - Quadtree tile addressing
package tile

import (
	"fmt"
	"strconv"
	"strings"
)

// Address identifies a tile in the XYZ quadtree scheme. It is an immutable
// value type used as the cache key and as the unit of fetching and disk
// persistence.
type Address struct {
	Zoom uint32
	Col  uint32
	Row  uint32
}

// NewAddress creates a tile address. Construction never fails; callers
// reject out-of-range addresses through IsValid.
func NewAddress(zoom, col, row uint32) Address {
	return Address{Zoom: zoom, Col: col, Row: row}
}

// IsValid reports whether the address lies inside the tile grid for its
// zoom level. The zoom bound keeps the shift below defined.
func (a Address) IsValid() bool {
	return a.Zoom < 32 && a.Col < 1<<a.Zoom && a.Row < 1<<a.Zoom
}

// CacheKey returns the stable key derived from the coordinates. It doubles
// as the disk filename stem.
func (a Address) CacheKey() string {
	return fmt.Sprintf("%d_%d_%d", a.Zoom, a.Col, a.Row)
}

// FetchLocator builds the remote resource URL by substituting the
// coordinates into a template with {z}, {x} and {y} placeholders.
func (a Address) FetchLocator(template string) string {
	r := strings.NewReplacer(
		"{z}", fmt.Sprintf("%d", a.Zoom),
		"{x}", fmt.Sprintf("%d", a.Col),
		"{y}", fmt.Sprintf("%d", a.Row),
	)
	return r.Replace(template)
}

// String returns a string representation of the address
func (a Address) String() string {
	return fmt.Sprintf("%d/%d/%d", a.Zoom, a.Col, a.Row)
}

// ParseCacheKey parses a "{zoom}_{col}_{row}" key back into an address.
// Used by the cache startup scan; malformed keys return an error.
func ParseCacheKey(key string) (Address, error) {
	parts := strings.Split(key, "_")
	if len(parts) != 3 {
		return Address{}, fmt.Errorf("malformed cache key %q", key)
	}
	fields := make([]uint32, 3)
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Address{}, fmt.Errorf("malformed cache key %q: %w", key, err)
		}
		fields[i] = uint32(v)
	}
	return Address{Zoom: fields[0], Col: fields[1], Row: fields[2]}, nil
}
