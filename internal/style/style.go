// internal/style/style.go - Display styles and the rule file schema
package style

import (
	"encoding/json"
	"fmt"
	"os"

	"tileblend/internal"
)

// Stroke describes an outline style
type Stroke struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

// Style is the display style a rule assigns to matching features. An empty
// style means the feature is not drawn; rendering semantics belong to the
// consuming back end.
type Style struct {
	Fill   string  `json:"fill,omitempty"`
	Stroke *Stroke `json:"stroke,omitempty"`
}

// IsZero reports whether the style has no visual effect
func (s Style) IsZero() bool {
	return s.Fill == "" && s.Stroke == nil
}

// Predicate matching modes
const (
	ModeWhitelist = "whitelist"
	ModeBlacklist = "blacklist"
)

// PredicateSpec is one property test inside a rule
type PredicateSpec struct {
	Key    string  `json:"key"`
	Values []Value `json:"values"`
	Mode   string  `json:"mode,omitempty"`
}

// BucketSpec is one conditional rule: all predicates must hold and the
// tile zoom must reach MinZoom for the bucket to claim a feature
type BucketSpec struct {
	When    []PredicateSpec `json:"when,omitempty"`
	MinZoom uint32          `json:"minzoom,omitempty"`
	Style   Style           `json:"style"`
}

// LayerSpec is the ordered rule list for one named source layer plus an
// optional unconditional fallback style
type LayerSpec struct {
	Layer    string       `json:"layer"`
	Buckets  []BucketSpec `json:"buckets,omitempty"`
	Fallback *Style       `json:"fallback,omitempty"`
}

// RuleFile is the external rule configuration: an ordered list of layer
// entries whose position determines paint order
type RuleFile struct {
	Layers []LayerSpec `json:"layers"`
}

// LoadRuleFile reads and parses a rule file from disk
func LoadRuleFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeFileSystem, fmt.Sprintf("cannot read style rules %s", path), err)
	}

	var rules RuleFile
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, internal.NewError(internal.ErrorCodeConfig, fmt.Sprintf("cannot parse style rules %s", path), err)
	}

	return &rules, nil
}

// DefaultRules returns the built-in rule set covering the shortbread layer
// schema, so the pipeline works without an external style file. Layer
// order is paint order, back to front.
func DefaultRules() *RuleFile {
	return &RuleFile{
		Layers: []LayerSpec{
			{
				Layer:    "ocean",
				Fallback: &Style{Fill: "#222230"},
			},
			{
				Layer:    "land",
				Fallback: &Style{Fill: "#040405"},
			},
			{
				Layer: "sites",
				Buckets: []BucketSpec{
					{
						When: []PredicateSpec{
							{Key: "kind", Values: []Value{
								{Kind: KindString, Str: "forest"},
								{Kind: KindString, Str: "wood"},
							}},
						},
						Style: Style{Fill: "#111711"},
					},
				},
				Fallback: &Style{Fill: "#111114"},
			},
			{
				Layer:    "water_polygons",
				Fallback: &Style{Fill: "#222230"},
			},
			{
				Layer: "water_lines",
				Buckets: []BucketSpec{
					{
						When: []PredicateSpec{
							{Key: "kind", Values: []Value{
								{Kind: KindString, Str: "river"},
								{Kind: KindString, Str: "canal"},
							}},
						},
						MinZoom: 8,
						Style:   Style{Stroke: &Stroke{Width: 1.5, Color: "#222230"}},
					},
				},
			},
			{
				Layer:    "dam_polygons",
				Fallback: &Style{Fill: "#32323d"},
			},
			{
				Layer:    "dam_lines",
				Fallback: &Style{Stroke: &Stroke{Width: 1, Color: "#32323d"}},
			},
			{
				Layer:    "pier_polygons",
				Fallback: &Style{Fill: "#19191f"},
			},
			{
				Layer:    "pier_lines",
				Fallback: &Style{Stroke: &Stroke{Width: 1, Color: "#19191f"}},
			},
			{
				Layer:    "street_polygons",
				Fallback: &Style{Fill: "#32323d"},
			},
			{
				Layer: "streets",
				Buckets: []BucketSpec{
					{
						When: []PredicateSpec{
							{Key: "kind", Values: []Value{
								{Kind: KindString, Str: "motorway"},
								{Kind: KindString, Str: "trunk"},
								{Kind: KindString, Str: "primary"},
							}},
						},
						Style: Style{Stroke: &Stroke{Width: 2.5, Color: "#32323d"}},
					},
					{
						When: []PredicateSpec{
							{Key: "kind", Values: []Value{
								{Kind: KindString, Str: "path"},
								{Kind: KindString, Str: "track"},
								{Kind: KindString, Str: "footway"},
							}, Mode: ModeBlacklist},
						},
						MinZoom: 11,
						Style:   Style{Stroke: &Stroke{Width: 1.2, Color: "#32323d"}},
					},
					{
						MinZoom: 13,
						Style:   Style{Stroke: &Stroke{Width: 0.8, Color: "#32323d"}},
					},
				},
			},
			{
				Layer: "buildings",
				Buckets: []BucketSpec{
					{
						MinZoom: 12,
						Style:   Style{Fill: "#19191f"},
					},
				},
			},
			{
				Layer:    "bridges",
				Fallback: &Style{Stroke: &Stroke{Width: 1.5, Color: "#32323d"}},
			},
			{
				Layer:    "aerialways",
				Fallback: &Style{Stroke: &Stroke{Width: 1, Color: "#32323d"}},
			},
			{
				Layer: "boundaries",
				Buckets: []BucketSpec{
					{
						When: []PredicateSpec{
							{Key: "admin_level", Values: []Value{
								{Kind: KindNumber, Num: 2},
							}},
						},
						Style: Style{Stroke: &Stroke{Width: 1.5, Color: "#545466"}},
					},
				},
			},
		},
	}
}
