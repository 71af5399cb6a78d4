// internal/style/classifier.go - Ordered rule evaluation
package style

import (
	"fmt"

	"tileblend/internal"
)

// Bucket is one live classifier entry after load-time pruning. Index is
// the global paint-order position across all layers.
type Bucket struct {
	Index   int
	Layer   string
	MinZoom uint32
	Style   Style

	predicates []predicate
	fallback   bool
}

type predicate struct {
	key       string
	values    []Value
	whitelist bool
}

type layerRules struct {
	buckets  []*Bucket
	fallback *Bucket
}

// Classifier maps (layer name, feature properties, zoom) to a display
// bucket. It is built once at startup and is immutable afterward, so it is
// shared across goroutines without locking.
type Classifier struct {
	layers      map[string]*layerRules
	bucketCount int
}

// NewClassifier compiles a rule file into a classifier. Buckets whose
// style has no visual effect are pruned, as are layer entries left with
// neither buckets nor a fallback; surviving buckets receive sequential
// paint-order indexes in file order.
func NewClassifier(rules *RuleFile) (*Classifier, error) {
	c := &Classifier{layers: make(map[string]*layerRules)}

	for _, spec := range rules.Layers {
		if spec.Layer == "" {
			return nil, internal.NewError(internal.ErrorCodeConfig, "style rule entry is missing a layer name", nil)
		}
		if _, dup := c.layers[spec.Layer]; dup {
			return nil, internal.NewError(internal.ErrorCodeConfig,
				fmt.Sprintf("duplicate style rules for layer %q", spec.Layer), nil)
		}

		lr := &layerRules{}
		for _, bucketSpec := range spec.Buckets {
			if bucketSpec.Style.IsZero() {
				continue // dead bucket, prune before indexing
			}
			bucket := &Bucket{
				Index:   c.bucketCount,
				Layer:   spec.Layer,
				MinZoom: bucketSpec.MinZoom,
				Style:   bucketSpec.Style,
			}
			for _, predSpec := range bucketSpec.When {
				pred, err := compilePredicate(spec.Layer, predSpec)
				if err != nil {
					return nil, err
				}
				bucket.predicates = append(bucket.predicates, pred)
			}
			lr.buckets = append(lr.buckets, bucket)
			c.bucketCount++
		}

		if spec.Fallback != nil && !spec.Fallback.IsZero() {
			lr.fallback = &Bucket{
				Index:    c.bucketCount,
				Layer:    spec.Layer,
				Style:    *spec.Fallback,
				fallback: true,
			}
			c.bucketCount++
		}

		if len(lr.buckets) == 0 && lr.fallback == nil {
			continue // nothing visible, layer is not tracked
		}
		c.layers[spec.Layer] = lr
	}

	return c, nil
}

func compilePredicate(layer string, spec PredicateSpec) (predicate, error) {
	if spec.Key == "" {
		return predicate{}, internal.NewError(internal.ErrorCodeConfig,
			fmt.Sprintf("layer %q: predicate is missing a property key", layer), nil)
	}
	whitelist := true
	switch spec.Mode {
	case "", ModeWhitelist:
	case ModeBlacklist:
		whitelist = false
	default:
		return predicate{}, internal.NewError(internal.ErrorCodeConfig,
			fmt.Sprintf("layer %q: unknown predicate mode %q", layer, spec.Mode), nil)
	}
	return predicate{key: spec.Key, values: spec.Values, whitelist: whitelist}, nil
}

// Tracked reports whether features of the named layer are classified at all
func (c *Classifier) Tracked(layer string) bool {
	_, ok := c.layers[layer]
	return ok
}

// BucketCount returns the number of live buckets; bucket indexes are the
// half-open range [0, BucketCount)
func (c *Classifier) BucketCount() int {
	return c.bucketCount
}

// Classify evaluates the layer's ordered rule list against a feature's
// property map at the given zoom. The first bucket whose zoom gate and
// predicates are all satisfied wins; a predicate referencing an absent
// property is indeterminate and fails its bucket. When no conditional
// bucket matches, the layer's fallback applies if present; otherwise the
// feature is not drawn.
func (c *Classifier) Classify(layer string, props map[string]interface{}, zoom uint32) (*Bucket, bool) {
	lr, ok := c.layers[layer]
	if !ok {
		return nil, false
	}

	for _, bucket := range lr.buckets {
		if zoom < bucket.MinZoom {
			continue
		}
		if bucket.matches(props) {
			return bucket, true
		}
	}

	if lr.fallback != nil {
		return lr.fallback, true
	}
	return nil, false
}

func (b *Bucket) matches(props map[string]interface{}) bool {
	for _, pred := range b.predicates {
		raw, present := props[pred.key]
		if !present {
			return false
		}
		value := FromAny(raw)
		contained := false
		for _, allowed := range pred.values {
			if allowed.Equal(value) {
				contained = true
				break
			}
		}
		if contained != pred.whitelist {
			return false
		}
	}
	return true
}
