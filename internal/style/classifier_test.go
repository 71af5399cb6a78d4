// internal/style/classifier_test.go - Unit tests for rule compilation and classification
package style

import "testing"

func testRules() *RuleFile {
	return &RuleFile{
		Layers: []LayerSpec{
			{
				Layer:    "water",
				Fallback: &Style{Fill: "#223"},
			},
			{
				Layer: "streets",
				Buckets: []BucketSpec{
					{
						When: []PredicateSpec{
							{Key: "kind", Values: []Value{
								{Kind: KindString, Str: "motorway"},
								{Kind: KindString, Str: "trunk"},
							}},
						},
						Style: Style{Stroke: &Stroke{Width: 2.5, Color: "#323"}},
					},
					{
						When: []PredicateSpec{
							{Key: "kind", Values: []Value{
								{Kind: KindString, Str: "path"},
							}, Mode: ModeBlacklist},
						},
						MinZoom: 11,
						Style:   Style{Stroke: &Stroke{Width: 1.2, Color: "#323"}},
					},
				},
			},
			{
				Layer: "boundaries",
				Buckets: []BucketSpec{
					{
						When: []PredicateSpec{
							{Key: "admin_level", Values: []Value{{Kind: KindNumber, Num: 2}}},
						},
						Style: Style{Stroke: &Stroke{Width: 1.5, Color: "#545"}},
					},
				},
			},
		},
	}
}

func TestNewClassifierAssignsSequentialIndexes(t *testing.T) {
	c, err := NewClassifier(testRules())
	if err != nil {
		t.Fatalf("NewClassifier returned error: %v", err)
	}

	// 1 fallback + 2 street buckets + 1 boundary bucket
	if got := c.BucketCount(); got != 4 {
		t.Fatalf("Expected 4 buckets, got %d", got)
	}

	bucket, ok := c.Classify("water", map[string]interface{}{}, 5)
	if !ok || bucket.Index != 0 {
		t.Errorf("Expected water fallback at index 0, got %v ok=%v", bucket, ok)
	}
	bucket, ok = c.Classify("boundaries", map[string]interface{}{"admin_level": float64(2)}, 5)
	if !ok || bucket.Index != 3 {
		t.Errorf("Expected boundary bucket at index 3, got %v ok=%v", bucket, ok)
	}
}

func TestNewClassifierPrunesDeadBuckets(t *testing.T) {
	rules := &RuleFile{
		Layers: []LayerSpec{
			{
				Layer: "invisible",
				Buckets: []BucketSpec{
					{Style: Style{}}, // no visual effect
				},
			},
			{
				Layer:    "visible",
				Fallback: &Style{Fill: "#fff"},
			},
		},
	}

	c, err := NewClassifier(rules)
	if err != nil {
		t.Fatalf("NewClassifier returned error: %v", err)
	}
	if c.Tracked("invisible") {
		t.Error("Layer with only dead buckets must not be tracked")
	}
	if c.BucketCount() != 1 {
		t.Errorf("Expected 1 bucket after pruning, got %d", c.BucketCount())
	}
	bucket, ok := c.Classify("visible", nil, 0)
	if !ok || bucket.Index != 0 {
		t.Error("Pruned buckets must not consume paint-order indexes")
	}
}

func TestNewClassifierRejectsBadRules(t *testing.T) {
	tests := []struct {
		name  string
		rules *RuleFile
	}{
		{
			"missing layer name",
			&RuleFile{Layers: []LayerSpec{{Fallback: &Style{Fill: "#fff"}}}},
		},
		{
			"duplicate layer",
			&RuleFile{Layers: []LayerSpec{
				{Layer: "water", Fallback: &Style{Fill: "#fff"}},
				{Layer: "water", Fallback: &Style{Fill: "#000"}},
			}},
		},
		{
			"unknown predicate mode",
			&RuleFile{Layers: []LayerSpec{
				{Layer: "streets", Buckets: []BucketSpec{{
					When:  []PredicateSpec{{Key: "kind", Mode: "regex"}},
					Style: Style{Fill: "#fff"},
				}}},
			}},
		},
		{
			"predicate without key",
			&RuleFile{Layers: []LayerSpec{
				{Layer: "streets", Buckets: []BucketSpec{{
					When:  []PredicateSpec{{Values: []Value{{Kind: KindString, Str: "x"}}}},
					Style: Style{Fill: "#fff"},
				}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClassifier(tt.rules); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestClassify(t *testing.T) {
	c, err := NewClassifier(testRules())
	if err != nil {
		t.Fatalf("NewClassifier returned error: %v", err)
	}

	tests := []struct {
		name      string
		layer     string
		props     map[string]interface{}
		zoom      uint32
		wantIndex int
		wantOK    bool
	}{
		{"whitelist match", "streets", map[string]interface{}{"kind": "motorway"}, 5, 1, true},
		{"first match wins", "streets", map[string]interface{}{"kind": "trunk"}, 14, 1, true},
		{"blacklist admits other kinds", "streets", map[string]interface{}{"kind": "residential"}, 12, 2, true},
		{"blacklist rejects listed kind", "streets", map[string]interface{}{"kind": "path"}, 12, 0, false},
		{"zoom gate skips bucket", "streets", map[string]interface{}{"kind": "residential"}, 10, 0, false},
		{"absent key fails bucket", "streets", map[string]interface{}{}, 14, 0, false},
		{"fallback applies", "water", map[string]interface{}{"anything": 1}, 0, 0, true},
		{"untracked layer", "pois", map[string]interface{}{"kind": "cafe"}, 14, 0, false},
		{"number predicate matches", "boundaries", map[string]interface{}{"admin_level": float64(2)}, 3, 3, true},
		{"number predicate rejects string", "boundaries", map[string]interface{}{"admin_level": "2"}, 3, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, ok := c.Classify(tt.layer, tt.props, tt.zoom)
			if ok != tt.wantOK {
				t.Fatalf("Classify() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && bucket.Index != tt.wantIndex {
				t.Errorf("Classify() index = %d, want %d", bucket.Index, tt.wantIndex)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c, err := NewClassifier(testRules())
	if err != nil {
		t.Fatalf("NewClassifier returned error: %v", err)
	}

	props := map[string]interface{}{"kind": "motorway"}
	first, ok := c.Classify("streets", props, 10)
	if !ok {
		t.Fatal("Expected a match")
	}
	for i := 0; i < 100; i++ {
		bucket, ok := c.Classify("streets", props, 10)
		if !ok || bucket != first {
			t.Fatalf("Iteration %d produced a different result", i)
		}
	}
}

func TestDefaultRulesCompile(t *testing.T) {
	c, err := NewClassifier(DefaultRules())
	if err != nil {
		t.Fatalf("Built-in rules must compile, got error: %v", err)
	}
	if c.BucketCount() == 0 {
		t.Error("Built-in rules must produce buckets")
	}
	for _, layer := range []string{"ocean", "land", "streets", "buildings", "boundaries"} {
		if !c.Tracked(layer) {
			t.Errorf("Expected built-in rules to track layer %q", layer)
		}
	}
}
