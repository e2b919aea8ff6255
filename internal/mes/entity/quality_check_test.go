package entity

import "testing"

func TestQualityCheckEvaluate(t *testing.T) {
	cases := []struct {
		name   string
		value  float64
		min    float64
		max    float64
		passed bool
	}{
		{"inside range", 5.0, 4.5, 5.5, true},
		{"exactly min", 4.5, 4.5, 5.5, true},
		{"exactly max", 5.5, 4.5, 5.5, true},
		{"below min", 4.4, 4.5, 5.5, false},
		{"above max", 5.6, 4.5, 5.5, false},
		{"degenerate range", 3.0, 3.0, 3.0, true},
		{"negative bounds", -2.0, -3.0, -1.0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := QualityCheck{Value: tc.value, SpecificationMin: tc.min, SpecificationMax: tc.max}
			q.Evaluate()
			if q.Passed != tc.passed {
				t.Errorf("value=%v min=%v max=%v: expected passed=%v", tc.value, tc.min, tc.max, tc.passed)
			}
		})
	}
}
