package detect

import (
	"image"
	"testing"
)

func TestFilter_AllModeIsIdentity(t *testing.T) {
	dets := []Detection{
		{Class: "knife", Confidence: 0.92, Box: image.Rect(10, 10, 60, 70)},
		{Class: "person", Confidence: 0.81, Box: image.Rect(100, 100, 140, 180)},
		{Class: "cup", Confidence: 0.55, Box: image.Rect(5, 5, 20, 20)},
	}

	got := Filter(dets, ModeAll)

	if len(got) != len(dets) {
		t.Fatalf("ModeAll changed length: got %d, want %d", len(got), len(dets))
	}
	for i := range dets {
		if got[i] != dets[i] {
			t.Errorf("ModeAll changed element %d: got %+v, want %+v", i, got[i], dets[i])
		}
	}
}

func TestFilter_DangerousOnly(t *testing.T) {
	tests := []struct {
		name   string
		in     []Detection
		expect []string
	}{
		{
			name: "knife kept, person dropped",
			in: []Detection{
				{Class: "knife", Confidence: 0.92, Box: image.Rect(10, 10, 60, 70)},
				{Class: "person", Confidence: 0.81, Box: image.Rect(100, 100, 140, 180)},
			},
			expect: []string{"knife"},
		},
		{
			name: "all three dangerous classes kept in order",
			in: []Detection{
				{Class: "scissors", Confidence: 0.7},
				{Class: "baseball bat", Confidence: 0.6},
				{Class: "knife", Confidence: 0.9},
			},
			expect: []string{"scissors", "baseball bat", "knife"},
		},
		{
			name: "nothing dangerous",
			in: []Detection{
				{Class: "cup", Confidence: 0.9},
				{Class: "dog", Confidence: 0.8},
			},
			expect: nil,
		},
		{
			name:   "empty input",
			in:     nil,
			expect: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(tc.in, ModeDangerous)
			if len(got) != len(tc.expect) {
				t.Fatalf("got %d detections, want %d", len(got), len(tc.expect))
			}
			for i, d := range got {
				if d.Class != tc.expect[i] {
					t.Errorf("element %d: got class %q, want %q", i, d.Class, tc.expect[i])
				}
				if !IsDangerous(d.Class) {
					t.Errorf("element %d: %q is not in the dangerous set", i, d.Class)
				}
			}
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	dets := []Detection{
		{Class: "knife", Confidence: 0.92},
		{Class: "person", Confidence: 0.81},
		{Class: "scissors", Confidence: 0.65},
	}

	for _, mode := range []Mode{ModeAll, ModeDangerous} {
		once := Filter(dets, mode)
		twice := Filter(once, mode)

		if len(once) != len(twice) {
			t.Fatalf("mode %v: second filter changed length %d -> %d", mode, len(once), len(twice))
		}
		for i := range once {
			if once[i] != twice[i] {
				t.Errorf("mode %v: element %d changed on second filter", mode, i)
			}
		}
	}
}

func TestIsDangerous(t *testing.T) {
	tests := []struct {
		class  string
		expect bool
	}{
		{"knife", true},
		{"scissors", true},
		{"baseball bat", true},
		{"person", false},
		{"baseball glove", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsDangerous(tc.class); got != tc.expect {
			t.Errorf("IsDangerous(%q): got %v, want %v", tc.class, got, tc.expect)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		mode Mode
		ok   bool
	}{
		{"all", ModeAll, true},
		{"dangerous", ModeDangerous, true},
		{"", ModeAll, false},
		{"everything", ModeAll, false},
		{"DANGEROUS", ModeAll, false},
	}

	for _, tc := range tests {
		mode, ok := ParseMode(tc.in)
		if ok != tc.ok || mode != tc.mode {
			t.Errorf("ParseMode(%q): got (%v, %v), want (%v, %v)", tc.in, mode, ok, tc.mode, tc.ok)
		}
	}
}

func TestCOCOClasses_ContainsDangerousSet(t *testing.T) {
	found := map[string]bool{}
	for _, name := range COCOClasses {
		if DangerousClasses[name] {
			found[name] = true
		}
	}
	if len(found) != len(DangerousClasses) {
		t.Errorf("dangerous set not fully covered by COCO labels: found %v", found)
	}
}
