package main

import (
	"errors"
	"testing"
)

func seg(kind segmentKind, text string, accepted bool) segment {
	return segment{Kind: kind, Text: text, Accepted: accepted}
}

func TestRenderUnits_PairsAdjacentDeleteInsert(t *testing.T) {
	segments := []segment{
		seg(segmentEqual, "The ", true),
		seg(segmentDelete, "cat", true),
		seg(segmentInsert, "dog", true),
		seg(segmentEqual, " sat.", true),
	}
	units := renderUnits(segments)
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(units))
	}
	pair := units[1]
	if pair.Kind != unitPair {
		t.Fatalf("expected middle unit to be a pair")
	}
	if pair.DeleteIndex != 1 || pair.InsertIndex != 2 {
		t.Errorf("pair covers indices %d,%d, want 1,2", pair.DeleteIndex, pair.InsertIndex)
	}
	if !pair.Interactive {
		t.Errorf("pair must carry controls")
	}
	if units[0].Interactive || units[2].Interactive {
		t.Errorf("equal units must not carry controls")
	}
}

func TestRenderUnits_PairingIsLocal(t *testing.T) {
	// A delete with an equal in between is never paired with a later insert.
	segments := []segment{
		seg(segmentDelete, "old", true),
		seg(segmentEqual, " middle ", true),
		seg(segmentInsert, "new", true),
	}
	units := renderUnits(segments)
	if len(units) != 3 {
		t.Fatalf("expected 3 standalone units, got %d", len(units))
	}
	for i, unit := range units {
		if unit.Kind != unitStandalone {
			t.Errorf("unit %d should be standalone", i)
		}
	}
	if !units[0].Interactive || !units[2].Interactive {
		t.Errorf("unpaired delete and insert still carry controls")
	}
}

func TestRenderUnits_InsertBeforeDeleteNotPaired(t *testing.T) {
	segments := []segment{
		seg(segmentInsert, "new", true),
		seg(segmentDelete, "old", true),
	}
	units := renderUnits(segments)
	if len(units) != 2 {
		t.Fatalf("insert followed by delete must stay standalone, got %d units", len(units))
	}
}

func TestAcceptedText(t *testing.T) {
	tests := []struct {
		name     string
		segments []segment
		want     string
	}{
		{
			name: "all accepted",
			segments: []segment{
				seg(segmentEqual, "The ", true),
				seg(segmentDelete, "cat", true),
				seg(segmentInsert, "dog", true),
				seg(segmentEqual, " sat.", true),
			},
			want: "The dog sat.",
		},
		{
			name: "pair rejected keeps original",
			segments: []segment{
				seg(segmentEqual, "The ", true),
				seg(segmentDelete, "cat", false),
				seg(segmentInsert, "dog", false),
				seg(segmentEqual, " sat.", true),
			},
			want: "The cat sat.",
		},
		{
			name: "standalone rejected insert dropped",
			segments: []segment{
				seg(segmentEqual, "Hello", true),
				seg(segmentInsert, " world", false),
			},
			want: "Hello",
		},
		{
			name: "standalone accepted delete removed",
			segments: []segment{
				seg(segmentEqual, "keep ", true),
				seg(segmentDelete, "drop", true),
			},
			want: "keep ",
		},
		{
			name:     "empty",
			segments: nil,
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := acceptedText(tt.segments); got != tt.want {
				t.Errorf("acceptedText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAcceptedText_Pure(t *testing.T) {
	segments := []segment{
		seg(segmentEqual, "a", true),
		seg(segmentDelete, "b", true),
		seg(segmentInsert, "c", false),
	}
	first := acceptedText(segments)
	second := acceptedText(segments)
	if first != second {
		t.Errorf("projection is not idempotent: %q then %q", first, second)
	}
}

func TestDecodeSegments(t *testing.T) {
	content := `{"diff_segments":[{"type":"equal","text":"The "},{"type":"delete","text":"cat"},{"type":"insert","text":"dog"}]}`
	segments, err := decodeSegments(content)
	if err != nil {
		t.Fatalf("decodeSegments: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	for i, s := range segments {
		if !s.Accepted {
			t.Errorf("segment %d must default to accepted", i)
		}
	}
	if segments[1].Kind != segmentDelete || segments[1].Text != "cat" {
		t.Errorf("unexpected segment: %+v", segments[1])
	}
}

func TestDecodeSegments_StripsCodeFence(t *testing.T) {
	fenced := "```json\n{\"diff_segments\":[{\"type\":\"equal\",\"text\":\"hi\"}]}\n```"
	segments, err := decodeSegments(fenced)
	if err != nil {
		t.Fatalf("decodeSegments with fence: %v", err)
	}
	if len(segments) != 1 || segments[0].Text != "hi" {
		t.Fatalf("unexpected segments: %+v", segments)
	}
}

func TestDecodeSegments_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "sorry, I cannot help with that"},
		{name: "missing diff_segments", content: `{"changes":[]}`},
		{name: "unknown type", content: `{"diff_segments":[{"type":"replace","text":"x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeSegments(tt.content)
			var pErr *parseError
			if !errors.As(err, &pErr) {
				t.Fatalf("expected parseError, got %v", err)
			}
		})
	}
}

func TestStripCodeFences_NoFence(t *testing.T) {
	if got := stripCodeFences("  plain  "); got != "plain" {
		t.Errorf("stripCodeFences trimmed to %q", got)
	}
}
