package main

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

type segmentKind string

const (
	segmentEqual  segmentKind = "equal"
	segmentDelete segmentKind = "delete"
	segmentInsert segmentKind = "insert"
)

// segment is one atomic unit of a model-proposed edit. Delete and insert
// segments carry a mutable accepted flag; equal segments are always kept.
type segment struct {
	Kind     segmentKind `json:"type"`
	Text     string      `json:"text"`
	Accepted bool        `json:"accepted"`
}

func (s segment) changeable() bool {
	return s.Kind == segmentDelete || s.Kind == segmentInsert
}

type unitKind int

const (
	unitStandalone unitKind = iota
	unitPair
)

// renderUnit groups one or two adjacent segments into a single reviewable
// item. A pair covers a delete immediately followed by an insert and shares
// one accept/reject control; everything else is standalone.
type renderUnit struct {
	Kind        unitKind
	DeleteIndex int // -1 when the unit has no delete member
	InsertIndex int // -1 when the unit has no insert member
	EqualIndex  int // -1 unless the unit is a standalone equal segment
	Accepted    bool
	Interactive bool
}

// indices returns the segment indices covered by the unit in sequence order.
func (u renderUnit) indices() []int {
	switch {
	case u.Kind == unitPair:
		return []int{u.DeleteIndex, u.InsertIndex}
	case u.EqualIndex >= 0:
		return []int{u.EqualIndex}
	case u.DeleteIndex >= 0:
		return []int{u.DeleteIndex}
	default:
		return []int{u.InsertIndex}
	}
}

// renderUnits projects a flat segment sequence into reviewable units.
// Pairing is greedy and local: a delete is paired only with the segment
// immediately after it, never with a later insert.
func renderUnits(segments []segment) []renderUnit {
	var units []renderUnit
	for i := 0; i < len(segments); {
		seg := segments[i]
		if seg.Kind == segmentDelete && i+1 < len(segments) && segments[i+1].Kind == segmentInsert {
			units = append(units, renderUnit{
				Kind:        unitPair,
				DeleteIndex: i,
				InsertIndex: i + 1,
				EqualIndex:  -1,
				Accepted:    seg.Accepted,
				Interactive: true,
			})
			i += 2
			continue
		}
		unit := renderUnit{Kind: unitStandalone, DeleteIndex: -1, InsertIndex: -1, EqualIndex: -1, Accepted: true}
		switch seg.Kind {
		case segmentEqual:
			unit.EqualIndex = i
		case segmentDelete:
			unit.DeleteIndex = i
			unit.Accepted = seg.Accepted
			unit.Interactive = true
		case segmentInsert:
			unit.InsertIndex = i
			unit.Accepted = seg.Accepted
			unit.Interactive = true
		}
		units = append(units, unit)
		i++
	}
	return units
}

// acceptedText reconstructs the output text implied by the current accept
// and reject decisions. Equal text always survives, accepted insertions are
// added, and rejected deletions keep the original text in place.
func acceptedText(segments []segment) string {
	var b strings.Builder
	for _, seg := range segments {
		switch seg.Kind {
		case segmentEqual:
			b.WriteString(seg.Text)
		case segmentInsert:
			if seg.Accepted {
				b.WriteString(seg.Text)
			}
		case segmentDelete:
			if !seg.Accepted {
				b.WriteString(seg.Text)
			}
		}
	}
	return b.String()
}

type diffEnvelope struct {
	DiffSegments []wireSegment `json:"diff_segments"`
}

type wireSegment struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

var codeFencePattern = regexp.MustCompile("(?s)```(?:json)?\\n?(.*?)\\n?```")

// stripCodeFences removes a markdown code fence the model may have wrapped
// around its JSON payload.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if matches := codeFencePattern.FindStringSubmatch(trimmed); matches != nil {
		return strings.TrimSpace(matches[1])
	}
	return trimmed
}

// decodeSegments parses the assistant message content into a segment
// sequence. Every returned delete/insert segment starts accepted.
func decodeSegments(content string) ([]segment, error) {
	cleaned := stripCodeFences(content)
	var envelope diffEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, &parseError{Reason: fmt.Sprintf("response is not valid JSON: %v", err)}
	}
	if envelope.DiffSegments == nil {
		return nil, &parseError{Reason: "response is missing the diff_segments array"}
	}
	segments := make([]segment, 0, len(envelope.DiffSegments))
	for i, ws := range envelope.DiffSegments {
		kind := segmentKind(ws.Type)
		switch kind {
		case segmentEqual, segmentDelete, segmentInsert:
		default:
			return nil, &parseError{Reason: fmt.Sprintf("segment %d has unknown type %q", i, ws.Type)}
		}
		segments = append(segments, segment{Kind: kind, Text: ws.Text, Accepted: true})
	}
	return segments, nil
}
