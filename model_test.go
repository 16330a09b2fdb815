package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) *model {
	t.Helper()
	session, _ := fileSession(t, "The cat sat.")
	client := newCompletionClient("http://127.0.0.1:0", "test-model", "test-key", 0)
	return initialModel(session, client, nil, nil, zerolog.Nop())
}

func TestHandleRound_FailureLeavesHistoryUnchanged(t *testing.T) {
	m := testModel(t)
	m.phase = phaseLoading

	m.handleRound(completionRoundMsg{err: &parseError{Reason: "response is not valid JSON"}})

	assert.Zero(t, m.session.History.Len(), "a failed round must not append a version")
	assert.Equal(t, -1, m.session.History.Current)
	assert.Equal(t, statusError, m.statusKind)
	assert.Contains(t, m.status, "parse")
	assert.Equal(t, phasePrompt, m.phase, "first-round failure returns to the prompt")
}

func TestHandleRound_FailureAfterSuccessKeepsVersions(t *testing.T) {
	m := testModel(t)
	m.session.Record([]segment{
		seg(segmentEqual, "The ", true),
		seg(segmentDelete, "cat", true),
		seg(segmentInsert, "dog", true),
		seg(segmentEqual, " sat.", true),
	})
	m.phase = phaseLoading

	m.handleRound(completionRoundMsg{
		err:      &transportError{StatusCode: 500, Status: "Internal Server Error"},
		followUp: true,
	})

	require.Equal(t, 1, m.session.History.Len(), "stored versions survive a failed follow-up")
	assert.True(t, m.session.History.OnLatest())
	assert.Equal(t, statusError, m.statusKind)
	assert.Equal(t, phaseReview, m.phase, "the review stays open after a failed follow-up")
}

func TestHandleRound_SuccessAppendsVersion(t *testing.T) {
	m := testModel(t)
	m.phase = phaseLoading

	m.handleRound(completionRoundMsg{segments: []segment{
		seg(segmentEqual, "The ", true),
		seg(segmentDelete, "cat", true),
		seg(segmentInsert, "dog", true),
	}})

	assert.Equal(t, 1, m.session.History.Len())
	assert.Equal(t, phaseReview, m.phase)
	assert.Equal(t, statusInfo, m.statusKind)
	assert.Equal(t, 1, m.unitCursor, "cursor lands on the first interactive unit")
}
