package main

import (
	"errors"
)

// editSession bounds one run of the review flow: one captured selection, one
// version history. Constructed when the editor opens on a selection and
// discarded on close or after a successful apply.
type editSession struct {
	Selection          *selectionContext
	History            *editHistory
	CustomInstructions string
}

func newEditSession(selection *selectionContext, customInstructions string) *editSession {
	return &editSession{
		Selection:          selection,
		History:            newEditHistory(),
		CustomInstructions: customInstructions,
	}
}

// InitialMessages builds the first completion request of the session.
func (s *editSession) InitialMessages(instructions string) []chatMessage {
	return initialMessages(s.Selection.Text(), instructions, s.CustomInstructions)
}

// FollowUpMessages builds a later round. The request is anchored to the
// originally selected text and carries every decision made on the latest
// version, so the returned diff stays relative to the original.
func (s *editSession) FollowUpMessages(instructions string) []chatMessage {
	var decisions []decision
	if latest := s.History.LatestVersion(); latest != nil {
		decisions = decisionsFromSegments(latest.Segments)
	}
	return followUpMessages(s.Selection.Text(), instructions, s.CustomInstructions, decisions)
}

// Record appends a new version built from a successful response.
func (s *editSession) Record(segments []segment) {
	s.History.Append(version{Original: s.Selection.Text(), Segments: segments})
}

// Apply projects the currently viewed version, writes it back through the
// selection, and clears the history so nothing leaks into the next session.
func (s *editSession) Apply() (string, error) {
	current := s.History.CurrentVersion()
	if current == nil {
		return "", errors.New("no version to apply")
	}
	final, err := s.Selection.applyReplacement(acceptedText(current.Segments))
	if err != nil {
		return "", err
	}
	s.History.Clear()
	return final, nil
}
