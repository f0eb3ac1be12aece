package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AssessmentsSavedEvent struct {
	Type       string `json:"type"`
	SkillSetID string `json:"skill_set_id"`
	Count      int    `json:"count"`
	Timestamp  string `json:"timestamp"`
}

type EntrySharedEvent struct {
	Type      string `json:"type"`
	EntryID   string `json:"entry_id"`
	Timestamp string `json:"timestamp"`
}

// Notifier turns domain events into websocket messages. A nil Notifier
// is safe and drops everything.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// AssessmentsSaved tells the user's other sessions that their
// self-assessment dictionary changed.
func (n *Notifier) AssessmentsSaved(userID, skillSetID uuid.UUID, count int) {
	if n == nil || n.hub == nil {
		return
	}

	evt := AssessmentsSavedEvent{
		Type:       "assessments_saved",
		SkillSetID: skillSetID.String(),
		Count:      count,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Publish([]uuid.UUID{userID}, b)
}

// EntryShared tells each recipient that an entry was shared with them.
func (n *Notifier) EntryShared(entryID uuid.UUID, userIDs []uuid.UUID) {
	if n == nil || n.hub == nil {
		return
	}

	evt := EntrySharedEvent{
		Type:      "entry_shared",
		EntryID:   entryID.String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Publish(userIDs, b)
}
