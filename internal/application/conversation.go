package application

import "sync"

// Phase of an active labelling conversation. The two awaiting phases are
// behaviorally identical; the retry phase only exists so logs can tell a
// first attempt from a re-prompt.
type Phase int

const (
	PhaseAwaitingLabel Phase = iota
	PhaseAwaitingLabelRetry
)

// Conversation is the ephemeral per-user state between clip capture and
// label commit or cancel.
type Conversation struct {
	Phase         Phase
	PendingClipID string
}

// session serializes everything the relay does on behalf of one user.
// The lock is held across a full transition, storage calls included, so
// a second message from the same user always observes the completed
// state left by the first.
type session struct {
	mu   sync.Mutex
	conv *Conversation // nil when no conversation is active
}

// Conversations maps user identity to conversation state. Entries are
// created on first contact and kept for the life of the process; users
// never share state, so handlers for different users run in parallel.
type Conversations struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func NewConversations() *Conversations {
	return &Conversations{sessions: make(map[int64]*session)}
}

func (c *Conversations) session(userID int64) *session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[userID]
	if !ok {
		s = &session{}
		c.sessions[userID] = s
	}
	return s
}
