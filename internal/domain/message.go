package domain

// Message is one inbound message, normalized for routing. Voice bytes
// are downloaded by the transport adapter before the message reaches the
// router.
type Message struct {
	UserID  int64
	ChatID  int64
	Sender  string
	Text    string
	Voice   []byte
	VoiceID string
}

func (m Message) HasVoice() bool {
	return len(m.Voice) > 0
}

// Reply is the single outbound message produced for a handled update.
// When Voice is set the reply is an audio payload, otherwise Text. The
// zero Reply means nothing is sent.
type Reply struct {
	ChatID int64
	Text   string
	Voice  []byte
}

func (r Reply) IsZero() bool {
	return r.Text == "" && len(r.Voice) == 0
}
