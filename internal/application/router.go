package application

import (
	"context"
	"errors"
	"strings"

	"voicebot/internal/domain"
)

const (
	startCommand  = "/start"
	cancelCommand = "/cancel"
	commandPrefix = "/"
)

// Reply wording is part of the bot's observable behavior; tests assert
// on these exact strings.
const (
	greetingReply = "I'm a bot, please talk to me!"

	savePromptReply = "Voice saved! Please send me a command which you want it to refer to! " +
		"Just write down the word (without /?! or ~). Or just send /cancel if you changed your mind."

	supersededNote = "Your previous unsaved voice has been discarded."

	wrongLabelReply = "Sry, your message contains something beside characters and underscore, " +
		"please enter another one!"

	labelTakenReply = "Sry, this command is already taken, please enter another one!"

	savedReply = `Voice message is saved! You can access it by sending it with "-" prefix, check it out!`

	cancelReply = "Bye! Don't be afraid, voice message is going to be deleted right now!"

	nothingFoundReply = "Sorry, nothing found for this command"

	unknownReply = "Sorry, I didn't understand that command."

	failureReply = "Sorry, something went wrong on my side, please try again!"
)

// Handle classifies one inbound message and runs the matching handler,
// first match wins: start greeting, voice capture, input to an active
// conversation, marker-prefixed retrieval, unknown command. Plain text
// that matches none of these is ignored. The per-user session lock makes
// each transition atomic with respect to the same user's next message.
func (r *Relay) Handle(ctx context.Context, msg domain.Message) domain.Reply {
	if msg.Text == startCommand {
		return r.handleStart(msg)
	}

	s := r.conversations.session(msg.UserID)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case msg.HasVoice():
		return r.beginConversation(ctx, s, msg)
	case s.conv != nil && msg.Text != "":
		if msg.Text == cancelCommand {
			return r.handleCancel(ctx, s, msg)
		}
		return r.handleLabel(ctx, s, msg)
	case domain.IsRetrieval(msg.Text):
		return r.handleRetrieve(ctx, msg)
	case strings.HasPrefix(msg.Text, commandPrefix):
		return r.handleUnknown(msg)
	}

	return domain.Reply{}
}

func (r *Relay) handleStart(msg domain.Message) domain.Reply {
	r.logger.Info("user started bot", "user", msg.Sender, "user_id", msg.UserID)
	return domain.Reply{ChatID: msg.ChatID, Text: greetingReply}
}

// beginConversation archives the incoming voice and opens the labelling
// conversation. A voice arriving while a conversation is already pending
// supersedes it: the new blob is written first, so a failed write leaves
// the prior conversation untouched, then the old pending blob is removed.
func (r *Relay) beginConversation(ctx context.Context, s *session, msg domain.Message) domain.Reply {
	clipID := domain.NewClipID(msg.UserID, msg.VoiceID)

	if err := r.archive.Write(ctx, clipID, msg.Voice); err != nil {
		r.logger.Error("archiving voice", "user_id", msg.UserID, "clip_id", clipID, "error", err)
		r.notifyStorageFault(ctx, err)
		return domain.Reply{ChatID: msg.ChatID, Text: failureReply}
	}

	superseded := false
	if s.conv != nil {
		superseded = true
		old := s.conv.PendingClipID
		// A re-sent voice can carry the same file id; the write above
		// already replaced the blob and there is nothing stale to remove.
		if old != clipID {
			if err := r.archive.Delete(ctx, old); err != nil && !errors.Is(err, domain.ErrNotFound) {
				r.logger.Error("deleting superseded clip", "clip_id", old, "error", err)
				r.notifyStorageFault(ctx, err)
			}
		}
		r.logger.Info("pending clip superseded",
			"user_id", msg.UserID, "old_clip_id", old, "new_clip_id", clipID)
	}

	s.conv = &Conversation{Phase: PhaseAwaitingLabel, PendingClipID: clipID}

	r.logger.Info("voice stored",
		"user", msg.Sender, "user_id", msg.UserID, "clip_id", clipID)

	text := savePromptReply
	if superseded {
		text = supersededNote + " " + savePromptReply
	}
	return domain.Reply{ChatID: msg.ChatID, Text: text}
}

func (r *Relay) handleLabel(ctx context.Context, s *session, msg domain.Message) domain.Reply {
	if err := domain.ValidateLabel(msg.Text); err != nil {
		retry := s.conv.Phase == PhaseAwaitingLabelRetry
		s.conv.Phase = PhaseAwaitingLabelRetry
		r.logger.Info("rejected label",
			"user_id", msg.UserID, "label", msg.Text, "retry", retry, "reason", err)
		return domain.Reply{ChatID: msg.ChatID, Text: wrongLabelReply}
	}

	rec := domain.ClipRecord{
		OwnerID: msg.UserID,
		ClipID:  s.conv.PendingClipID,
		Label:   domain.Labeled(msg.Text),
	}

	if err := r.store.Insert(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrLabelTaken) {
			s.conv.Phase = PhaseAwaitingLabelRetry
			r.logger.Info("label collision", "user_id", msg.UserID, "label", rec.Label)
			return domain.Reply{ChatID: msg.ChatID, Text: labelTakenReply}
		}
		// Conversation keeps its state; only a confirmed insert ends it.
		r.logger.Error("inserting clip record",
			"user_id", msg.UserID, "clip_id", rec.ClipID, "error", err)
		r.notifyStorageFault(ctx, err)
		return domain.Reply{ChatID: msg.ChatID, Text: failureReply}
	}

	r.logger.Info("label set",
		"user", msg.Sender, "user_id", msg.UserID, "clip_id", rec.ClipID, "label", rec.Label)
	s.conv = nil
	return domain.Reply{ChatID: msg.ChatID, Text: savedReply}
}

func (r *Relay) handleCancel(ctx context.Context, s *session, msg domain.Message) domain.Reply {
	clipID := s.conv.PendingClipID
	if err := r.archive.Delete(ctx, clipID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		r.logger.Error("deleting cancelled clip",
			"user_id", msg.UserID, "clip_id", clipID, "error", err)
		r.notifyStorageFault(ctx, err)
		return domain.Reply{ChatID: msg.ChatID, Text: failureReply}
	}

	r.logger.Info("conversation cancelled, clip deleted",
		"user", msg.Sender, "user_id", msg.UserID, "clip_id", clipID)
	s.conv = nil
	return domain.Reply{ChatID: msg.ChatID, Text: cancelReply}
}

func (r *Relay) handleRetrieve(ctx context.Context, msg domain.Message) domain.Reply {
	rec, err := r.store.Lookup(ctx, msg.Text)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Info("retrieval miss", "user_id", msg.UserID, "label", msg.Text)
			return domain.Reply{ChatID: msg.ChatID, Text: nothingFoundReply}
		}
		r.logger.Error("looking up label", "label", msg.Text, "error", err)
		r.notifyStorageFault(ctx, err)
		return domain.Reply{ChatID: msg.ChatID, Text: failureReply}
	}

	voice, err := r.archive.Read(ctx, rec.ClipID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Record without blob: store and archive disagree.
			r.logger.Warn("archived clip missing", "clip_id", rec.ClipID, "label", msg.Text)
			return domain.Reply{ChatID: msg.ChatID, Text: nothingFoundReply}
		}
		r.logger.Error("reading archived clip", "clip_id", rec.ClipID, "error", err)
		r.notifyStorageFault(ctx, err)
		return domain.Reply{ChatID: msg.ChatID, Text: failureReply}
	}

	r.logger.Info("retrieved clip",
		"user", msg.Sender, "user_id", msg.UserID, "clip_id", rec.ClipID, "label", msg.Text)
	return domain.Reply{ChatID: msg.ChatID, Voice: voice}
}

func (r *Relay) handleUnknown(msg domain.Message) domain.Reply {
	r.logger.Info("unknown command", "user_id", msg.UserID, "text", msg.Text)
	return domain.Reply{ChatID: msg.ChatID, Text: unknownReply}
}
