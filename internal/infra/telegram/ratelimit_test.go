package telegram_test

import (
	"testing"
	"time"

	"voicebot/internal/infra/telegram"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := telegram.NewRateLimiter(2, time.Minute)

	if !rl.Allow(1) {
		t.Error("first message should be allowed")
	}
	if !rl.Allow(1) {
		t.Error("second message should be allowed")
	}
	if rl.Allow(1) {
		t.Error("third message should be denied")
	}

	// A different user has their own bucket.
	if !rl.Allow(2) {
		t.Error("other user's first message should be allowed")
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := telegram.NewRateLimiter(1, 20*time.Millisecond)

	if !rl.Allow(1) {
		t.Error("first message should be allowed")
	}
	if rl.Allow(1) {
		t.Error("second message should be denied")
	}

	time.Sleep(30 * time.Millisecond)

	if !rl.Allow(1) {
		t.Error("message after window reset should be allowed")
	}
}
