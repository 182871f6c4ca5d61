package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/mehular0ra/propfinder/internal/mailer"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func TestNotifySendsEachMessage(t *testing.T) {
	fake := &fakeMailer{}
	notify(zerolog.Nop(), fake,
		mailer.Message{To: "owner@example.com", Subject: "Your listing is live"},
		mailer.Message{To: "admin@example.com", Subject: "New property listed"},
	)

	assert.Len(t, fake.sent, 2)
}

func TestNotifySkipsMissingRecipients(t *testing.T) {
	fake := &fakeMailer{}
	notify(zerolog.Nop(), fake,
		mailer.Message{To: "", Subject: "Your listing is live"},
		mailer.Message{To: "admin@example.com", Subject: "New property listed"},
	)

	assert.Len(t, fake.sent, 1)
	assert.Equal(t, "admin@example.com", fake.sent[0].To)
}

func TestNotifySwallowsSendFailures(t *testing.T) {
	fake := &fakeMailer{err: errors.New("smtp unreachable")}

	// Must not panic or propagate; failures are logged and discarded.
	notify(zerolog.Nop(), fake,
		mailer.Message{To: "owner@example.com", Subject: "Your listing is live"},
		mailer.Message{To: "admin@example.com", Subject: "New property listed"},
	)

	assert.Len(t, fake.sent, 2)
}
