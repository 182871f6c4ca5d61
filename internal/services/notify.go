package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mehular0ra/propfinder/internal/mailer"
)

// notify dispatches best-effort emails. Failures are logged and swallowed;
// callers run it in a goroutine after the primary mutation has committed so
// mail can never block or roll back a response. Messages without a
// recipient are skipped.
func notify(log zerolog.Logger, m mailer.Mailer, msgs ...mailer.Message) {
	for _, msg := range msgs {
		if msg.To == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := m.Send(ctx, msg); err != nil {
			log.Error().Err(err).Str("to", msg.To).Str("subject", msg.Subject).Msg("notification email failed")
		}
		cancel()
	}
}
