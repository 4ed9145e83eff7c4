// Package audit emits the structured audit trail for account and catalog
// events. Entries are regular zerolog lines tagged audit=true so the log
// pipeline can route them to long-term retention.
package audit

import (
	"strings"

	"github.com/rs/zerolog"
)

type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record writes one audit entry. Fields named "email" are masked before
// they reach the log stream.
func (l *Logger) Record(action string, fields map[string]string) {
	evt := l.log.Info().Str("action", action)
	for k, v := range fields {
		if strings.Contains(k, "email") {
			v = maskEmail(v)
		}
		evt = evt.Str(k, v)
	}
	evt.Msg("audit")
}

// maskEmail keeps the first two characters and the domain.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 || len(email) < 5 {
		return "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
