package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// LogPublisher publicador usado cuando no hay brokers configurados: solo registra el evento.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event inventory.DocumentPostedEvent) error {
	p.log.Info().
		Str("event_id", event.EventID).
		Str("document_type", event.DocumentType).
		Str("document_id", event.DocumentID).
		Str("document_number", event.DocumentNumber).
		Int("movements", len(event.Movements)).
		Msg("documento posteado")
	return nil
}
