// Package telemetry records operational events from the match engine into
// the telemetry store. Emission is best-effort plumbing around the store;
// callers decide whether a failed emit matters.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickkiley-hue/Commander-Sphere/internal/platform/id"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/storage"
)

// Emitter records operational telemetry events.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.EventID == "" {
		generated, err := id.NewID()
		if err != nil {
			return fmt.Errorf("generate event id: %w", err)
		}
		evt.EventID = generated
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}

// EmitSession records an event scoped to one live session.
func (e *Emitter) EmitSession(ctx context.Context, name, groupID, gameID string, attrs map[string]string) error {
	return e.Emit(ctx, storage.TelemetryEvent{
		EventName:  name,
		GroupID:    groupID,
		GameID:     gameID,
		Attributes: attrs,
	})
}
