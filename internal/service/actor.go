package service

import (
	"context"

	"github.com/SoyuzCL/pos-panchita/internal/audit"

	"github.com/google/uuid"
)

// Actor is the authenticated caller, as carried by the session token.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role string
}

func record(ctx context.Context, rec audit.Recorder, a Actor, action, details string) {
	if rec == nil {
		return
	}
	rec.Record(ctx, audit.Entry{ActorID: a.ID, ActorName: a.Name, Action: action, Details: details})
}
