package model

import "github.com/google/uuid"

// assignID fills an empty primary key before insert. Keys are generated in Go
// so that the same models work on Postgres and SQLite.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
