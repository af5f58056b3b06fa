package model

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the caller did not provide one.
// Keys are generated in the application so every dialect behaves the same.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
