// Package id generates identifiers for stored records.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PrefixTicket prefixes stored ticket IDs.
const PrefixTicket = "tkt"

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "tkt-V1StGXR8_Z5jdHi6B-myT")
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// NewBatchID identifies one import batch. Batches use UUIDs so they sort apart from record IDs in logs.
func NewBatchID() string {
	return uuid.NewString()
}
