// Package domain defines the core types shared by the matching engine, storage and API layers.
package domain

import "time"

// TicketLanes is the number of key lanes on a lane ticket.
const TicketLanes = 7

// Ticket is a randomized key-lane assignment owned by a player.
// LaneText is a permutation of "1234567"; Expiration is an opaque display string.
type Ticket struct {
	LaneText   string `json:"laneText" yaml:"laneText" validate:"required,len=7,ticketlanes"`
	Expiration string `json:"expiration,omitempty" yaml:"expiration,omitempty" validate:"omitempty,expiration"`
}

// PlaySide selects which side of the cabinet the scratch sits on.
type PlaySide string

// Play sides.
const (
	Side1P PlaySide = "1P"
	Side2P PlaySide = "2P"
)

// Valid reports whether s is a known play side.
func (s PlaySide) Valid() bool {
	return s == Side1P || s == Side2P
}

// String implements fmt.Stringer.
func (s PlaySide) String() string {
	return string(s)
}

// StoredTicket is a ticket persisted in the player's ticket list.
type StoredTicket struct {
	ID       string `json:"id"`
	ImportID string `json:"importId"`
	Ticket
	CreatedAt time.Time `json:"createdAt"`
}

// ImportMode decides what happens to existing tickets on import.
type ImportMode string

// Import modes.
const (
	ImportReplace ImportMode = "replace"
	ImportAppend  ImportMode = "append"
)

// ImportBatch records one ticket import.
type ImportBatch struct {
	ID          string     `json:"id"`
	Mode        ImportMode `json:"mode"`
	TicketCount int        `json:"ticketCount"`
	CreatedAt   time.Time  `json:"createdAt"`
}
