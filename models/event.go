package models

import "time"

// EventStatus mirrors the platform's scheduled event status.
type EventStatus int

const (
	EventStatusScheduled EventStatus = 1
	EventStatusActive    EventStatus = 2
	EventStatusCompleted EventStatus = 3
	EventStatusCanceled  EventStatus = 4
)

// Active reports whether the event is ongoing or yet to happen.
func (s EventStatus) Active() bool {
	return s == EventStatusScheduled || s == EventStatusActive
}

// Event is a guild scheduled event at the platform boundary.
type Event struct {
	ID          string
	GuildID     string
	Name        string
	Description string
	CreatorID   string
	Location    string // entity metadata, external events only
	Image       string // cover image hash
	StartsAt    time.Time
	EndsAt      *time.Time
	Status      EventStatus
}

// EventRow is a row of a guild's event table.
type EventRow struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Creator     string     `db:"creator"`
	Location    *string    `db:"location"`
	Image       *string    `db:"image"`
	StartsAt    time.Time  `db:"starts_at"`
	EndsAt      *time.Time `db:"ends_at"`
}
