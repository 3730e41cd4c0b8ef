// Package sse implements Server-Sent Events so the catalogue page can
// refresh without polling: reload progress, user-data changes, and
// connection keepalives.
package sse

import (
	"time"
)

// EventType represents the type of SSE event.
type EventType string

const (
	// EventCatalogueReloading signals that a catalogue reload has started.
	EventCatalogueReloading EventType = "catalogue.reloading"
	// EventCatalogueReloaded signals that a reload finished and views
	// should be recomputed.
	EventCatalogueReloaded EventType = "catalogue.reloaded"
	// EventCatalogueReloadFailed signals a reload failure; the previous
	// catalogue remains in effect.
	EventCatalogueReloadFailed EventType = "catalogue.reload_failed"

	// EventFavoriteChanged signals a favorite was added or removed.
	EventFavoriteChanged EventType = "favorite.changed"
	// EventReadingListChanged signals a reading list was created,
	// updated, or deleted.
	EventReadingListChanged EventType = "readinglist.changed"
	// EventNoteChanged signals a note was set or deleted.
	EventNoteChanged EventType = "note.changed"
	// EventSavedSearchChanged signals a saved search was created or
	// deleted.
	EventSavedSearchChanged EventType = "savedsearch.changed"
	// EventPreferencesUpdated signals display preferences changed.
	EventPreferencesUpdated EventType = "preferences.updated"

	// EventHeartbeat is a connection keepalive.
	EventHeartbeat EventType = "heartbeat"
)

// Event is an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
	Type      EventType `json:"type"`
}

// CatalogueReloadedData is the payload for catalogue.reloaded events.
type CatalogueReloadedData struct {
	ReloadedAt time.Time `json:"reloaded_at"`
	Books      int       `json:"books"`
	Partitions int       `json:"partitions"`
}

// CatalogueReloadFailedData is the payload for reload failure events.
type CatalogueReloadFailedData struct {
	FailedAt time.Time `json:"failed_at"`
	Error    string    `json:"error"`
}

// ChangeData is the payload for user-data change events. Action is
// "set" or "deleted"; ID names the affected record (book ID, list ID,
// or saved-search ID).
type ChangeData struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

// HeartbeatData is the payload for heartbeat events.
type HeartbeatData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewCatalogueReloadingEvent creates a catalogue.reloading event.
func NewCatalogueReloadingEvent() Event {
	return Event{
		Type:      EventCatalogueReloading,
		Timestamp: time.Now(),
	}
}

// NewCatalogueReloadedEvent creates a catalogue.reloaded event.
func NewCatalogueReloadedEvent(books, partitions int) Event {
	return Event{
		Type: EventCatalogueReloaded,
		Data: CatalogueReloadedData{
			ReloadedAt: time.Now(),
			Books:      books,
			Partitions: partitions,
		},
		Timestamp: time.Now(),
	}
}

// NewCatalogueReloadFailedEvent creates a catalogue.reload_failed event.
func NewCatalogueReloadFailedEvent(err error) Event {
	return Event{
		Type: EventCatalogueReloadFailed,
		Data: CatalogueReloadFailedData{
			FailedAt: time.Now(),
			Error:    err.Error(),
		},
		Timestamp: time.Now(),
	}
}

// NewChangeEvent creates a user-data change event of the given type.
func NewChangeEvent(eventType EventType, id, action string) Event {
	return Event{
		Type:      eventType,
		Data:      ChangeData{ID: id, Action: action},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatData{ServerTime: time.Now()},
		Timestamp: time.Now(),
	}
}
