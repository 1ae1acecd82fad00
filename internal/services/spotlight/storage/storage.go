// Package storage defines persistence contracts for spotlight service state.
package storage

import (
	"context"
	"time"
)

// Video stores one promotional video in the spotlight pool.
//
// Position reflects the pool order: position 0 is the newest entry and is
// always part of the featured selection.
type Video struct {
	Key          string
	URL          string
	Title        string
	Description  string
	ThumbnailURL string
	Position     int
	CreatedAt    time.Time
}

// AuditEvent records one operational event emitted by the service.
type AuditEvent struct {
	EventName  string
	Severity   string
	Method     string
	Path       string
	StatusCode int
	TraceID    string
	SpanID     string
	Timestamp  time.Time
}

// VideoStore persists the spotlight video pool.
type VideoStore interface {
	// ReplaceVideos swaps the stored pool for the provided one atomically.
	// Readers never observe a partially replaced pool.
	ReplaceVideos(ctx context.Context, videos []Video) error
	// ListVideos returns the full pool in position order.
	ListVideos(ctx context.Context) ([]Video, error)
	Close() error
}

// AuditEventStore persists operational audit events.
type AuditEventStore interface {
	AppendAuditEvent(ctx context.Context, evt AuditEvent) error
	// ListAuditEvents returns the most recent events, newest first.
	ListAuditEvents(ctx context.Context, limit int) ([]AuditEvent, error)
}
