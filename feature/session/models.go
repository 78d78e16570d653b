package session

import "time"

// Record is the materialized form of one bound object.
type Record struct {
	// ID uniquely identifies this record instance.
	ID string `json:"id"`
	// Key is the identity of the bound object.
	Key string `json:"key"`
	// Data is the object the record was built from.
	Data map[string]any `json:"data"`
	// Revision counts records built by the session, starting at 1.
	Revision int `json:"revision"`
	// CreatedAt is when the record was built.
	CreatedAt time.Time `json:"created_at"`
}

// Info describes a session.
type Info struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Size      int       `json:"size"`
	Version   uint64    `json:"version"`
	Released  int       `json:"released"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest is the body of POST /sessions.
type CreateRequest struct {
	Key string `json:"key"`
}
