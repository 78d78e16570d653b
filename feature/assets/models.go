package assets

import "time"

// Object is one entry of a storage listing.
type Object struct {
	Key          string    `json:"key"`
	ETag         string    `json:"etag"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Asset is the view built for a tracked object.
type Asset struct {
	// Key is the full object key.
	Key string `json:"key"`
	// Name is the last path element of the key.
	Name string `json:"name"`
	// Extension is the file extension including the dot, if any.
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
	ETag      string `json:"etag"`
	// BuiltAt is when this view was built. A new view is built whenever the object changes.
	BuiltAt time.Time `json:"built_at"`
}
