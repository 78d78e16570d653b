// Package assets tracks the objects of a storage bucket.
//
// Every sync lists the objects under the configured prefix and reconciles them by key
// against the previous listing. An object counts as changed when its ETag or size
// differs. The current listing is exposed as Asset views over HTTP.
package assets
