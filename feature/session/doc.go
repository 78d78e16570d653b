// Package session exposes in-memory data-joins over HTTP.
//
// A session owns one join keyed by a configured field of the JSON objects pushed to
// it. Every bind reconciles the pushed collection against the previous one and
// answers with a report of entered, updated, changed, and exited keys. Each key is
// materialized as a Record; records are rebuilt when the object behind a key changes
// and released when the key exits.
//
// # HTTP Endpoints
//
//   - POST /sessions : Creates a session ({"key": "id"}).
//   - GET /sessions : Lists sessions.
//   - GET /sessions/:id : Returns the bound objects.
//   - POST /sessions/:id/bind : Binds a JSON array of objects.
//   - GET /sessions/:id/records : Returns records for ?selection=all|enter|exit.
//   - DELETE /sessions/:id : Releases every record and removes the session.
package session
