// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL or SQLite connections based on the application's
// configuration.
//
// # Connect
//
// Connect establishes a connection for the configured driver and verifies it with a
// bounded ping. The database is optional: the table source is only registered when a
// connection succeeds.
//
// # Schema Inspection
//
// GetTableColumns and HasColumn inspect a table so the table source can verify that its
// identity column exists before it starts reconciling rows.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	ok, err := database.HasColumn(db, "items", "id")
package database
