// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration. SQLite is supported as an
// alternative driver for local mode and tests.
//
// # Connect
//
// The generic Connect function establishes a connection to the database. It configures
// connection pooling and verifies connectivity with a bounded ping before returning.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema, which the integrity
// feature uses to verify that the translation tables match the expected models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "branches")
package database
