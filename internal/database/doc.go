// Package database provides database connectivity for the Tombola API.
//
// The database package abstracts SurrealDB operations and provides
// a consistent interface for data access across the application.
//
// # Database Interface
//
// The Database interface defines core operations:
//
//	type Database interface {
//	    Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)
//	    QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)
//	    Execute(ctx context.Context, query string, vars map[string]interface{}) error
//	    Close() error
//	}
//
// # Connection Management
//
// Connect to SurrealDB:
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    Namespace: "tombola",
//	    Database:  "production",
//	    User:      "root",
//	    Password:  "secret",
//	})
//	err := db.Connect(ctx)
//
// # Error Types
//
// Standard error types for data operations:
//
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique constraint violation
//   - ErrConnection: Database connection failed
//
// # Atomicity
//
// Multi-statement mutations use AtomicBatch: queries accumulate in
// memory and execute wrapped in BEGIN TRANSACTION / COMMIT TRANSACTION,
// so a purchase's counter bumps and balance moves commit together or
// not at all. A THROW inside any statement aborts the whole batch.
// Workflows that span the record store and the balance store use
// MultiStepOperation, which compensates completed steps in reverse
// order when a later step fails.
package database
