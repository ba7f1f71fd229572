// Package testdb provides test database utilities for end-to-end tests.
//
// The testdb package manages test database connections with automatic
// setup, migration, and cleanup. Tests that use it run real SurrealQL
// against a real instance, so the transaction guards and unique indexes
// behave the way they do in production.
//
// # Test Database Setup
//
// Create a test database for each test:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    defer tdb.Close()
//
//	    // Use tdb.DB for database operations
//	}
//
// # Migrations
//
// The .surql files under migrations/ are applied automatically on setup.
//
// # Isolation
//
// Each test gets its own namespace, so tests can run in parallel without
// seeing each other's rows. Close removes the namespace.
//
// # Configuration
//
// Connection settings come from TEST_DB_HOST, TEST_DB_PORT, TEST_DB_USER
// and TEST_DB_PASSWORD, defaulting to a local instance started with:
//
//	surreal start memory -A --user root --pass root
package testdb
