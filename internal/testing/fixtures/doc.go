// Package fixtures provides test data factories for end-to-end tests.
//
// Each factory method creates records with sensible defaults while
// allowing customization via option functions, and goes through the
// repositories so fixture rows look exactly like production rows.
//
// # Factory Pattern
//
// Create a factory with a database connection:
//
//	f := fixtures.New(tdb.DB)
//
// # Creating Test Data
//
//	raffle := f.CreateRaffle(t)                       // Mid-sale raffle
//	raffle := f.CreateRaffle(t, fixtures.WithTicketCap(10))
//	entrant := f.CreateEntrant(t, raffle, 3)          // Holding 3 tickets
//	f.SetAdmin(t, "user:admin")
//	f.FundAccount(t, "user:buyer", "asset:credits", 1000)
//
// # Random Data
//
// Seeds and user IDs are generated per call, so fixtures never collide
// on the unique indexes.
package fixtures
