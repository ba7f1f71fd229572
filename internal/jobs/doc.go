// Package jobs implements background tasks that run independently of
// HTTP request handling.
//
// # Job Types
//
//   - StatsCollector: periodic snapshot of ledger gauges (raffles per
//     lifecycle state, tickets outstanding)
//
// # Lifecycle
//
// Jobs are started from main and stopped on shutdown:
//
//	collector := jobs.NewStatsCollector(raffleService, time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// # Error Handling
//
// Jobs log errors and keep running; a failed tick never crashes the
// process.
package jobs
