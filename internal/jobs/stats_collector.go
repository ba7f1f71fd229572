package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tombola/api/internal/model"
	"github.com/tombola/api/internal/monitoring"
	"github.com/tombola/api/internal/service"
)

// statsPageSize bounds each listing query the collector issues.
const statsPageSize = 100

// StatsCollector periodically snapshots ledger-wide gauges: raffles per
// lifecycle state and tickets outstanding. Lifecycle state is derived,
// not stored, so the gauges have to be recomputed against the clock
// rather than maintained incrementally.
type StatsCollector struct {
	raffleService *service.RaffleService
	interval      time.Duration
	stopCh        chan struct{}
	wg            sync.WaitGroup
	running       bool
	mu            sync.Mutex
}

// NewStatsCollector creates a new stats collector job
func NewStatsCollector(raffleService *service.RaffleService, interval time.Duration) *StatsCollector {
	if interval == 0 {
		interval = time.Minute
	}
	return &StatsCollector{
		raffleService: raffleService,
		interval:      interval,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the collector loop
func (c *StatsCollector) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run()
	slog.Info("stats collector started", slog.Duration("interval", c.interval))
}

// Stop gracefully stops the collector
func (c *StatsCollector) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	close(c.stopCh)
	c.wg.Wait()
	slog.Info("stats collector stopped")
}

func (c *StatsCollector) run() {
	defer c.wg.Done()

	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopCh:
			return
		}
	}
}

func (c *StatsCollector) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.RunOnce(ctx); err != nil {
		slog.Error("stats collection failed", slog.String("error", err.Error()))
	}
}

// RunOnce computes one snapshot and publishes it to the gauges.
func (c *StatsCollector) RunOnce(ctx context.Context) error {
	counts := make(map[string]float64)
	var outstanding uint64

	for offset := 0; ; offset += statsPageSize {
		page, err := c.raffleService.List(ctx, statsPageSize, offset)
		if err != nil {
			return err
		}
		for _, raffle := range page {
			counts[string(raffle.State)]++
			outstanding += raffle.TicketsSold
		}
		if len(page) < statsPageSize {
			break
		}
	}

	// Publish zero for states with no raffles so dashboards don't
	// show stale series.
	for _, state := range []model.RaffleState{
		model.RaffleStatePending,
		model.RaffleStateActive,
		model.RaffleStateEnded,
		model.RaffleStateAwarded,
		model.RaffleStateAdminClaimed,
	} {
		if _, ok := counts[string(state)]; !ok {
			counts[string(state)] = 0
		}
	}

	monitoring.SetRafflesByState(counts)
	monitoring.TicketsOutstanding.Set(float64(outstanding))
	return nil
}

// IsRunning returns whether the collector is running
func (c *StatsCollector) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
