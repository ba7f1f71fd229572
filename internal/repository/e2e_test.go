package repository_test

import (
	"errors"
	"os"
	"testing"

	"github.com/tombola/api/internal/database"
	"github.com/tombola/api/internal/model"
	"github.com/tombola/api/internal/repository"
	"github.com/tombola/api/internal/testing/fixtures"
	"github.com/tombola/api/internal/testing/testdb"
)

// requireDB skips unless a SurrealDB instance is configured. Start one
// locally with: surreal start memory -A --user root --pass root
func requireDB(t *testing.T) *testdb.TestDB {
	t.Helper()
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("set TEST_DB_HOST to run database tests")
	}
	return testdb.New(t)
}

func TestRaffleRepository_CreateAndGet(t *testing.T) {
	tdb := requireDB(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	repo := repository.NewRaffleRepository(tdb.DB)

	created := f.CreateRaffle(t, fixtures.WithTicketCap(25))

	got, err := repo.GetByID(tdb.Ctx(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByID() returned nil for existing raffle")
	}
	if got.Price != created.Price || got.Fee != created.Fee {
		t.Errorf("got price=%d fee=%d, want price=%d fee=%d", got.Price, got.Fee, created.Price, created.Fee)
	}
	if got.TicketCap == nil || *got.TicketCap != 25 {
		t.Errorf("TicketCap = %v, want 25", got.TicketCap)
	}

	bySeed, err := repo.GetBySeed(tdb.Ctx(), created.Seed)
	if err != nil {
		t.Fatalf("GetBySeed() error = %v", err)
	}
	if bySeed == nil || bySeed.ID != created.ID {
		t.Errorf("GetBySeed() = %v, want raffle %s", bySeed, created.ID)
	}
}

func TestRaffleRepository_SeedUnique(t *testing.T) {
	tdb := requireDB(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	repo := repository.NewRaffleRepository(tdb.DB)

	created := f.CreateRaffle(t)

	dup := *created
	dup.ID = ""
	err := repo.Create(tdb.Ctx(), &dup)
	if !errors.Is(err, database.ErrDuplicate) {
		t.Errorf("Create() with reused seed error = %v, want ErrDuplicate", err)
	}
}

func TestRaffleRepository_PurchaseCapGuard(t *testing.T) {
	tdb := requireDB(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	repo := repository.NewRaffleRepository(tdb.DB)

	raffle := f.CreateRaffle(t, fixtures.WithTicketCap(2))
	entrant := f.CreateEntrant(t, raffle, 0)

	if err := repo.RecordPurchase(tdb.Ctx(), raffle.ID, entrant.ID, 2); err != nil {
		t.Fatalf("RecordPurchase() within cap error = %v", err)
	}

	err := repo.RecordPurchase(tdb.Ctx(), raffle.ID, entrant.ID, 1)
	if !errors.Is(err, model.ErrRaffleSoldOut) {
		t.Errorf("RecordPurchase() over cap error = %v, want ErrRaffleSoldOut", err)
	}

	// The guard aborts the whole batch: neither counter moved.
	got, err := repo.GetByID(tdb.Ctx(), raffle.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.TicketsSold != 2 {
		t.Errorf("TicketsSold after aborted purchase = %d, want 2", got.TicketsSold)
	}
}

func TestRaffleRepository_AllocationExactlyOnce(t *testing.T) {
	tdb := requireDB(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	repo := repository.NewRaffleRepository(tdb.DB)

	raffle := f.CreateRaffle(t)
	entrant := f.CreateEntrant(t, raffle, 3)

	if err := repo.RecordAllocation(tdb.Ctx(), raffle.ID, entrant.ID, 1); err != nil {
		t.Fatalf("RecordAllocation() error = %v", err)
	}

	err := repo.RecordAllocation(tdb.Ctx(), raffle.ID, entrant.ID, 1)
	if !errors.Is(err, model.ErrEntrantAlreadyAwarded) {
		t.Errorf("second RecordAllocation() error = %v, want ErrEntrantAlreadyAwarded", err)
	}

	// The aborted transaction must not have touched the awarded total.
	got, err := repo.GetByID(tdb.Ctx(), raffle.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.RewardsAwarded != 1 {
		t.Errorf("RewardsAwarded after aborted allocation = %d, want 1", got.RewardsAwarded)
	}
}

func TestRaffleRepository_SettleExactlyOnce(t *testing.T) {
	tdb := requireDB(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	repo := repository.NewRaffleRepository(tdb.DB)

	raffle := f.CreateRaffle(t)
	entrant := f.CreateEntrant(t, raffle, 3)
	if err := repo.RecordAllocation(tdb.Ctx(), raffle.ID, entrant.ID, 1); err != nil {
		t.Fatalf("RecordAllocation() error = %v", err)
	}

	if err := repo.SettleEntrant(tdb.Ctx(), raffle.ID, entrant.ID, 1); err != nil {
		t.Fatalf("SettleEntrant() error = %v", err)
	}

	err := repo.SettleEntrant(tdb.Ctx(), raffle.ID, entrant.ID, 1)
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("second SettleEntrant() error = %v, want ErrNotFound", err)
	}

	got, err := repo.GetByID(tdb.Ctx(), raffle.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.RewardsClaimed != 1 {
		t.Errorf("RewardsClaimed after rejected settle = %d, want 1", got.RewardsClaimed)
	}
}

func TestEntrantRepository_DuplicateJoin(t *testing.T) {
	tdb := requireDB(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	repo := repository.NewEntrantRepository(tdb.DB)

	raffle := f.CreateRaffle(t)
	entrant := f.CreateEntrant(t, raffle, 0)

	again := &model.Entrant{UserID: entrant.UserID, RaffleID: raffle.ID}
	err := repo.Create(tdb.Ctx(), again)
	if !errors.Is(err, database.ErrDuplicate) {
		t.Errorf("Create() second join error = %v, want ErrDuplicate", err)
	}
}

func TestTreasuryRepository_TransferAndGuards(t *testing.T) {
	tdb := requireDB(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	treasury := repository.NewTreasuryRepository(tdb.DB)

	const asset = "asset:credits"
	f.FundAccount(t, "user:payer", asset, 500)

	if err := treasury.Transfer(tdb.Ctx(), "user:payer", "user:payee", asset, 300); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}

	balance, err := treasury.Balance(tdb.Ctx(), "user:payee", asset)
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance != 300 {
		t.Errorf("payee balance = %d, want 300", balance)
	}

	err = treasury.Transfer(tdb.Ctx(), "user:payer", "user:payee", asset, 201)
	if !errors.Is(err, model.ErrInsufficientFunds) {
		t.Errorf("overdrawn Transfer() error = %v, want ErrInsufficientFunds", err)
	}

	err = treasury.CloseAccount(tdb.Ctx(), "user:payee", asset)
	if !errors.Is(err, model.ErrPoolNotEmpty) {
		t.Errorf("CloseAccount() on funded account error = %v, want ErrPoolNotEmpty", err)
	}

	if err := treasury.Transfer(tdb.Ctx(), "user:payee", "user:payer", asset, 300); err != nil {
		t.Fatalf("Transfer() back error = %v", err)
	}
	if err := treasury.CloseAccount(tdb.Ctx(), "user:payee", asset); err != nil {
		t.Errorf("CloseAccount() on empty account error = %v", err)
	}
}

func TestTestDB_ResetClearsTables(t *testing.T) {
	tdb := requireDB(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	treasury := repository.NewTreasuryRepository(tdb.DB)

	f.CreateRaffle(t)
	tdb.MustExec(`
		UPSERT balance SET
			owner = $owner,
			asset = $asset,
			amount += $amount,
			updated_on = time::now()
		WHERE owner = $owner AND asset = $asset
	`, map[string]interface{}{
		"owner":  "user:leftover",
		"asset":  "asset:credits",
		"amount": 42,
	})

	tdb.Reset(t)

	repo := repository.NewRaffleRepository(tdb.DB)
	raffles, err := repo.List(tdb.Ctx(), 10, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(raffles) != 0 {
		t.Errorf("raffles after Reset = %d, want 0", len(raffles))
	}

	balance, err := treasury.Balance(tdb.Ctx(), "user:leftover", "asset:credits")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance != 0 {
		t.Errorf("balance after Reset = %d, want 0", balance)
	}
}

func TestAdminRepository_SingletonAndRotation(t *testing.T) {
	tdb := requireDB(t)
	defer tdb.Close()

	repo := repository.NewAdminRepository(tdb.DB)

	settings, err := repo.Create(tdb.Ctx(), "user:first")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if settings.AdminID != "user:first" {
		t.Errorf("AdminID = %s, want user:first", settings.AdminID)
	}

	_, err = repo.Create(tdb.Ctx(), "user:second")
	if !errors.Is(err, database.ErrDuplicate) {
		t.Errorf("second Create() error = %v, want ErrDuplicate", err)
	}

	rotated, err := repo.SetAdmin(tdb.Ctx(), "user:second")
	if err != nil {
		t.Fatalf("SetAdmin() error = %v", err)
	}
	if rotated.AdminID != "user:second" {
		t.Errorf("rotated AdminID = %s, want user:second", rotated.AdminID)
	}
}
