package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tombola/api/internal/middleware"
	"github.com/tombola/api/internal/model"
	"github.com/tombola/api/internal/service"
)

// ============================================================================
// Mocks
// ============================================================================

type mockRaffleRepo struct {
	createFunc           func(ctx context.Context, raffle *model.Raffle) error
	getByIDFunc          func(ctx context.Context, id string) (*model.Raffle, error)
	getBySeedFunc        func(ctx context.Context, seed string) (*model.Raffle, error)
	listFunc             func(ctx context.Context, limit, offset int) ([]*model.Raffle, error)
	recordPurchaseFunc   func(ctx context.Context, raffleID, entrantID string, quantity uint64) error
	recordAllocationFunc func(ctx context.Context, raffleID, entrantID string, rewards uint64) error
	settleEntrantFunc    func(ctx context.Context, raffleID, entrantID string, rewards uint64) error
	markAdminClaimedFunc func(ctx context.Context, id string) error
	deleteFunc           func(ctx context.Context, id string) error
	restoreFunc          func(ctx context.Context, raffle *model.Raffle) error
}

func (m *mockRaffleRepo) Create(ctx context.Context, raffle *model.Raffle) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, raffle)
	}
	raffle.ID = "raffle:test"
	return nil
}

func (m *mockRaffleRepo) GetByID(ctx context.Context, id string) (*model.Raffle, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRaffleRepo) GetBySeed(ctx context.Context, seed string) (*model.Raffle, error) {
	if m.getBySeedFunc != nil {
		return m.getBySeedFunc(ctx, seed)
	}
	return nil, nil
}

func (m *mockRaffleRepo) List(ctx context.Context, limit, offset int) ([]*model.Raffle, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockRaffleRepo) RecordPurchase(ctx context.Context, raffleID, entrantID string, quantity uint64) error {
	if m.recordPurchaseFunc != nil {
		return m.recordPurchaseFunc(ctx, raffleID, entrantID, quantity)
	}
	return nil
}

func (m *mockRaffleRepo) RecordAllocation(ctx context.Context, raffleID, entrantID string, rewards uint64) error {
	if m.recordAllocationFunc != nil {
		return m.recordAllocationFunc(ctx, raffleID, entrantID, rewards)
	}
	return nil
}

func (m *mockRaffleRepo) SettleEntrant(ctx context.Context, raffleID, entrantID string, rewards uint64) error {
	if m.settleEntrantFunc != nil {
		return m.settleEntrantFunc(ctx, raffleID, entrantID, rewards)
	}
	return nil
}

func (m *mockRaffleRepo) MarkAdminClaimed(ctx context.Context, id string) error {
	if m.markAdminClaimedFunc != nil {
		return m.markAdminClaimedFunc(ctx, id)
	}
	return nil
}

func (m *mockRaffleRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRaffleRepo) Restore(ctx context.Context, raffle *model.Raffle) error {
	if m.restoreFunc != nil {
		return m.restoreFunc(ctx, raffle)
	}
	return nil
}

type mockEntrantRepo struct {
	createFunc             func(ctx context.Context, entrant *model.Entrant) error
	getByRaffleAndUserFunc func(ctx context.Context, raffleID, userID string) (*model.Entrant, error)
	listByRaffleFunc       func(ctx context.Context, raffleID string, limit, offset int) ([]*model.Entrant, error)
	deleteFunc             func(ctx context.Context, id string) error
}

func (m *mockEntrantRepo) Create(ctx context.Context, entrant *model.Entrant) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, entrant)
	}
	entrant.ID = "entrant:test"
	return nil
}

func (m *mockEntrantRepo) GetByRaffleAndUser(ctx context.Context, raffleID, userID string) (*model.Entrant, error) {
	if m.getByRaffleAndUserFunc != nil {
		return m.getByRaffleAndUserFunc(ctx, raffleID, userID)
	}
	return nil, nil
}

func (m *mockEntrantRepo) ListByRaffle(ctx context.Context, raffleID string, limit, offset int) ([]*model.Entrant, error) {
	if m.listByRaffleFunc != nil {
		return m.listByRaffleFunc(ctx, raffleID, limit, offset)
	}
	return nil, nil
}

func (m *mockEntrantRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockTreasury struct {
	transferFunc func(ctx context.Context, from, to, asset string, amount uint64) error
	balanceFunc  func(ctx context.Context, owner, asset string) (uint64, error)
}

func (m *mockTreasury) EnsureAccount(ctx context.Context, owner, asset string) error { return nil }

func (m *mockTreasury) Transfer(ctx context.Context, from, to, asset string, amount uint64) error {
	if m.transferFunc != nil {
		return m.transferFunc(ctx, from, to, asset, amount)
	}
	return nil
}

func (m *mockTreasury) Mint(ctx context.Context, to, asset string, amount uint64) error { return nil }

func (m *mockTreasury) Burn(ctx context.Context, from, asset string, amount uint64) error {
	return nil
}

func (m *mockTreasury) Balance(ctx context.Context, owner, asset string) (uint64, error) {
	if m.balanceFunc != nil {
		return m.balanceFunc(ctx, owner, asset)
	}
	return 0, nil
}

func (m *mockTreasury) CloseAccount(ctx context.Context, owner, asset string) error { return nil }

type mockAdminRepo struct {
	settings *model.AdminSettings
}

func (m *mockAdminRepo) Get(ctx context.Context) (*model.AdminSettings, error) {
	return m.settings, nil
}

func (m *mockAdminRepo) Create(ctx context.Context, adminID string) (*model.AdminSettings, error) {
	m.settings = &model.AdminSettings{ID: "admin_settings:main", AdminID: adminID}
	return m.settings, nil
}

func (m *mockAdminRepo) SetAdmin(ctx context.Context, adminID string) (*model.AdminSettings, error) {
	m.settings = &model.AdminSettings{ID: "admin_settings:main", AdminID: adminID}
	return m.settings, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// ============================================================================
// Fixtures
// ============================================================================

const testAdminID = "user:admin"

var (
	saleStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	saleEnd   = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
)

func uptr(v uint64) *uint64 { return &v }

func testRaffle() *model.Raffle {
	return &model.Raffle{
		ID:            "raffle:test",
		Seed:          "seed-1",
		Price:         100,
		Fee:           10,
		CurrencyID:    "asset:credits",
		RewardTickets: 1,
		RewardAmount:  50,
		RewardAssetID: "asset:prize",
		StartTime:     saleStart,
		EndTime:       saleEnd,
		TicketCap:     uptr(10),
	}
}

type testEnv struct {
	raffleRepo  *mockRaffleRepo
	entrantRepo *mockEntrantRepo
	treasury    *mockTreasury
	adminRepo   *mockAdminRepo
	now         time.Time
}

func (e *testEnv) raffleHandler() *RaffleHandler {
	return NewRaffleHandler(service.NewRaffleService(service.RaffleServiceConfig{
		RaffleRepo:  e.raffleRepo,
		EntrantRepo: e.entrantRepo,
		Treasury:    e.treasury,
		AdminRepo:   e.adminRepo,
		Clock:       fixedClock{now: e.now},
	}))
}

func (e *testEnv) entrantHandler() *EntrantHandler {
	return NewEntrantHandler(service.NewEntrantService(service.EntrantServiceConfig{
		EntrantRepo: e.entrantRepo,
		RaffleRepo:  e.raffleRepo,
		Treasury:    e.treasury,
		Clock:       fixedClock{now: e.now},
	}))
}

// newTestEnv returns an environment with the admin registered and the
// clock inside the sale window.
func newTestEnv() *testEnv {
	return &testEnv{
		raffleRepo:  &mockRaffleRepo{},
		entrantRepo: &mockEntrantRepo{},
		treasury:    &mockTreasury{},
		adminRepo:   &mockAdminRepo{settings: &model.AdminSettings{ID: "admin_settings:main", AdminID: testAdminID}},
		now:         saleStart.Add(time.Hour),
	}
}

// newRequest builds a request with an optional JSON body, an optional
// authenticated user, and an optional raffleId path value.
func newRequest(t *testing.T, method, target string, body interface{}, userID, raffleID string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	}
	if raffleID != "" {
		req.SetPathValue("raffleId", raffleID)
	}
	return req
}

// decodeData unmarshals the "data" envelope of a response into v.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, v); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}
