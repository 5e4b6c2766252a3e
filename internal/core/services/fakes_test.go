package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/pkg/gateway"

	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the guarded-update semantics of
// the GORM implementations so the conflict paths are testable without a
// database.

type fakeAccountRepo struct {
	mu       sync.Mutex
	nextID   uint
	accounts map[uint]*models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{nextID: 1, accounts: make(map[uint]*models.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account.ID = r.nextID
	r.nextID++
	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id uint) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *account
	return &cp, nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			cp := *account
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccountRepo) Update(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, id)
	return nil
}

func (r *fakeAccountRepo) List(_ context.Context, offset, limit int) ([]*models.Account, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		cp := *account
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeAccountRepo) ExistsByDafID(_ context.Context, dafID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.DafID != nil && *account.DafID == dafID {
			return true, nil
		}
	}
	return false, nil
}

type fakeApplicationRepo struct {
	mu        sync.Mutex
	nextID    uint
	apps      map[uint]*models.Application
	createErr error // returned by the next Create, then cleared
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{nextID: 1, apps: make(map[uint]*models.Application)}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	app.ID = r.nextID
	r.nextID++
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id uint) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *app
	return &cp, nil
}

func (r *fakeApplicationRepo) GetByAccountID(_ context.Context, accountID uint) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.AccountID == accountID {
			cp := *app
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) list(filter func(*models.Application) bool, offset, limit int) ([]*models.Application, int64) {
	matched := make([]*models.Application, 0)
	for _, app := range r.apps {
		if filter(app) {
			cp := *app
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].SubmittedAt.Before(matched[j].SubmittedAt) })
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total
}

func (r *fakeApplicationRepo) ListByDistrictAndStatus(_ context.Context, district, status string, offset, limit int) ([]*models.Application, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apps, total := r.list(func(a *models.Application) bool {
		return a.District == district && a.Status == status
	}, offset, limit)
	return apps, total, nil
}

func (r *fakeApplicationRepo) ListByStatus(_ context.Context, status string, offset, limit int) ([]*models.Application, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apps, total := r.list(func(a *models.Application) bool { return a.Status == status }, offset, limit)
	return apps, total, nil
}

func (r *fakeApplicationRepo) TransitionFromPending(_ context.Context, id uint, updates map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok || app.Status != models.StatusPending {
		return false, nil
	}
	if status, ok := updates["status"].(string); ok {
		app.Status = status
	}
	if reason, ok := updates["rejection_reason"].(string); ok {
		app.RejectionReason = reason
	}
	return true, nil
}

func (r *fakeApplicationRepo) ExistsLiveByAccountID(_ context.Context, accountID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.AccountID == accountID && app.Status != models.StatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicationRepo) CountByDistrictAndStatus(_ context.Context, district, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, app := range r.apps {
		if app.District == district && app.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeApplicationRepo) CountByTypeAndStatus(_ context.Context, appType, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, app := range r.apps {
		if app.Type == appType && app.Status == status {
			n++
		}
	}
	return n, nil
}

type fakePaymentRepo struct {
	mu     sync.Mutex
	nextID uint
	orders map[string]*models.PaymentOrder
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{nextID: 1, orders: make(map[string]*models.PaymentOrder)}
}

func (r *fakePaymentRepo) Create(_ context.Context, order *models.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = r.nextID
	r.nextID++
	order.CreatedAt = time.Now()
	cp := *order
	r.orders[order.OrderID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByOrderID(_ context.Context, orderID string) (*models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, order *models.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders[order.OrderID] = &cp
	return nil
}

func (r *fakePaymentRepo) ClaimTerminal(_ context.Context, orderID string, updates map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || order.PaymentStatus != models.PaymentStatusPending {
		return false, nil
	}
	if status, ok := updates["payment_status"].(string); ok {
		order.PaymentStatus = status
	}
	if status, ok := updates["gateway_status"].(string); ok {
		order.GatewayStatus = status
	}
	if at, ok := updates["completed_at"].(*time.Time); ok {
		order.CompletedAt = at
	}
	if method, ok := updates["payment_method"].(string); ok {
		order.PaymentMethod = method
	}
	if txn, ok := updates["transaction_id"].(string); ok {
		order.TransactionID = txn
	}
	if accountID, ok := updates["account_id"].(*uint); ok {
		order.AccountID = accountID
	}
	return true, nil
}

func (r *fakePaymentRepo) List(_ context.Context, offset, limit int) ([]*models.PaymentOrder, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.PaymentOrder, 0, len(r.orders))
	for _, order := range r.orders {
		cp := *order
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakePaymentRepo) ListStalePending(_ context.Context, olderThanMinutes int, limit int) ([]*models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-time.Duration(olderThanMinutes) * time.Minute)
	stale := make([]*models.PaymentOrder, 0)
	for _, order := range r.orders {
		if order.PaymentStatus == models.PaymentStatusPending && order.CreatedAt.Before(cutoff) {
			cp := *order
			stale = append(stale, &cp)
		}
		if limit > 0 && len(stale) >= limit {
			break
		}
	}
	return stale, nil
}

func (r *fakePaymentRepo) SumByStatus(_ context.Context, status string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, order := range r.orders {
		if order.PaymentStatus == status {
			sum += order.Amount
		}
	}
	return sum, nil
}

type fakeFeeRepo struct {
	mu   sync.Mutex
	fees map[string]*models.FeeSchedule
}

func newFakeFeeRepo() *fakeFeeRepo {
	return &fakeFeeRepo{fees: make(map[string]*models.FeeSchedule)}
}

func (r *fakeFeeRepo) GetByUserType(_ context.Context, userType string) (*models.FeeSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fee, ok := r.fees[userType]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *fee
	return &cp, nil
}

func (r *fakeFeeRepo) List(_ context.Context) ([]*models.FeeSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.FeeSchedule, 0, len(r.fees))
	for _, fee := range r.fees {
		cp := *fee
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserType < all[j].UserType })
	return all, nil
}

func (r *fakeFeeRepo) Upsert(_ context.Context, fee *models.FeeSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *fee
	r.fees[fee.UserType] = &cp
	return nil
}

type fakeDistrictRepo struct {
	mu        sync.Mutex
	nextID    uint
	districts map[uint]*models.District
	accounts  *fakeAccountRepo // paired admin accounts, when wired
}

func newFakeDistrictRepo(accounts *fakeAccountRepo) *fakeDistrictRepo {
	return &fakeDistrictRepo{nextID: 1, districts: make(map[uint]*models.District), accounts: accounts}
}

func (r *fakeDistrictRepo) add(name, code string, active bool) *models.District {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := &models.District{Name: name, Code: code, IsActive: active}
	d.ID = r.nextID
	r.nextID++
	r.districts[d.ID] = d
	return d
}

func (r *fakeDistrictRepo) GetByID(_ context.Context, id uint) (*models.District, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.districts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDistrictRepo) GetByName(_ context.Context, name string) (*models.District, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.districts {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDistrictRepo) List(_ context.Context, activeOnly bool) ([]*models.District, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.District, 0, len(r.districts))
	for _, d := range r.districts {
		if activeOnly && !d.IsActive {
			continue
		}
		cp := *d
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *fakeDistrictRepo) Update(_ context.Context, district *models.District) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *district
	r.districts[district.ID] = &cp
	return nil
}

func (r *fakeDistrictRepo) CreateWithAdmin(ctx context.Context, district *models.District, admin *models.Account) error {
	r.mu.Lock()
	district.ID = r.nextID
	r.nextID++
	cp := *district
	r.districts[district.ID] = &cp
	r.mu.Unlock()
	return r.accounts.Create(ctx, admin)
}

func (r *fakeDistrictRepo) DeleteWithAdmin(_ context.Context, districtID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.districts[districtID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.districts, districtID)
	if r.accounts != nil {
		r.accounts.mu.Lock()
		for id, account := range r.accounts.accounts {
			if account.Role == models.RoleDistrictAdmin && account.District == d.Name {
				delete(r.accounts.accounts, id)
			}
		}
		r.accounts.mu.Unlock()
	}
	return nil
}

func (r *fakeDistrictRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.districts {
		if d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDistrictRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.districts {
		if d.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	nextID uint
	tokens map[uint]*models.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{nextID: 1, tokens: make(map[uint]*models.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = r.nextID
	r.nextID++
	cp := *token
	r.tokens[token.ID] = &cp
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.TokenHash == tokenHash {
			cp := *token
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	token.RevokedAt = &now
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, token := range r.tokens {
		if token.TokenHash == tokenHash && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByAccountID(_ context.Context, accountID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, token := range r.tokens {
		if token.AccountID == accountID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, token := range r.tokens {
		if token.IsExpired() {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) activeCount(accountID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, token := range r.tokens {
		if token.AccountID == accountID && token.RevokedAt == nil {
			n++
		}
	}
	return n
}

// fakeGateway scripts the status progression an order reports. Statuses are
// consumed in order; the last one repeats.
type fakeGateway struct {
	mu         sync.Mutex
	statuses   map[string][]string
	createErr  error
	getErr     error
	getCalls   int
	lastOrder  *gateway.CreateOrderRequest
	sessionSeq int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{statuses: make(map[string][]string)}
}

func (g *fakeGateway) script(orderID string, statuses ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[orderID] = statuses
}

func (g *fakeGateway) CreateOrder(_ context.Context, req *gateway.CreateOrderRequest) (*gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.lastOrder = req
	g.sessionSeq++
	if _, ok := g.statuses[req.OrderID]; !ok {
		g.statuses[req.OrderID] = []string{gateway.OrderStatusActive}
	}
	return &gateway.Order{
		OrderID:   req.OrderID,
		SessionID: "session_test",
		Status:    gateway.OrderStatusActive,
	}, nil
}

func (g *fakeGateway) GetOrder(_ context.Context, orderID string) (*gateway.OrderStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.getCalls++
	if g.getErr != nil {
		return nil, g.getErr
	}
	seq, ok := g.statuses[orderID]
	if !ok || len(seq) == 0 {
		return nil, errors.New("no scripted status for order")
	}
	status := seq[0]
	if len(seq) > 1 {
		g.statuses[orderID] = seq[1:]
	}
	return &gateway.OrderStatus{
		OrderID:       orderID,
		Status:        status,
		PaymentMethod: "upi",
		TransactionID: "cf_12345",
	}, nil
}
