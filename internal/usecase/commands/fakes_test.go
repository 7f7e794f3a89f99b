//go:build unit

package commands_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"commerce-core/internal/domain/coupon"
	"commerce-core/internal/domain/order"
	"commerce-core/internal/domain/payment"
	"commerce-core/internal/infra"
	"commerce-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeState is shared in-memory storage behind the fake unit of work. It
// mimics the repository layer's error kinds so command-level mapping can be
// asserted without a database. There is no rollback: injected failures leave
// partial writes, which is exactly what the saga compensations must clean up.
type fakeState struct {
	mu sync.Mutex

	products    map[uuid.UUID]*shared.ProductSnapshot
	balances    map[uuid.UUID]int64
	coupons     map[uuid.UUID]*coupon.Coupon
	userCoupons map[ucKey]*userCouponRow
	orders      map[uuid.UUID]*orderRow
	payments    map[uuid.UUID]*paymentRow
	outbox      []*shared.OutboxRecord
	movements   []movementRow

	failOn map[string]error
}

type ucKey struct {
	userID   uuid.UUID
	couponID uuid.UUID
}

type userCouponRow struct {
	id       uuid.UUID
	status   coupon.UserCouponStatus
	issuedAt time.Time
	usedAt   *time.Time
}

type orderRow struct {
	userID        uuid.UUID
	couponID      *uuid.UUID
	status        order.Status
	totalCents    int64
	discountCents int64
	finalCents    int64
	lines         []order.Line
}

type paymentRow struct {
	orderID        uuid.UUID
	userID         uuid.UUID
	idempotencyKey uuid.UUID
	amountCents    int64
	status         payment.Status
}

type movementRow struct {
	productID    uuid.UUID
	orderID      uuid.UUID
	quantity     int32
	movementType string
}

func newFakeState() *fakeState {
	return &fakeState{
		products:    make(map[uuid.UUID]*shared.ProductSnapshot),
		balances:    make(map[uuid.UUID]int64),
		coupons:     make(map[uuid.UUID]*coupon.Coupon),
		userCoupons: make(map[ucKey]*userCouponRow),
		orders:      make(map[uuid.UUID]*orderRow),
		payments:    make(map[uuid.UUID]*paymentRow),
		failOn:      make(map[string]error),
	}
}

func (s *fakeState) fail(op string) error {
	if err, ok := s.failOn[op]; ok {
		return err
	}
	return nil
}

type fakeUoW struct {
	state *fakeState
}

// Within mimics transactional semantics: a snapshot of the whole state is
// taken up front and restored when fn fails, so partial writes inside one
// unit of work never leak.
func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	snapshot := u.state.snapshot()
	if err := fn(ctx, &fakeTx{state: u.state}); err != nil {
		u.state.restore(snapshot)
		return err
	}
	return nil
}

type stateSnapshot struct {
	products    map[uuid.UUID]shared.ProductSnapshot
	balances    map[uuid.UUID]int64
	coupons     map[uuid.UUID]*coupon.Coupon
	userCoupons map[ucKey]userCouponRow
	orders      map[uuid.UUID]orderRow
	payments    map[uuid.UUID]paymentRow
	outbox      []*shared.OutboxRecord
	movements   []movementRow
}

func (s *fakeState) snapshot() *stateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &stateSnapshot{
		products:    make(map[uuid.UUID]shared.ProductSnapshot, len(s.products)),
		balances:    make(map[uuid.UUID]int64, len(s.balances)),
		coupons:     make(map[uuid.UUID]*coupon.Coupon, len(s.coupons)),
		userCoupons: make(map[ucKey]userCouponRow, len(s.userCoupons)),
		orders:      make(map[uuid.UUID]orderRow, len(s.orders)),
		payments:    make(map[uuid.UUID]paymentRow, len(s.payments)),
		outbox:      make([]*shared.OutboxRecord, len(s.outbox)),
		movements:   append([]movementRow(nil), s.movements...),
	}
	for id, p := range s.products {
		snap.products[id] = *p
	}
	for id, b := range s.balances {
		snap.balances[id] = b
	}
	for id, c := range s.coupons {
		snap.coupons[id] = copyCoupon(c)
	}
	for k, row := range s.userCoupons {
		snap.userCoupons[k] = *row
	}
	for id, row := range s.orders {
		snap.orders[id] = *row
	}
	for id, row := range s.payments {
		snap.payments[id] = *row
	}
	for i, rec := range s.outbox {
		cp := *rec
		snap.outbox[i] = &cp
	}
	return snap
}

func (s *fakeState) restore(snap *stateSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = make(map[uuid.UUID]*shared.ProductSnapshot, len(snap.products))
	for id, p := range snap.products {
		cp := p
		s.products[id] = &cp
	}
	s.balances = make(map[uuid.UUID]int64, len(snap.balances))
	for id, b := range snap.balances {
		s.balances[id] = b
	}
	s.coupons = make(map[uuid.UUID]*coupon.Coupon, len(snap.coupons))
	for id, c := range snap.coupons {
		s.coupons[id] = copyCoupon(c)
	}
	s.userCoupons = make(map[ucKey]*userCouponRow, len(snap.userCoupons))
	for k, row := range snap.userCoupons {
		cp := row
		s.userCoupons[k] = &cp
	}
	s.orders = make(map[uuid.UUID]*orderRow, len(snap.orders))
	for id, row := range snap.orders {
		cp := row
		s.orders[id] = &cp
	}
	s.payments = make(map[uuid.UUID]*paymentRow, len(snap.payments))
	for id, row := range snap.payments {
		cp := row
		s.payments[id] = &cp
	}
	s.outbox = snap.outbox
	s.movements = snap.movements
}

type fakeTx struct {
	state *fakeState
}

func (t *fakeTx) Products() shared.ProductRepository     { return &fakeProducts{t.state} }
func (t *fakeTx) Points() shared.PointRepository         { return &fakePoints{t.state} }
func (t *fakeTx) Coupons() shared.CouponRepository       { return &fakeCoupons{t.state} }
func (t *fakeTx) UserCoupons() shared.UserCouponRepository { return &fakeUserCoupons{t.state} }
func (t *fakeTx) Orders() shared.OrderRepository         { return &fakeOrders{t.state} }
func (t *fakeTx) Payments() shared.PaymentRepository     { return &fakePayments{t.state} }
func (t *fakeTx) Outbox() shared.OutboxRepository        { return &fakeOutbox{t.state} }

type fakeProducts struct{ s *fakeState }

func (r *fakeProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]shared.ProductSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []shared.ProductSnapshot
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProducts) DecreaseStock(_ context.Context, productID uuid.UUID, qty int32) error {
	if err := r.s.fail("products.DecreaseStock"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok || p.StockQuantity < qty {
		return infra.WrapRepoErr("insufficient stock or product missing", nil, infra.KindConflict)
	}
	p.StockQuantity -= qty
	return nil
}

func (r *fakeProducts) IncreaseStock(_ context.Context, productID uuid.UUID, qty int32) error {
	if err := r.s.fail("products.IncreaseStock"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	p.StockQuantity += qty
	return nil
}

func (r *fakeProducts) IncreaseSales(_ context.Context, productID uuid.UUID, qty int32) error {
	if err := r.s.fail("products.IncreaseSales"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[productID]; ok {
		p.SalesCount += int64(qty)
	}
	return nil
}

func (r *fakeProducts) DecreaseSales(_ context.Context, productID uuid.UUID, qty int32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[productID]; ok {
		p.SalesCount -= int64(qty)
		if p.SalesCount < 0 {
			p.SalesCount = 0
		}
	}
	return nil
}

func (r *fakeProducts) RecordMovement(_ context.Context, productID, orderID uuid.UUID, qty int32, movementType string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, movementRow{productID, orderID, qty, movementType})
	return nil
}

type fakePoints struct{ s *fakeState }

func (r *fakePoints) Debit(_ context.Context, userID uuid.UUID, amountCents int64, _ string) (int64, error) {
	if err := r.s.fail("points.Debit"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	balance, ok := r.s.balances[userID]
	if !ok || balance < amountCents {
		return 0, infra.WrapRepoErr("insufficient point balance or account missing", nil, infra.KindConflict)
	}
	r.s.balances[userID] = balance - amountCents
	return r.s.balances[userID], nil
}

func (r *fakePoints) Credit(_ context.Context, userID uuid.UUID, amountCents int64, _ string) (int64, error) {
	if err := r.s.fail("points.Credit"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.balances[userID] += amountCents
	return r.s.balances[userID], nil
}

func (r *fakePoints) Balance(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.balances[userID], nil
}

type fakeCoupons struct{ s *fakeState }

func (r *fakeCoupons) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	return r.find(id, "coupons.FindByID")
}

func (r *fakeCoupons) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	return r.find(id, "coupons.FindByIDForUpdate")
}

func (r *fakeCoupons) find(id uuid.UUID, op string) (*coupon.Coupon, error) {
	if err := r.s.fail(op); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return copyCoupon(c), nil
}

func (r *fakeCoupons) UpdateQuantity(_ context.Context, c *coupon.Coupon) error {
	if err := r.s.fail("coupons.UpdateQuantity"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.coupons[c.ID()]; !ok {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	r.s.coupons[c.ID()] = copyCoupon(c)
	return nil
}

func copyCoupon(c *coupon.Coupon) *coupon.Coupon {
	return coupon.NewCoupon(c.ID(), c.Name(), c.DiscountCents(),
		c.InitialQuantity(), c.AvailableQuantity(), c.Status(), c.ValidFrom(), c.ValidTo())
}

type fakeUserCoupons struct{ s *fakeState }

func (r *fakeUserCoupons) Insert(_ context.Context, uc *coupon.UserCoupon) error {
	if err := r.s.fail("userCoupons.Insert"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := ucKey{uc.UserID(), uc.CouponID()}
	if _, exists := r.s.userCoupons[key]; exists {
		return infra.WrapRepoErr("duplicate user coupon", nil, infra.KindDuplicateKey)
	}
	r.s.userCoupons[key] = &userCouponRow{
		id:       uc.ID(),
		status:   uc.Status(),
		issuedAt: uc.IssuedAt(),
	}
	return nil
}

func (r *fakeUserCoupons) FindByUserAndCoupon(_ context.Context, userID, couponID uuid.UUID) (*coupon.UserCoupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.userCoupons[ucKey{userID, couponID}]
	if !ok {
		return nil, infra.WrapRepoErr("user coupon not found", nil, infra.KindNotFound)
	}
	return coupon.Restore(row.id, userID, couponID, row.status, row.issuedAt, row.usedAt), nil
}

func (r *fakeUserCoupons) MarkUsed(_ context.Context, userID, couponID uuid.UUID, usedAt time.Time) error {
	if err := r.s.fail("userCoupons.MarkUsed"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.userCoupons[ucKey{userID, couponID}]
	if !ok || row.status != coupon.UserCouponAvailable {
		return infra.WrapRepoErr("user coupon not available", nil, infra.KindConflict)
	}
	row.status = coupon.UserCouponUsed
	row.usedAt = &usedAt
	return nil
}

func (r *fakeUserCoupons) MarkAvailable(_ context.Context, userID, couponID uuid.UUID) error {
	if err := r.s.fail("userCoupons.MarkAvailable"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.userCoupons[ucKey{userID, couponID}]
	if !ok || row.status != coupon.UserCouponUsed {
		return infra.WrapRepoErr("user coupon not used", nil, infra.KindConflict)
	}
	row.status = coupon.UserCouponAvailable
	row.usedAt = nil
	return nil
}

type fakeOrders struct{ s *fakeState }

func (r *fakeOrders) Create(_ context.Context, o *order.Order) error {
	if err := r.s.fail("orders.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[o.ID()] = &orderRow{
		userID:        o.UserID(),
		couponID:      o.CouponID(),
		status:        o.Status(),
		totalCents:    o.TotalCents(),
		discountCents: o.DiscountCents(),
		finalCents:    o.FinalCents(),
		lines:         o.Lines(),
	}
	return nil
}

func (r *fakeOrders) UpdateStatus(_ context.Context, orderID uuid.UUID, status order.Status) error {
	if err := r.s.fail("orders.UpdateStatus"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.orders[orderID]
	if !ok {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	row.status = status
	return nil
}

func (r *fakeOrders) FindByID(_ context.Context, orderID uuid.UUID) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.orders[orderID]
	if !ok {
		return nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return order.Restore(orderID, row.userID, row.couponID, row.status,
		row.totalCents, row.discountCents, row.finalCents, row.lines, time.Time{}, time.Time{}), nil
}

type fakePayments struct{ s *fakeState }

func (r *fakePayments) Create(_ context.Context, p *payment.Payment) error {
	if err := r.s.fail("payments.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.payments {
		if row.userID == p.UserID() && row.idempotencyKey == p.IdempotencyKey() && row.status != payment.StatusFailed {
			return infra.WrapRepoErr("duplicate payment", nil, infra.KindDuplicateKey)
		}
	}
	r.s.payments[p.ID()] = &paymentRow{
		orderID:        p.OrderID(),
		userID:         p.UserID(),
		idempotencyKey: p.IdempotencyKey(),
		amountCents:    p.AmountCents(),
		status:         p.Status(),
	}
	return nil
}

func (r *fakePayments) UpdateStatus(_ context.Context, paymentID uuid.UUID, status payment.Status) error {
	if err := r.s.fail("payments.UpdateStatus"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.payments[paymentID]
	if !ok {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	row.status = status
	return nil
}

func (r *fakePayments) FindActiveByIdempotencyKey(_ context.Context, userID, key uuid.UUID) (*payment.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, row := range r.s.payments {
		if row.userID == userID && row.idempotencyKey == key && row.status != payment.StatusFailed {
			return payment.Restore(id, row.orderID, userID, key, row.amountCents, row.status, time.Time{}, time.Time{}), nil
		}
	}
	return nil, infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
}

func (r *fakePayments) FindByOrderID(_ context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, row := range r.s.payments {
		if row.orderID == orderID {
			return payment.Restore(id, orderID, row.userID, row.idempotencyKey, row.amountCents, row.status, time.Time{}, time.Time{}), nil
		}
	}
	return nil, infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
}

type fakeOutbox struct{ s *fakeState }

func (r *fakeOutbox) Append(_ context.Context, rec *shared.OutboxRecord) error {
	if err := r.s.fail("outbox.Append"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *rec
	r.s.outbox = append(r.s.outbox, &cp)
	return nil
}

func (r *fakeOutbox) FetchUnprocessed(_ context.Context, limit, maxRetry int) ([]shared.OutboxRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []shared.OutboxRecord
	for _, rec := range r.s.outbox {
		if !rec.Processed && rec.RetryCount < maxRetry {
			out = append(out, *rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeOutbox) MarkProcessed(_ context.Context, id uuid.UUID, processedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.outbox {
		if rec.ID == id {
			rec.Processed = true
			rec.ProcessedAt = &processedAt
			return nil
		}
	}
	return infra.WrapRepoErr("outbox record not found", nil, infra.KindNotFound)
}

func (r *fakeOutbox) MarkFailed(_ context.Context, id uuid.UUID, errorMessage string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.outbox {
		if rec.ID == id {
			rec.RetryCount++
			rec.ErrorMessage = &errorMessage
			return nil
		}
	}
	return infra.WrapRepoErr("outbox record not found", nil, infra.KindNotFound)
}

func (r *fakeOutbox) ListDeadLetters(_ context.Context, maxRetry, limit int) ([]shared.OutboxRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []shared.OutboxRecord
	for _, rec := range r.s.outbox {
		if !rec.Processed && rec.RetryCount >= maxRetry {
			out = append(out, *rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeOutbox) PurgeProcessedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var kept []*shared.OutboxRecord
	var purged int64
	for _, rec := range r.s.outbox {
		if rec.Processed && rec.ProcessedAt != nil && rec.ProcessedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, rec)
	}
	r.s.outbox = kept
	return purged, nil
}

// fakeKV is an in-memory KeyValueStore with the same atomicity guarantees
// per call. The ordered structure ranks by score, insertion order breaking
// ties, matching a sorted set's behavior for distinct members.
type fakeKV struct {
	mu       sync.Mutex
	kv       map[string]string
	counters map[string]int64
	sets     map[string]map[string]struct{}
	zsets    map[string][]zentry
	failOn   map[string]error
}

type zentry struct {
	member string
	score  float64
}

func newFakeKV() *fakeKV {
	return &fakeKV{
		kv:       make(map[string]string),
		counters: make(map[string]int64),
		sets:     make(map[string]map[string]struct{}),
		zsets:    make(map[string][]zentry),
		failOn:   make(map[string]error),
	}
}

func (f *fakeKV) fail(op string) error {
	if err, ok := f.failOn[op]; ok {
		return err
	}
	return nil
}

func (f *fakeKV) SetIfAbsent(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	if err := f.fail("SetIfAbsent"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.kv[key]; exists {
		return false, nil
	}
	f.kv[key] = value
	return true, nil
}

func (f *fakeKV) CompareAndDelete(_ context.Context, key, value string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.kv[key] != value {
		return false, nil
	}
	delete(f.kv, key)
	return true, nil
}

func (f *fakeKV) IncrBy(_ context.Context, key string, delta int64) (int64, error) {
	if err := f.fail("IncrBy"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key] += delta
	return f.counters[key], nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.kv, key)
	delete(f.counters, key)
	return nil
}

func (f *fakeKV) AddToSet(_ context.Context, key, member string) (bool, error) {
	if err := f.fail("AddToSet"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[key]
	if !ok {
		set = make(map[string]struct{})
		f.sets[key] = set
	}
	if _, exists := set[member]; exists {
		return false, nil
	}
	set[member] = struct{}{}
	return true, nil
}

func (f *fakeKV) RemoveFromSet(_ context.Context, key, member string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if set, ok := f.sets[key]; ok {
		delete(set, member)
	}
	return nil
}

func (f *fakeKV) OrderedAdd(_ context.Context, key, member string, score float64) error {
	if err := f.fail("OrderedAdd"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.zsets[key]
	for i, e := range entries {
		if e.member == member {
			entries[i].score = score
			return nil
		}
	}
	f.zsets[key] = append(entries, zentry{member, score})
	return nil
}

func (f *fakeKV) OrderedRank(_ context.Context, key, member string) (int64, bool, error) {
	if err := f.fail("OrderedRank"); err != nil {
		return 0, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]zentry, len(f.zsets[key]))
	copy(entries, f.zsets[key])
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].score < entries[j].score })
	for i, e := range entries {
		if e.member == member {
			return int64(i), true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeKV) OrderedRemove(_ context.Context, key, member string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.zsets[key]
	for i, e := range entries {
		if e.member == member {
			f.zsets[key] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return nil
}

var _ shared.KeyValueStore = (*fakeKV)(nil)
