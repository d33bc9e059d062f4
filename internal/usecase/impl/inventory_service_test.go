package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"crm/config"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"
	"crm/internal/domain/service"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stockStore is an in-memory stand-in for the products and inventory_records tables.
// Execute snapshots the state and restores it when the callback fails, like a rollback.
type stockStore struct {
	mu      sync.Mutex
	stock   map[uuid.UUID]int64
	records map[string]*entity.InventoryRecord

	// lostAcks makes the next commits succeed but report a transient error, as when the
	// connection drops after COMMIT reached the server.
	lostAcks int
	// failBegins makes the next transactions fail with a transient error before doing anything.
	failBegins int
	// probeErr is returned by FindByOperationID outside of transactions when set.
	probeErr error
}

func newStockStore() *stockStore {
	return &stockStore{
		stock:   map[uuid.UUID]int64{},
		records: map[string]*entity.InventoryRecord{},
	}
}

func (s *stockStore) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	s.mu.Lock()
	if s.failBegins > 0 {
		s.failBegins--
		s.mu.Unlock()

		return repository.MarkTransient(errors.New("connection refused"))
	}

	stockSnap := make(map[uuid.UUID]int64, len(s.stock))
	for k, v := range s.stock {
		stockSnap[k] = v
	}
	recordSnap := make(map[string]*entity.InventoryRecord, len(s.records))
	for k, v := range s.records {
		recordSnap[k] = v
	}
	s.mu.Unlock()

	if err := fn(stockTxFactory{s: s}); err != nil {
		s.mu.Lock()
		s.stock, s.records = stockSnap, recordSnap
		s.mu.Unlock()

		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lostAcks > 0 {
		s.lostAcks--

		return repository.MarkTransient(errors.New("connection reset by peer"))
	}

	return nil
}

func (s *stockStore) stockOf(id uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stock[id]
}

func (s *stockStore) recordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

type stockTxFactory struct {
	repository.RepositoryFactory

	s *stockStore
}

func (f stockTxFactory) NewProductRepository() repository.ProductRepository {
	return &fakeProductRepo{s: f.s}
}

func (f stockTxFactory) NewInventoryRepository() repository.InventoryRepository {
	return &fakeInventoryRepo{s: f.s, inTx: true}
}

// fakeProductRepo implements the stock methods; the embedded interface covers the rest.
type fakeProductRepo struct {
	repository.ProductRepository

	s *stockStore
}

func (r *fakeProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.stock[id]
	if !ok {
		return 0, repository.ErrProductNotFound
	}
	if cur+delta < 0 {
		return 0, repository.ErrInsufficientStock
	}
	r.s.stock[id] = cur + delta

	return cur + delta, nil
}

func (r *fakeProductRepo) CurrentStock(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.stock[id]
	if !ok {
		return 0, repository.ErrProductNotFound
	}

	return cur, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	products := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, &entity.Product{ID: id, ModelName: "X1", PackageType: "SOT23"})
	}

	return products, nil
}

type fakeInventoryRepo struct {
	repository.InventoryRepository

	s    *stockStore
	inTx bool
}

func (r *fakeInventoryRepo) Create(_ context.Context, record *entity.InventoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.records[record.OperationID]; ok {
		return repository.ErrDuplicateOperation
	}
	record.ID = uuid.New()
	stored := *record
	r.s.records[record.OperationID] = &stored

	return nil
}

func (r *fakeInventoryRepo) FindByOperationID(_ context.Context, operationID string) (*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.inTx && r.s.probeErr != nil {
		return nil, r.s.probeErr
	}

	record, ok := r.s.records[operationID]
	if !ok {
		return nil, repository.ErrInventoryRecordNotFound
	}
	stored := *record

	return &stored, nil
}

func (r *fakeInventoryRepo) List(_ context.Context, filter repository.InventoryFilter) ([]*entity.InventoryRecord, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	records := make([]*entity.InventoryRecord, 0, len(r.s.records))
	for _, rec := range r.s.records {
		if filter.ProductID != nil && rec.ProductID != *filter.ProductID {
			continue
		}
		records = append(records, rec)
	}

	return records, int64(len(records)), nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	statuses []entity.StockMutationStatus
	retries  int
}

func (m *recordingMetrics) ObserveMutation(_ entity.StockOperationType, status entity.StockMutationStatus, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

func (m *recordingMetrics) IncRetry(entity.StockOperationType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries++
}

var _ service.InventoryMetrics = (*recordingMetrics)(nil)

type inventoryFixtures struct {
	service usecase.InventoryUsecase
	store   *stockStore
	metrics *recordingMetrics
	actor   entity.Principal
}

func createTestInventoryService(t *testing.T) inventoryFixtures {
	t.Helper()

	store := newStockStore()
	metrics := &recordingMetrics{}
	cfg := &config.Config{Inventory: &config.InventoryConfig{RetryAttempts: 3, RetryDelay: time.Millisecond}}

	svc := NewInventoryService(InventoryServiceParams{
		TxManager:     store,
		ProductRepo:   &fakeProductRepo{s: store},
		InventoryRepo: &fakeInventoryRepo{s: store},
		Metrics:       metrics,
		Config:        cfg,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return inventoryFixtures{
		service: svc,
		store:   store,
		metrics: metrics,
		actor:   entity.Principal{ID: uuid.New(), Role: entity.RoleInventoryManager, Username: "warehouse"},
	}
}

func (f inventoryFixtures) addProduct(stock int64) uuid.UUID {
	id := uuid.New()
	f.store.mu.Lock()
	f.store.stock[id] = stock
	f.store.mu.Unlock()

	return id
}

func TestInventoryService_ProductScenario(t *testing.T) {
	fx := createTestInventoryService(t)
	ctx := context.Background()
	productID := fx.addProduct(0)

	res, err := fx.service.Mutate(ctx, fx.actor, usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockIn, Quantity: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MutationSuccess, res.Status)
	require.NotNil(t, res.CurrentStock)
	assert.Equal(t, int64(100), *res.CurrentStock)
	assert.Equal(t, int64(0), res.Record.StockBefore)
	assert.Equal(t, int64(100), res.Record.StockAfter)
	assert.NotEmpty(t, res.OperationID)
	assert.Equal(t, 1, fx.store.recordCount())

	res, err = fx.service.Mutate(ctx, fx.actor, usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockOut, Quantity: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(70), *res.CurrentStock)
	assert.Equal(t, int64(70), *res.ExpectedStock)
	assert.Equal(t, 2, fx.store.recordCount())

	_, err = fx.service.Mutate(ctx, fx.actor, usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockOut, Quantity: 1000,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
	assert.Equal(t, int64(70), fx.store.stockOf(productID))
	assert.Equal(t, 2, fx.store.recordCount())
}

func TestInventoryService_ReplayIsAlreadyCompleted(t *testing.T) {
	fx := createTestInventoryService(t)
	ctx := context.Background()
	productID := fx.addProduct(50)

	input := usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockOut, Quantity: 50, OperationID: "op-123",
	}

	first, err := fx.service.Mutate(ctx, fx.actor, input)
	require.NoError(t, err)
	assert.Equal(t, entity.MutationSuccess, first.Status)

	// The stock is now zero, so the replay would also fail the stock check.
	second, err := fx.service.Mutate(ctx, fx.actor, input)
	require.NoError(t, err)
	assert.Equal(t, entity.MutationAlreadyCompleted, second.Status)
	assert.Equal(t, first.Record.ID, second.Record.ID)
	assert.NotEmpty(t, second.Warning)
	assert.Equal(t, int64(0), fx.store.stockOf(productID))
	assert.Equal(t, 1, fx.store.recordCount())

	stockIn := usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockIn, Quantity: 5, OperationID: "op-456",
	}
	_, err = fx.service.Mutate(ctx, fx.actor, stockIn)
	require.NoError(t, err)
	replay, err := fx.service.Mutate(ctx, fx.actor, stockIn)
	require.NoError(t, err)
	assert.Equal(t, entity.MutationAlreadyCompleted, replay.Status)
	assert.Equal(t, int64(5), fx.store.stockOf(productID))
}

func TestInventoryService_ReusedKeyWithDifferentRequest(t *testing.T) {
	fx := createTestInventoryService(t)
	ctx := context.Background()
	productID := fx.addProduct(10)

	_, err := fx.service.Mutate(ctx, fx.actor, usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockIn, Quantity: 5, OperationID: "same-key",
	})
	require.NoError(t, err)

	_, err = fx.service.Mutate(ctx, fx.actor, usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockIn, Quantity: 7, OperationID: "same-key",
	})
	assert.ErrorIs(t, err, domainerrors.ErrIdempotencyKeyReused)
	assert.Equal(t, int64(15), fx.store.stockOf(productID))
}

func TestInventoryService_LostCommitAckAppliesOnce(t *testing.T) {
	fx := createTestInventoryService(t)
	ctx := context.Background()
	productID := fx.addProduct(10)
	fx.store.lostAcks = 1

	res, err := fx.service.Mutate(ctx, fx.actor, usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockIn, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MutationSuccess, res.Status)
	assert.Equal(t, int64(15), fx.store.stockOf(productID))
	assert.Equal(t, 1, fx.store.recordCount())
	assert.Equal(t, 1, fx.metrics.retries)
}

func TestInventoryService_TransientBeginFailuresAreRetried(t *testing.T) {
	fx := createTestInventoryService(t)
	ctx := context.Background()
	productID := fx.addProduct(10)
	fx.store.failBegins = 2

	res, err := fx.service.Mutate(ctx, fx.actor, usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockOut, Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MutationSuccess, res.Status)
	assert.Equal(t, int64(6), fx.store.stockOf(productID))
	assert.Equal(t, 2, fx.metrics.retries)
}

func TestInventoryService_ExhaustedRetriesWithoutRecordFails(t *testing.T) {
	fx := createTestInventoryService(t)
	ctx := context.Background()
	productID := fx.addProduct(10)
	fx.store.failBegins = 3

	_, err := fx.service.Mutate(ctx, fx.actor, usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockIn, Quantity: 1,
	})
	assert.ErrorIs(t, err, domainerrors.ErrStockOperationFailed)
	assert.Equal(t, int64(10), fx.store.stockOf(productID))
	assert.Equal(t, []entity.StockMutationStatus{entity.MutationFailed}, fx.metrics.statuses)
}

func TestInventoryService_ExhaustedRetriesAfterCommitSucceeds(t *testing.T) {
	fx := createTestInventoryService(t)
	ctx := context.Background()
	productID := fx.addProduct(10)

	// The first commit lands but its ack is lost; the remaining attempts never reach the database.
	fx.store.lostAcks = 1
	svc := NewInventoryService(InventoryServiceParams{
		TxManager:     &beginFailingAfterFirst{stockStore: fx.store, remaining: 2},
		ProductRepo:   &fakeProductRepo{s: fx.store},
		InventoryRepo: &fakeInventoryRepo{s: fx.store},
		Metrics:       fx.metrics,
		Config:        &config.Config{Inventory: &config.InventoryConfig{RetryAttempts: 3, RetryDelay: time.Millisecond}},
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	res, err := svc.Mutate(ctx, fx.actor, usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockIn, Quantity: 5, OperationID: "ambiguous",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MutationSuccess, res.Status)
	assert.Equal(t, int64(15), *res.CurrentStock)
	assert.Equal(t, 1, fx.store.recordCount())
}

func TestInventoryService_UnreadableOutcomeIsUncertain(t *testing.T) {
	fx := createTestInventoryService(t)
	ctx := context.Background()
	productID := fx.addProduct(10)
	fx.store.lostAcks = 3
	fx.store.probeErr = repository.MarkTransient(errors.New("i/o timeout"))

	res, err := fx.service.Mutate(ctx, fx.actor, usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockIn, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MutationStatusUncertain, res.Status)
	assert.Nil(t, res.CurrentStock)
	assert.NotEmpty(t, res.Warning)
	// The first attempt committed; the retries only found the existing key in their transactions.
	assert.Equal(t, int64(15), fx.store.stockOf(productID))
}

func TestInventoryService_Validation(t *testing.T) {
	fx := createTestInventoryService(t)
	ctx := context.Background()
	productID := fx.addProduct(10)

	tests := []struct {
		name  string
		input usecase.StockMutationInput
	}{
		{name: "missing product", input: usecase.StockMutationInput{OperationType: entity.StockIn, Quantity: 1}},
		{name: "bad type", input: usecase.StockMutationInput{ProductID: productID, OperationType: "MOVE", Quantity: 1}},
		{name: "zero quantity", input: usecase.StockMutationInput{ProductID: productID, OperationType: entity.StockIn}},
		{name: "negative quantity", input: usecase.StockMutationInput{ProductID: productID, OperationType: entity.StockOut, Quantity: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.Mutate(ctx, fx.actor, tt.input)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
	assert.Equal(t, int64(10), fx.store.stockOf(productID))
}

func TestInventoryService_UnknownProduct(t *testing.T) {
	fx := createTestInventoryService(t)

	_, err := fx.service.Mutate(context.Background(), fx.actor, usecase.StockMutationInput{
		ProductID: uuid.New(), OperationType: entity.StockIn, Quantity: 1,
	})
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestInventoryService_BulkMutateReportsPerItem(t *testing.T) {
	fx := createTestInventoryService(t)
	ctx := context.Background()
	a := fx.addProduct(10)
	b := fx.addProduct(1)

	results, err := fx.service.BulkMutate(ctx, fx.actor, []usecase.StockMutationInput{
		{ProductID: a, OperationType: entity.StockOut, Quantity: 3},
		{ProductID: b, OperationType: entity.StockOut, Quantity: 2},
		{ProductID: b, OperationType: entity.StockIn, Quantity: 4},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Nil(t, results[0].Error)
	assert.Equal(t, int64(7), *results[0].Result.CurrentStock)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, domainerrors.ErrInsufficientStock.ErrorCode(), results[1].Error.Code)
	assert.Nil(t, results[2].Error)
	assert.Equal(t, int64(5), fx.store.stockOf(b))
}

func TestInventoryService_ListRecordsDecoratesProducts(t *testing.T) {
	fx := createTestInventoryService(t)
	ctx := context.Background()
	productID := fx.addProduct(0)

	_, err := fx.service.Mutate(ctx, fx.actor, usecase.StockMutationInput{
		ProductID: productID, OperationType: entity.StockIn, Quantity: 9,
	})
	require.NoError(t, err)

	page, err := fx.service.ListRecords(ctx, repository.InventoryFilter{ProductID: &productID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "X1", page.Items[0].ModelName)
	assert.Equal(t, "SOT23", page.Items[0].PackageType)
	assert.Equal(t, int64(1), page.Total)
}

// beginFailingAfterFirst lets the first transaction through and fails the next ones transiently.
type beginFailingAfterFirst struct {
	*stockStore

	started   bool
	remaining int
}

func (b *beginFailingAfterFirst) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	if b.started && b.remaining > 0 {
		b.remaining--

		return repository.MarkTransient(errors.New("connection refused"))
	}
	b.started = true

	return b.stockStore.Execute(ctx, fn)
}
