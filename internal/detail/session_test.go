package detail

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/supplynet-dashboard/internal/orders"
	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
	"github.com/angelmondragon/supplynet-dashboard/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
)

type fakeAPI struct {
	mu         sync.Mutex
	record     stores.StoreRecord
	getErr     error
	updateErr  error
	orderErr   error
	orderGate  chan struct{}
	getGate    chan struct{}
	updateGate chan struct{}
	drafts     []orders.OrderDraft
	conditions []stores.Conditions
}

func (f *fakeAPI) GetStore(context.Context, string) (stores.StoreRecord, error) {
	if f.getGate != nil {
		<-f.getGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return stores.StoreRecord{}, f.getErr
	}
	return f.record.Clone(), nil
}

func (f *fakeAPI) UpdateConditions(_ context.Context, _ string, c stores.Conditions) error {
	if f.updateGate != nil {
		<-f.updateGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conditions = append(f.conditions, c)
	return f.updateErr
}

func (f *fakeAPI) CreateOrder(_ context.Context, draft orders.OrderDraft) (orders.CreateOrderResult, error) {
	if f.orderGate != nil {
		<-f.orderGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, draft)
	if f.orderErr != nil {
		return orders.CreateOrderResult{}, f.orderErr
	}
	return orders.CreateOrderResult{OrderID: "o-1"}, nil
}

func (f *fakeAPI) draftCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.drafts)
}

func sampleStore() stores.StoreRecord {
	return stores.StoreRecord{
		ID:        "s1",
		Name:      "North",
		StoreType: "retail",
		Items: []stores.InventoryItem{
			{Name: "Milk", CurrentQuantity: 10, MaxQuantity: 100, Unit: "L", Price: 1.25, Category: "dairy"},
			{Name: "Rice", CurrentQuantity: 50, MaxQuantity: 100, Unit: "kg", Price: 2, Category: "grain"},
		},
		Conditions: stores.Conditions{EconomicConditions: enums.ConditionMedium},
	}
}

func newLoadedSession(t *testing.T, api *fakeAPI) *Session {
	t.Helper()
	s, err := NewSession(Params{
		StoreID:           "s1",
		FulfillingStoreID: "w1",
		API:               api,
		Logger:            logger.New(logger.Options{Output: io.Discard}),
	})
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestLoadResetsDrafts(t *testing.T) {
	api := &fakeAPI{record: sampleStore()}
	s := newLoadedSession(t, api)

	snap := s.Snapshot()
	require.NotNil(t, snap.Store)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, 0, snap.Items[0].Draft)
	assert.Equal(t, enums.StockCriticallyLow, snap.Items[0].StockStatus)
	assert.Equal(t, enums.ConditionMedium, snap.Conditions.EconomicConditions)
	assert.Equal(t, "0.00", snap.OrderTotal)
}

func TestLoadFailureIsSurfaced(t *testing.T) {
	api := &fakeAPI{getErr: pkgerrors.New(pkgerrors.CodeDependency, "upstream down")}
	s, err := NewSession(Params{StoreID: "s1", API: api, Logger: logger.New(logger.Options{Output: io.Discard})})
	require.NoError(t, err)

	require.Error(t, s.Load(context.Background()))
	snap := s.Snapshot()
	assert.Contains(t, snap.Error, "upstream down")
	assert.Nil(t, snap.Store)

	_, err = s.SetItemDraftQuantity("Milk", 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	api.mu.Lock()
	api.getErr = nil
	api.record = sampleStore()
	api.mu.Unlock()
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Snapshot().Error)
}

func TestDraftQuantityClampsAndTotals(t *testing.T) {
	s := newLoadedSession(t, &fakeAPI{record: sampleStore()})

	qty, err := s.SetItemDraftQuantity("Milk", -4)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	_, err = s.SetItemDraftQuantity("Milk", 3)
	require.NoError(t, err)
	_, err = s.SetItemDraftQuantity("Rice", 2)
	require.NoError(t, err)
	assert.Equal(t, "7.75", s.Snapshot().OrderTotal)

	_, err = s.SetItemDraftQuantity("Bread", 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSubmitOrderRejectsEmptyDraft(t *testing.T) {
	api := &fakeAPI{record: sampleStore()}
	s := newLoadedSession(t, api)

	_, err := s.SubmitManualOrder(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, 0, api.draftCount())
}

func TestSubmitOrderSuccessResets(t *testing.T) {
	api := &fakeAPI{record: sampleStore()}
	s := newLoadedSession(t, api)
	_, _ = s.SetItemDraftQuantity("Rice", 4)
	require.NoError(t, s.SetNotes("urgent"))

	res, err := s.SubmitManualOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "o-1", res.OrderID)

	require.Len(t, api.drafts, 1)
	sent := api.drafts[0]
	assert.Equal(t, "w1", sent.MainStoreID)
	assert.Equal(t, "North", sent.StoreName)
	assert.Equal(t, "urgent", sent.Notes)
	require.Len(t, sent.Items, 1)
	assert.Equal(t, orders.OrderLine{ItemName: "Rice", Quantity: 4, Unit: "kg", Price: 2, Category: "grain"}, sent.Items[0])

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Items[1].Draft)
	assert.Empty(t, snap.Notes)
	assert.Equal(t, "o-1", snap.LastOrderID)
}

func TestSubmitOrderFailureKeepsDrafts(t *testing.T) {
	api := &fakeAPI{record: sampleStore(), orderErr: errors.New("500")}
	s := newLoadedSession(t, api)
	_, _ = s.SetItemDraftQuantity("Milk", 2)
	_ = s.SetNotes("keep me")

	_, err := s.SubmitManualOrder(context.Background())
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Items[0].Draft)
	assert.Equal(t, "keep me", snap.Notes)
	assert.False(t, snap.SubmittingOrder)
}

func TestSecondSubmitWhileInFlightChangesNothing(t *testing.T) {
	api := &fakeAPI{record: sampleStore(), orderGate: make(chan struct{})}
	s := newLoadedSession(t, api)
	_, _ = s.SetItemDraftQuantity("Milk", 1)

	done := make(chan error, 1)
	go func() {
		_, err := s.SubmitManualOrder(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return s.Snapshot().SubmittingOrder }, timeout, tick)

	_, err := s.SubmitManualOrder(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	close(api.orderGate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, api.draftCount())
}

func TestCloseDiscardsLateResults(t *testing.T) {
	api := &fakeAPI{record: sampleStore()}
	s := newLoadedSession(t, api)
	_, _ = s.SetItemDraftQuantity("Milk", 5)

	api.orderGate = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := s.SubmitManualOrder(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return s.Snapshot().SubmittingOrder }, timeout, tick)
	s.Close()
	close(api.orderGate)

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.Equal(t, 5, s.Snapshot().Items[0].Draft)
	assert.ErrorIs(t, s.Load(context.Background()), ErrClosed)
}

func TestStaleLoadIsDropped(t *testing.T) {
	api := &fakeAPI{record: sampleStore()}
	s := newLoadedSession(t, api)
	_, _ = s.SetItemDraftQuantity("Milk", 5)

	api.getGate = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()
	require.Eventually(t, func() bool { return s.Snapshot().Loading }, timeout, tick)
	s.Close()
	close(api.getGate)

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.Equal(t, 5, s.Snapshot().Items[0].Draft)
}

func TestConditionsEditAndSubmit(t *testing.T) {
	api := &fakeAPI{record: sampleStore()}
	s := newLoadedSession(t, api)

	require.Error(t, s.SetConditionField(stores.FieldPoliticalInstability, "critical"))
	require.NoError(t, s.SetConditionField(stores.FieldEnvironmentalIssues, "critical"))
	require.NoError(t, s.SetConditionField(stores.FieldEnvironmentalNotes, "flooding"))

	require.NoError(t, s.SubmitConditions(context.Background()))
	require.Len(t, api.conditions, 1)
	assert.Equal(t, enums.ConditionCritical, api.conditions[0].EnvironmentalIssues)
	assert.Equal(t, enums.ConditionMedium, api.conditions[0].EconomicConditions)

	rec, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "flooding", rec.EnvironmentalNotes)
}

func TestConditionsSubmitAfterReloadKeepsFreshRecord(t *testing.T) {
	api := &fakeAPI{record: sampleStore()}
	s := newLoadedSession(t, api)
	require.NoError(t, s.SetConditionField(stores.FieldEconomicConditions, "high"))

	api.updateGate = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- s.SubmitConditions(context.Background()) }()
	require.Eventually(t, func() bool { return s.Snapshot().SubmittingConditions }, timeout, tick)

	api.mu.Lock()
	api.record.EconomicConditions = enums.ConditionCritical
	api.mu.Unlock()
	require.NoError(t, s.Load(context.Background()))

	close(api.updateGate)
	require.NoError(t, <-done)
	snap := s.Snapshot()
	assert.Equal(t, enums.ConditionCritical, snap.Store.EconomicConditions)
	assert.Equal(t, enums.ConditionCritical, snap.Conditions.EconomicConditions)
}

func TestConditionsSubmitFailureKeepsDraft(t *testing.T) {
	api := &fakeAPI{record: sampleStore(), updateErr: errors.New("boom")}
	s := newLoadedSession(t, api)
	require.NoError(t, s.SetConditionField(stores.FieldEconomicConditions, "high"))

	require.Error(t, s.SubmitConditions(context.Background()))
	snap := s.Snapshot()
	assert.Equal(t, enums.ConditionHigh, snap.Conditions.EconomicConditions)
	assert.Equal(t, enums.ConditionMedium, snap.Store.EconomicConditions)
}
