package views

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/supplynet-dashboard/internal/assistant"
	"github.com/angelmondragon/supplynet-dashboard/internal/orders"
	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
)

type stubAPI struct {
	getErr error
}

func (s stubAPI) GetStore(_ context.Context, id string) (stores.StoreRecord, error) {
	if s.getErr != nil {
		return stores.StoreRecord{}, s.getErr
	}
	return stores.StoreRecord{
		ID:    id,
		Name:  "North",
		Items: []stores.InventoryItem{{Name: "Milk", CurrentQuantity: 10, MaxQuantity: 100, Unit: "L"}},
	}, nil
}

func (stubAPI) UpdateConditions(context.Context, string, stores.Conditions) error { return nil }

func (stubAPI) CreateOrder(context.Context, orders.OrderDraft) (orders.CreateOrderResult, error) {
	return orders.CreateOrderResult{OrderID: "o1"}, nil
}

type pipeTransport struct {
	mu      sync.Mutex
	closed  chan struct{}
	once    sync.Once
	written [][]byte
}

func (p *pipeTransport) ReadMessage() ([]byte, error) {
	<-p.closed
	return nil, errors.New("closed")
}

func (p *pipeTransport) WriteJSON(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written = append(p.written, raw)
	return nil
}

func (p *pipeTransport) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

type pipeDialer struct {
	mu   sync.Mutex
	last *pipeTransport
}

func (d *pipeDialer) Dial(context.Context, string) (assistant.Transport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = &pipeTransport{closed: make(chan struct{})}
	return d.last, nil
}

func newTestRegistry(t *testing.T, api stubAPI, dialer *pipeDialer) *Registry {
	t.Helper()
	r, err := NewRegistry(Params{
		API:               api,
		Dialer:            dialer,
		StreamURL:         "ws://assistant.test/ws",
		FulfillingStoreID: "w1",
		Logger:            logger.New(logger.Options{Output: io.Discard}),
	})
	require.NoError(t, err)
	t.Cleanup(func() { r.CloseAll() })
	return r
}

func TestCreateGetClose(t *testing.T) {
	r := newTestRegistry(t, stubAPI{}, &pipeDialer{})

	view, err := r.Create(context.Background(), "s1")
	require.NoError(t, err)
	require.NotEmpty(t, view.ID)

	got, err := r.Get(view.ID)
	require.NoError(t, err)
	assert.Same(t, view, got)
	assert.Equal(t, "North", got.Detail.Snapshot().Store.Name)

	require.NoError(t, r.Close(view.ID))
	_, err = r.Get(view.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, view.Detail.Closed())
	assert.True(t, pkgerrors.IsCode(r.Close(view.ID), pkgerrors.CodeNotFound))
}

func TestCreateKeepsViewOnLoadFailure(t *testing.T) {
	r := newTestRegistry(t, stubAPI{getErr: errors.New("down")}, &pipeDialer{})

	view, err := r.Create(context.Background(), "s1")
	require.Error(t, err)
	require.NotNil(t, view)
	_, err = r.Get(view.ID)
	require.NoError(t, err)
}

func TestCreateRejectsBlankStore(t *testing.T) {
	r := newTestRegistry(t, stubAPI{}, &pipeDialer{})
	_, err := r.Create(context.Background(), "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestStartAnalysisUsesPrompt(t *testing.T) {
	dialer := &pipeDialer{}
	r := newTestRegistry(t, stubAPI{}, dialer)
	view, err := r.Create(context.Background(), "s1")
	require.NoError(t, err)

	require.NoError(t, view.Assistant.Open(context.Background()))
	assert.Equal(t, 1, r.LiveSessions())
	require.NoError(t, view.StartAnalysis(context.Background()))

	dialer.mu.Lock()
	tr := dialer.last
	dialer.mu.Unlock()
	tr.mu.Lock()
	defer tr.mu.Unlock()
	require.Len(t, tr.written, 1)
	var frame assistant.StartFrame
	require.NoError(t, json.Unmarshal(tr.written[0], &frame))
	assert.Equal(t, assistant.ActionStart, frame.Action)
	assert.Contains(t, frame.Request, "- Milk: 10/100 L (10% - CRITICALLY LOW)")
	assert.Equal(t, 15, frame.MaxIterations)
}

func TestCloseAllReleasesAndRefuses(t *testing.T) {
	r := newTestRegistry(t, stubAPI{}, &pipeDialer{})
	for i := 0; i < 3; i++ {
		view, err := r.Create(context.Background(), "s1")
		require.NoError(t, err)
		require.NoError(t, view.Assistant.Open(context.Background()))
	}
	assert.Equal(t, 3, r.LiveSessions())

	assert.Equal(t, 3, r.CloseAll())
	assert.Equal(t, 0, r.LiveSessions())

	_, err := r.Create(context.Background(), "s1")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}
