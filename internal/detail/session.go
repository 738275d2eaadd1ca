package detail

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/supplynet-dashboard/internal/orders"
	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
)

// ErrClosed is returned when an operation resolves after the view was closed.
var ErrClosed = pkgerrors.New(pkgerrors.CodeStateConflict, "detail view closed")

// API is the subset of upstream calls a detail view makes.
type API interface {
	GetStore(ctx context.Context, id string) (stores.StoreRecord, error)
	UpdateConditions(ctx context.Context, id string, conditions stores.Conditions) error
	CreateOrder(ctx context.Context, draft orders.OrderDraft) (orders.CreateOrderResult, error)
}

// Params configure a detail session.
type Params struct {
	StoreID           string
	FulfillingStoreID string
	API               API
	Logger            *logger.Logger
}

// Session is the editable state behind one store detail view.
type Session struct {
	mu sync.Mutex

	storeID     string
	fulfillment string
	api         API
	logg        *logger.Logger

	loading    bool
	loadErr    error
	loadGen    uint64
	record     *stores.StoreRecord
	conditions stores.Conditions
	drafts     map[string]int
	notes      string

	submittingOrder      bool
	submittingConditions bool
	lastOrderID          string
	closed               bool
}

// NewSession builds an unloaded session.
func NewSession(params Params) (*Session, error) {
	if params.API == nil {
		return nil, fmt.Errorf("upstream api required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.StoreID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store_id is required")
	}
	return &Session{
		storeID:     params.StoreID,
		fulfillment: params.FulfillingStoreID,
		api:         params.API,
		logg:        params.Logger,
		drafts:      map[string]int{},
	}, nil
}

// StoreID returns the store this view was opened for.
func (s *Session) StoreID() string {
	return s.storeID
}

// Load fetches the store and resets every draft. A response that lands after
// a newer Load or after Close is dropped.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.loadGen++
	gen := s.loadGen
	s.loading = true
	s.mu.Unlock()

	rec, err := s.api.GetStore(ctx, s.storeID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if gen != s.loadGen {
		return nil
	}
	s.loading = false
	if err != nil {
		s.loadErr = err
		s.logg.Error(s.logg.WithStoreID(ctx, s.storeID), "failed to load store details", err)
		return err
	}

	s.loadErr = nil
	s.record = &rec
	s.conditions = rec.Conditions
	s.drafts = make(map[string]int, len(rec.Items))
	for _, item := range rec.Items {
		s.drafts[item.Name] = 0
	}
	s.notes = ""
	return nil
}

// SetConditionField edits one field of the local conditions draft.
func (s *Session) SetConditionField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLoaded(); err != nil {
		return err
	}
	next := s.conditions
	if err := next.Set(field, value); err != nil {
		return err
	}
	s.conditions = next
	return nil
}

// SubmitConditions sends the conditions draft upstream.
func (s *Session) SubmitConditions(ctx context.Context) error {
	s.mu.Lock()
	if err := s.requireLoaded(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.submittingConditions {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, "conditions update already in progress")
	}
	s.submittingConditions = true
	payload := s.conditions
	gen := s.loadGen
	s.mu.Unlock()

	err := s.api.UpdateConditions(ctx, s.storeID, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submittingConditions = false
	if s.closed {
		return ErrClosed
	}
	if err != nil {
		s.logg.Error(s.logg.WithStoreID(ctx, s.storeID), "failed to update conditions", err)
		return err
	}
	// a newer Load already holds fresher conditions
	if gen == s.loadGen && s.record != nil {
		s.record.Conditions = payload
	}
	return nil
}

// SetItemDraftQuantity sets the order quantity for one item, clamped at zero.
func (s *Session) SetItemDraftQuantity(itemName string, quantity int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLoaded(); err != nil {
		return 0, err
	}
	if _, ok := s.drafts[itemName]; !ok {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("item %q not stocked by this store", itemName))
	}
	if quantity < 0 {
		quantity = 0
	}
	s.drafts[itemName] = quantity
	return quantity, nil
}

// SetNotes replaces the order notes.
func (s *Session) SetNotes(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLoaded(); err != nil {
		return err
	}
	s.notes = text
	return nil
}

// SubmitManualOrder posts every positive draft as one order. Drafts and notes
// reset only on success. A submission while one is outstanding is rejected
// without touching state.
func (s *Session) SubmitManualOrder(ctx context.Context) (orders.CreateOrderResult, error) {
	s.mu.Lock()
	if err := s.requireLoaded(); err != nil {
		s.mu.Unlock()
		return orders.CreateOrderResult{}, err
	}
	if s.submittingOrder {
		s.mu.Unlock()
		return orders.CreateOrderResult{}, pkgerrors.New(pkgerrors.CodeConflict, "order submission already in progress")
	}
	draft := s.buildDraft()
	if len(draft.Items) == 0 {
		s.mu.Unlock()
		return orders.CreateOrderResult{}, pkgerrors.New(pkgerrors.CodeValidation, "select at least one item to order")
	}
	if err := draft.Validate(); err != nil {
		s.mu.Unlock()
		return orders.CreateOrderResult{}, err
	}
	s.submittingOrder = true
	s.mu.Unlock()

	ctx = s.logg.WithStoreID(ctx, s.storeID)
	result, err := s.api.CreateOrder(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submittingOrder = false
	if s.closed {
		return orders.CreateOrderResult{}, ErrClosed
	}
	if err != nil {
		s.logg.Error(ctx, "failed to create order", err)
		return orders.CreateOrderResult{}, err
	}

	for name := range s.drafts {
		s.drafts[name] = 0
	}
	s.notes = ""
	s.lastOrderID = result.OrderID
	s.logg.Info(s.logg.WithField(ctx, "order_id", result.OrderID), "manual order created")
	return result, nil
}

// Close marks the view unmounted. Calls still in flight are discarded on return.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Current returns the loaded record with the conditions draft applied, for
// building the assistant prompt.
func (s *Session) Current() (stores.StoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireLoaded(); err != nil {
		return stores.StoreRecord{}, err
	}
	rec := s.record.Clone()
	rec.Conditions = s.conditions
	return rec, nil
}

// buildDraft must be called with mu held. Lines follow inventory order.
func (s *Session) buildDraft() orders.OrderDraft {
	draft := orders.OrderDraft{
		StoreID:     s.storeID,
		MainStoreID: s.fulfillment,
		Items:       []orders.OrderLine{},
		Notes:       s.notes,
	}
	if s.record == nil {
		return draft
	}
	draft.StoreName = s.record.Name
	for _, item := range s.record.Items {
		qty := s.drafts[item.Name]
		if qty <= 0 {
			continue
		}
		draft.Items = append(draft.Items, orders.OrderLine{
			ItemName: item.Name,
			Quantity: qty,
			Unit:     item.Unit,
			Price:    item.Price,
			Category: item.Category,
		})
	}
	return draft
}

func (s *Session) requireLoaded() error {
	if s.closed {
		return ErrClosed
	}
	if s.record == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "store details not loaded")
	}
	return nil
}
