package views

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/supplynet-dashboard/internal/assistant"
	"github.com/angelmondragon/supplynet-dashboard/internal/detail"
	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
	"github.com/angelmondragon/supplynet-dashboard/pkg/metrics"
)

// View is one mounted store detail page with its assistant sidebar.
type View struct {
	ID        string
	CreatedAt time.Time
	Detail    *detail.Session
	Assistant *assistant.Session
}

// StartAnalysis builds the prompt from the current detail state and sends it.
func (v *View) StartAnalysis(ctx context.Context) error {
	rec, err := v.Detail.Current()
	if err != nil {
		return err
	}
	return v.Assistant.StartAnalysis(ctx, assistant.BuildPrompt(rec))
}

func (v *View) close() {
	v.Detail.Close()
	v.Assistant.Teardown()
}

// Params configure the registry.
type Params struct {
	API               detail.API
	Dialer            assistant.Dialer
	StreamURL         string
	MaxIterations     int
	FulfillingStoreID string
	Logger            *logger.Logger
	Metrics           *metrics.AssistantMetrics
}

// Registry tracks mounted views by id.
type Registry struct {
	params Params
	mu     sync.RWMutex
	views  map[string]*View
	closed bool
}

// NewRegistry builds an empty registry.
func NewRegistry(params Params) (*Registry, error) {
	if params.API == nil {
		return nil, fmt.Errorf("upstream api required")
	}
	if params.Dialer == nil {
		return nil, fmt.Errorf("dialer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Registry{params: params, views: map[string]*View{}}, nil
}

// Create mounts a view for storeID and loads it. The view is kept when the
// load fails so the caller can retry; the load error is returned alongside it.
func (r *Registry) Create(ctx context.Context, storeID string) (*View, error) {
	id := newViewID()
	d, err := detail.NewSession(detail.Params{
		StoreID:           storeID,
		FulfillingStoreID: r.params.FulfillingStoreID,
		API:               r.params.API,
		Logger:            r.params.Logger,
	})
	if err != nil {
		return nil, err
	}
	a, err := assistant.NewSession(assistant.Params{
		ViewID:        id,
		URL:           r.params.StreamURL,
		Dialer:        r.params.Dialer,
		MaxIterations: r.params.MaxIterations,
		Logger:        r.params.Logger,
		Metrics:       r.params.Metrics,
	})
	if err != nil {
		return nil, err
	}
	view := &View{ID: id, CreatedAt: time.Now().UTC(), Detail: d, Assistant: a}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "dashboard is shutting down")
	}
	r.views[id] = view
	r.mu.Unlock()

	logCtx := r.params.Logger.WithViewID(r.params.Logger.WithStoreID(ctx, storeID), id)
	r.params.Logger.Info(logCtx, "detail view mounted")
	return view, d.Load(ctx)
}

// Get returns a mounted view.
func (r *Registry) Get(id string) (*View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	view, ok := r.views[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("view %q not found", id))
	}
	return view, nil
}

// Close unmounts a view, releasing its assistant transport.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	view, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("view %q not found", id))
	}
	view.close()
	return nil
}

// CloseAll unmounts every view and refuses new ones. It returns how many were closed.
func (r *Registry) CloseAll() int {
	r.mu.Lock()
	r.closed = true
	views := make([]*View, 0, len(r.views))
	for id, v := range r.views {
		views = append(views, v)
		delete(r.views, id)
	}
	r.mu.Unlock()

	for _, v := range views {
		v.close()
	}
	for _, v := range views {
		v.Assistant.Wait()
	}
	return len(views)
}

// List returns mounted views, oldest first.
func (r *Registry) List() []*View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// LiveSessions counts views holding an assistant transport.
func (r *Registry) LiveSessions() int {
	n := 0
	for _, v := range r.List() {
		if v.Assistant.Live() {
			n++
		}
	}
	return n
}

func newViewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
