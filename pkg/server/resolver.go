package server

import (
	"log/slog"
	"sync"

	"github.com/vockit/lattice"
	"github.com/vockit/lattice/pkg/embedder"
	"github.com/vockit/lattice/pkg/store"
)

// ClientResolver builds tenant-bound engine clients over one shared
// store gateway and embedder. Clients are cached per tenant; they hold
// no per-tenant resources, so the cache is never evicted.
type ClientResolver struct {
	store        store.Store
	embedder     embedder.Client
	dimension    int
	vectorWeight float64
	logger       *slog.Logger

	mu      sync.Mutex
	clients map[string]*lattice.Client
}

// NewClientResolver creates a resolver sharing the given store and
// embedder across all tenants.
func NewClientResolver(s store.Store, e embedder.Client, dimension int, vectorWeight float64, logger *slog.Logger) *ClientResolver {
	return &ClientResolver{
		store:        s,
		embedder:     e,
		dimension:    dimension,
		vectorWeight: vectorWeight,
		logger:       logger,
		clients:      make(map[string]*lattice.Client),
	}
}

// Engine implements handlers.Resolver.
func (r *ClientResolver) Engine(tenantID string) (lattice.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[tenantID]; ok {
		return client, nil
	}

	client, err := lattice.NewClient(r.store, r.embedder, &lattice.Config{
		TenantID:        tenantID,
		VectorDimension: r.dimension,
		VectorWeight:    r.vectorWeight,
	}, r.logger)
	if err != nil {
		return nil, err
	}
	r.clients[tenantID] = client
	return client, nil
}
