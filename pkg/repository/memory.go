package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/example/marketplace/pkg/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process order store used by the "memory" storage
// driver. Every call works on copies so callers never share state with it.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
	// insertion order, so unsorted finds are stable
	seq []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*models.Order)}
}

func (s *MemoryStore) Insert(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = primitive.NewObjectID().Hex()
	}
	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("insert order %s: %w", o.ID, models.ErrConflict)
	}
	stored := o.Clone()
	stored.ClearEnrichment()
	s.orders[o.ID] = stored
	s.seq = append(s.seq, o.ID)
	return nil
}

func (s *MemoryStore) FindOne(ctx context.Context, f models.OrderFilter, opts models.FindOptions) (*models.Order, error) {
	opts.Limit = 1
	found, err := s.FindMany(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, models.ErrNotFound
	}
	return found[0], nil
}

func (s *MemoryStore) FindMany(_ context.Context, f models.OrderFilter, opts models.FindOptions) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := []*models.Order{}
	for _, id := range s.seq {
		if o := s.orders[id]; f.Match(o) {
			found = append(found, o.Clone())
		}
	}
	if opts.SortByCodeDesc {
		sort.SliceStable(found, func(i, j int) bool {
			return found[i].OrderCode > found[j].OrderCode
		})
	}
	if opts.Limit > 0 && int64(len(found)) > opts.Limit {
		found = found[:opts.Limit]
	}
	return found, nil
}

func (s *MemoryStore) FindOneAndUpdate(_ context.Context, f models.OrderFilter, u models.OrderUpdate) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.seq {
		if o := s.orders[id]; f.Match(o) {
			u.Apply(o)
			return o.Clone(), nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryStore) ReplaceOne(_ context.Context, f models.OrderFilter, o *models.Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.seq {
		if cur := s.orders[id]; f.Match(cur) {
			stored := o.Clone()
			stored.ID = id
			stored.ClearEnrichment()
			s.orders[id] = stored
			return 1, nil
		}
	}
	return 0, nil
}

// MemoryDirectory serves customer and product names from maps.
type MemoryDirectory struct {
	mu       sync.RWMutex
	users    map[string]models.User
	products map[string]models.Product
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		users:    make(map[string]models.User),
		products: make(map[string]models.Product),
	}
}

func (d *MemoryDirectory) AddUser(u models.User) {
	d.mu.Lock()
	d.users[u.ID] = u
	d.mu.Unlock()
}

func (d *MemoryDirectory) AddProduct(p models.Product) {
	d.mu.Lock()
	d.products[p.ID] = p
	d.mu.Unlock()
}

func (d *MemoryDirectory) CustomerNames(_ context.Context, ids []string) (map[string]models.CustomerName, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make(map[string]models.CustomerName, len(ids))
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			names[id] = models.CustomerName{FirstName: u.FirstName, LastName: u.LastName}
		}
	}
	return names, nil
}

func (d *MemoryDirectory) ProductNames(_ context.Context, ids []string) (map[string]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if p, ok := d.products[id]; ok {
			names[id] = p.Name
		}
	}
	return names, nil
}
