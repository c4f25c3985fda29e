package cart

import (
	"context"
	"errors"

	"github.com/irsalhamdi/marble-store/core/catalog"
	"github.com/sirupsen/logrus"
)

// StorageKey is the key the cart blob is persisted under.
const StorageKey = "Cart"

// Storage is the key-value store mirroring the cart. Get returns an
// empty string when the key is absent.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}

// Store owns the in-memory cart of one visitor and writes every mutation
// through to its Storage. It is not safe for concurrent use.
type Store struct {
	storage Storage
	log     logrus.FieldLogger
	lines   []Line
}

// Load hydrates a Store from storage. A missing or unreadable blob
// yields an empty cart.
func Load(ctx context.Context, storage Storage, log logrus.FieldLogger) *Store {
	s := &Store{storage: storage, log: log}

	raw, err := storage.Get(ctx, StorageKey)
	if err != nil {
		log.WithError(err).Warn("reading cart")
		return s
	}
	if raw == "" {
		return s
	}

	lines, shape, err := Decode([]byte(raw))
	if err != nil {
		if !errors.Is(err, ErrUnknownShape) {
			log.WithError(err).Warn("discarding malformed cart")
		}
		return s
	}

	log.WithFields(logrus.Fields{"shape": shape, "lines": len(lines)}).Debug("cart loaded")
	s.lines = lines
	return s
}

// Add puts count units of ref in the cart, merging with an existing line
// for the same product id. Counts below one are raised to one.
func (s *Store) Add(ctx context.Context, ref ProductRef, count int) {
	n := normalizeCount(float64(count))

	if i := s.index(ref.ID); i >= 0 {
		s.lines[i].Count += n
	} else {
		s.lines = append(s.lines, Line{Product: ref, Count: n})
	}

	s.persist(ctx)
}

// Remove drops the line for id, if any.
func (s *Store) Remove(ctx context.Context, id catalog.ID) {
	i := s.index(id)
	if i < 0 {
		return
	}

	s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
	s.persist(ctx)
}

// UpdateQuantity sets the line for id to max(1, floor(count)).
func (s *Store) UpdateQuantity(ctx context.Context, id catalog.ID, count float64) {
	i := s.index(id)
	if i < 0 {
		return
	}

	s.lines[i].Count = normalizeCount(count)
	s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.lines = nil
	s.persist(ctx)
}

// Lookup resolves the textual form of a product id, as found in a URL,
// to the id of a line in the cart.
func (s *Store) Lookup(raw string) (catalog.ID, bool) {
	for _, l := range s.lines {
		if l.Product.ID.String() == raw {
			return l.Product.ID, true
		}
	}
	return catalog.ID{}, false
}

func (s *Store) Cart() Cart { return newCart(s.lines) }

func (s *Store) Len() int { return len(s.lines) }

func (s *Store) TotalCount() int { return totalCount(s.lines) }

func (s *Store) TotalPrice() float64 { return totalPrice(s.lines) }

func (s *Store) index(id catalog.ID) int {
	for i := range s.lines {
		if s.lines[i].Product.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the cart blob. Failures are logged and the in-memory
// cart stays authoritative.
func (s *Store) persist(ctx context.Context) {
	b, err := Encode(s.lines)
	if err != nil {
		s.log.WithError(err).Error("encoding cart")
		return
	}

	if err := s.storage.Set(ctx, StorageKey, string(b)); err != nil {
		s.log.WithError(err).Warn("writing cart")
	}
}
