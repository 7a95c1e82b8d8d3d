package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/scentora/storefront/internal/api"
	"github.com/scentora/storefront/internal/models"
	"github.com/scentora/storefront/internal/store"
)

// ---- in-memory store ----

type memStore struct {
	mu sync.Mutex
	m  map[string][]byte

	// access counters, keyed by store key
	reads  map[string]int
	writes map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		m:      map[string][]byte{},
		reads:  map[string]int{},
		writes: map[string]int{},
	}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[key]++
	return s.m[key], nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes[key]++
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *memStore) SetMany(_ context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.writes[k]++
		s.m[k] = append([]byte(nil), v...)
	}
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes[key]++
	delete(s.m, key)
	return nil
}

func (s *memStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = map[string][]byte{}
	return nil
}

func (s *memStore) guestAccesses() (reads, writes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[store.KeyGuestCart], s.writes[store.KeyGuestCart]
}

// ---- fake identity ----

type fakeIdentity struct {
	mu  sync.Mutex
	uid string
}

func (f *fakeIdentity) CurrentUserID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uid
}

func (f *fakeIdentity) set(uid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uid = uid
}

// ---- fake API client ----

// fakeAPI implements api.Client with a stateful in-memory server cart.
// Upserts merge additively by (product, variant) the way the backend does.
type fakeAPI struct {
	mu sync.Mutex

	serverCart []api.CartLineRecord
	nextLineID int

	fetchCalls  int
	fetchErr    error
	fetchBlock  chan struct{} // when set, FetchCart waits on it
	upserts     []api.CartUpsert
	upsertErr   error
	deletes     [][3]string // userid, cartid, variantid
	deleteErr   error
	upsertErrAt map[string]error // per-product failures
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{upsertErrAt: map[string]error{}}
}

func (f *fakeAPI) Close() error { return nil }

func (f *fakeAPI) FetchCart(_ context.Context, userID string) ([]api.CartLineRecord, error) {
	f.mu.Lock()
	f.fetchCalls++
	block := f.fetchBlock
	err := f.fetchErr
	out := append([]api.CartLineRecord(nil), f.serverCart...)
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeAPI) UpsertCartLine(_ context.Context, req api.CartUpsert) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.upserts = append(f.upserts, req)
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if err := f.upsertErrAt[req.ProductID]; err != nil {
		return err
	}

	for i := range f.serverCart {
		if f.serverCart[i].ProductID == req.ProductID && f.serverCart[i].VariantID == req.VariantID {
			f.serverCart[i].Qty += req.Qty
			return nil
		}
	}
	f.nextLineID++
	f.serverCart = append(f.serverCart, api.CartLineRecord{
		ID:        fmt.Sprintf("srv-%d", f.nextLineID),
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Qty:       req.Qty,
	})
	return nil
}

func (f *fakeAPI) DeleteCartLine(_ context.Context, userID, serverLineID, variantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletes = append(f.deletes, [3]string{userID, serverLineID, variantID})
	if f.deleteErr != nil {
		return f.deleteErr
	}
	out := f.serverCart[:0]
	for _, r := range f.serverCart {
		if r.ID != serverLineID {
			out = append(out, r)
		}
	}
	f.serverCart = out
	return nil
}

func (f *fakeAPI) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func (f *fakeAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

// remaining api.Client methods, unused by the engine tests

func (f *fakeAPI) Login(context.Context, api.AuthRequest) (*api.AuthResponse, error) {
	return nil, nil
}

func (f *fakeAPI) Register(context.Context, api.AuthRequest) (*api.AuthResponse, error) {
	return nil, nil
}

func (f *fakeAPI) ForgotPassword(context.Context, api.AuthRequest) (*api.AuthResponse, error) {
	return nil, nil
}

func (f *fakeAPI) ListAddresses(context.Context, string) ([]models.Address, error) {
	return nil, nil
}

func (f *fakeAPI) AddAddress(context.Context, string, models.Address) error    { return nil }
func (f *fakeAPI) EditAddress(context.Context, string, models.Address) error   { return nil }
func (f *fakeAPI) DeleteAddress(context.Context, string, string) error         { return nil }
func (f *fakeAPI) SetDefaultAddress(context.Context, string, string) error     { return nil }
func (f *fakeAPI) FetchProducts(context.Context) ([]models.Product, error)     { return nil, nil }
func (f *fakeAPI) Checkout(context.Context, api.CheckoutRequest) (*models.Order, error) {
	return nil, nil
}
