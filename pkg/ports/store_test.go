package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/aretw0/ordinal/pkg/ports"
	"github.com/aretw0/ordinal/pkg/ports/tests"
)

// MockStore is a map-backed implementation of DefaultsStore for testing purposes.
type MockStore struct {
	data map[string]domain.Defaults
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]domain.Defaults),
	}
}

func (m *MockStore) Save(ctx context.Context, key string, d *domain.Defaults) error {
	m.data[key] = *d
	return nil
}

func (m *MockStore) Load(ctx context.Context, key string) (*domain.Defaults, error) {
	d, ok := m.data[key]
	if !ok {
		return nil, domain.ErrDefaultsNotFound
	}
	return &d, nil
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

var _ ports.DefaultsStore = (*MockStore)(nil)

func TestDefaultsStore_Contract(t *testing.T) {
	// The mock doubles as the reference the adapters are checked against.
	tests.DefaultsStoreContractTest(t, NewMockStore())
}
