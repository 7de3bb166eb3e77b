package memory_test

import (
	"testing"

	"github.com/aretw0/ordinal/pkg/adapters/memory"
	"github.com/aretw0/ordinal/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.DefaultsStoreContractTest(t, memory.NewStore())
}
