package dynfmt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	runStorageConformance(t, func(t *testing.T) DictionaryStorage {
		return NewMemoryStorage()
	})
}

func TestMemoryStorage_OpenViaRegistry(t *testing.T) {
	storage, err := OpenStorage(StorageDriverNameMemory, "")
	require.NoError(t, err)
	defer storage.Close()

	_, ok := storage.(*MemoryStorage)
	assert.True(t, ok)
}

func TestMemoryStorage_SaveStoresCopy(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	dict := &StoredDictionary{Name: "m", Entries: map[string]string{"k": "v"}}
	require.NoError(t, storage.Save(ctx, dict))
	dict.Entries["k"] = "mutated"

	got, err := storage.Get(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, "v", got.Entries["k"])
}
