package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("rag.max_document_size_mb", 16))
	require.NoError(t, store.Set("rag.max_document_size_mb", 32))

	val, ok := store.Get("rag.max_document_size_mb")
	assert.True(t, ok)
	assert.Equal(t, 32, val)
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.Equal(t, 0.0, store.GetFloat("missing"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_GetInt_Conversions(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("int", 5)
	_ = store.Set("int64", int64(10))
	_ = store.Set("float", 16.0)
	_ = store.Set("string", "16")

	assert.Equal(t, 5, store.GetInt("int"))
	assert.Equal(t, 10, store.GetInt("int64"))
	assert.Equal(t, 16, store.GetInt("float"))
	assert.Equal(t, 0, store.GetInt("string"))
}

func TestConfigStore_GetFloat_Conversions(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("float", 2.5)
	_ = store.Set("int", 3)
	_ = store.Set("int64", int64(4))
	_ = store.Set("bool", true)

	assert.Equal(t, 2.5, store.GetFloat("float"))
	assert.Equal(t, 3.0, store.GetFloat("int"))
	assert.Equal(t, 4.0, store.GetFloat("int64"))
	assert.Equal(t, 0.0, store.GetFloat("bool"))
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("key", 42)

	assert.Equal(t, "", store.GetString("key"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("typed", []string{"a", "b"})
	_ = store.Set("untyped", []any{"c", 1, "d"})

	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("typed"))
	assert.Equal(t, []string{"c", "d"}, store.GetStringSlice("untyped"))
}

func TestConfigStore_SaveLoad_NoOp(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("key", "value")

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "value", store.GetString("key"))
}

func TestConfigStore_Watch_ReturnsOnCancel(t *testing.T) {
	store := NewConfigStore()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx, func() {}) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestConfigStore_Concurrency_ReadWriteMix(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("counter")
		}()
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
