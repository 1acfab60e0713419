package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211", "gowhere_test:")

	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	err := mc.Set("dataset", []byte(`{"East":["Tampines Mall"]}`), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("dataset")
	assert.NoError(t, err)
	assert.Equal(t, `{"East":["Tampines Mall"]}`, string(value))

	// The prefix is applied on the wire
	raw, err := mc.client.Get("gowhere_test:dataset")
	assert.NoError(t, err)
	assert.Equal(t, value, raw.Value)

	err = mc.Delete("dataset")
	assert.NoError(t, err)

	_, err = mc.Get("dataset")
	assert.True(t, errors.Is(err, ErrMiss))

	// Deleting twice is fine
	assert.NoError(t, mc.Delete("dataset"))
}
