package cache

import (
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		parts  []string
		want   string
	}{
		{"No prefix", "", []string{"assignments"}, "assignments"},
		{"Prefix", "vanitybot", []string{"assignments"}, "vanitybot:assignments"},
		{"Multiple parts", "vanitybot", []string{"guild", "123"}, "vanitybot:guild:123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Cache{prefix: tt.prefix}
			assert.Equal(t, tt.want, c.Key(tt.parts...))
		})
	}
}

func TestIsMiss(t *testing.T) {
	assert.True(t, IsMiss(redis.Nil))
	assert.False(t, IsMiss(errors.New("connection refused")))
	assert.False(t, IsMiss(nil))
}

func TestNewRedisCache_BadURL(t *testing.T) {
	c, err := NewRedisCache("not-a-redis-url", "vanitybot")
	assert.Error(t, err)
	assert.Nil(t, c)
}
