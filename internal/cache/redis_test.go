package cache

import (
	"context"
	"testing"
	"time"
)

func TestNewRedisStoreErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"malformed url", "http://localhost:6379"},
		{"unreachable server", "redis://127.0.0.1:1/0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			store, err := NewRedisStore(ctx, tt.url)
			if err == nil {
				store.Close()
				t.Fatal("expected an error")
			}
		})
	}
}
