package kv_test

import (
	"testing"

	"github.com/trailmap/trailmap/internal/kv"
	"github.com/trailmap/trailmap/internal/kv/kvtest"
)

func TestMemory(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Store { return kv.NewMemory() })
}
