// EventMesh - Event Discovery and Social Connection Backend
// Copyright 2026 EventMesh contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventmesh/eventmesh

package cache

import (
	"sync"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New("test", time.Minute)
	defer c.Stop()

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("Get() miss after Set()")
	}
	if got.(string) != "v" {
		t.Errorf("Get() = %v, want v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New("test", time.Minute)
	defer c.Stop()

	if _, ok := c.Get("absent"); ok {
		t.Error("Get() hit for absent key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New("test", time.Minute)
	defer c.Stop()

	c.SetWithTTL("k", 1, -time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("Get() hit for expired entry")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expired Get, want 0", c.Len())
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New("test", time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Get() hit after Delete()")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear(), want 0", c.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New("test", time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := Key("op", []int{n, j % 10})
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
}

func TestKeyDeterministic(t *testing.T) {
	type params struct {
		UserID string
		Limit  int
	}
	k1 := Key("recommend", params{"u1", 20})
	k2 := Key("recommend", params{"u1", 20})
	k3 := Key("recommend", params{"u2", 20})
	if k1 != k2 {
		t.Errorf("identical params produced different keys: %s vs %s", k1, k2)
	}
	if k1 == k3 {
		t.Error("different params produced identical keys")
	}
}
