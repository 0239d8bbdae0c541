package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/prefabs"
)

func TestPoolAcquireRelease(t *testing.T) {
	p := NewPool(2, 3)
	if p.FreeCount() != 2 || p.Cap() != 2 {
		t.Fatalf("expected 2 free of 2, got %d of %d", p.FreeCount(), p.Cap())
	}

	a, pa, err := p.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	b, _, _ := p.Acquire()
	if p.FreeCount() != 0 || p.ActiveCount() != 2 {
		t.Fatalf("expected 0 free and 2 active, got %d and %d", p.FreeCount(), p.ActiveCount())
	}

	c, _, err := p.Acquire()
	if err != nil || p.Cap() != 3 {
		t.Fatalf("pool should grow to 3, err=%v cap=%d", err, p.Cap())
	}
	if _, _, err := p.Acquire(); !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}

	if !p.Release(a) {
		t.Fatalf("release should succeed")
	}
	if p.Release(a) {
		t.Fatalf("double release should be a no-op")
	}
	if pa.Phase != component.PhaseFree {
		t.Fatalf("released projectile should be free, got %s", pa.Phase)
	}
	if _, ok := p.Get(a); ok {
		t.Fatalf("stale handle should not resolve")
	}

	a2, pa2, err := p.Acquire()
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	if pa2 != pa || a2 == a {
		t.Fatalf("expected the same instance under a new handle")
	}
	if p.Release(a) {
		t.Fatalf("stale handle released a live instance")
	}

	p.ReleaseAll()
	for _, e := range []Entity{a2, b, c} {
		if _, ok := p.Get(e); ok {
			t.Fatalf("%s still active after ReleaseAll", e)
		}
	}
	if p.ActiveCount() != 0 || p.FreeCount() != 3 {
		t.Fatalf("expected all free, got %d active", p.ActiveCount())
	}
}

func TestPoolEachSkipsFree(t *testing.T) {
	p := NewPool(4, 4)
	var live []Entity
	for i := 0; i < 3; i++ {
		e, _, _ := p.Acquire()
		live = append(live, e)
	}
	p.Release(live[1])

	var seen []Entity
	p.Each(func(e Entity, _ *component.Projectile) {
		seen = append(seen, e)
	})
	if len(seen) != 2 || seen[0] != live[0] || seen[1] != live[2] {
		t.Fatalf("expected %v and %v, got %v", live[0], live[2], seen)
	}
}

func TestEntityStore(t *testing.T) {
	var s entityStore
	a := s.create()
	b := s.create()
	if !a.Valid() || a == b {
		t.Fatalf("expected two distinct valid handles, got %s %s", a, b)
	}

	s.destroy(a)
	if s.isAlive(a) {
		t.Fatalf("destroyed handle still alive")
	}
	c := s.create()
	if c.id() != a.id() || c.generation() == a.generation() {
		t.Fatalf("expected slot reuse with a new generation, got %s after %s", c, a)
	}

	s.reset()
	if s.isAlive(b) {
		t.Fatalf("reset should forget every handle")
	}
}

func TestOrderAllocator(t *testing.T) {
	o := NewOrderAllocator()
	cases := []struct {
		size prefabs.SizeCategory
		lo   int
		hi   int
	}{
		{prefabs.SizeLarge, 1000, 5999},
		{prefabs.SizeMiddle, 6000, 10999},
		{prefabs.SizeSmall, 11000, 15999},
	}

	for _, c := range cases {
		t.Run(string(c.size), func(t *testing.T) {
			if got := o.Next(c.size); got != c.lo {
				t.Fatalf("expected first order %d, got %d", c.lo, got)
			}
			for i := c.lo + 1; i <= c.hi; i++ {
				o.Next(c.size)
			}
			if got := o.Next(c.size); got != c.lo {
				t.Fatalf("expected wrap to %d, got %d", c.lo, got)
			}
		})
	}

	if got := o.Next("huge"); got != 0 {
		t.Fatalf("unknown size should get 0, got %d", got)
	}
}
