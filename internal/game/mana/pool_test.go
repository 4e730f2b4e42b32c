package mana

import "testing"

func TestPoolAddClampsToMax(t *testing.T) {
	pool := NewPool(10)
	pool.IncreaseMax(3)
	pool.Add(5)

	if pool.Current != 3 {
		t.Errorf("expected current clamped to 3, got %d", pool.Current)
	}
}

func TestPoolIncreaseMaxCapped(t *testing.T) {
	pool := NewPool(10)
	pool.IncreaseMax(12)
	if pool.Max != 10 {
		t.Errorf("expected max capped at 10, got %d", pool.Max)
	}
}

func TestPoolDecreaseMaxClampsCurrent(t *testing.T) {
	pool := NewPool(10)
	pool.IncreaseMax(5)
	pool.Refill()
	pool.DecreaseMax(2)

	if pool.Max != 3 || pool.Current != 3 {
		t.Errorf("expected 3/3, got %d/%d", pool.Current, pool.Max)
	}

	pool.DecreaseMax(10)
	if pool.Max != 0 || pool.Current != 0 {
		t.Errorf("expected 0/0, got %d/%d", pool.Current, pool.Max)
	}
}

func TestPoolSpendFromPoolThenBanks(t *testing.T) {
	pool := NewPool(10)
	pool.IncreaseMax(2)
	pool.Refill()

	first, second := 1, 3
	banks := []Source{Bank{Amount: &first}, Bank{Amount: &second}}

	if got := pool.Available(banks...); got != 6 {
		t.Fatalf("expected 6 available, got %d", got)
	}

	unpaid := pool.Spend(4, banks...)
	if unpaid != 0 {
		t.Fatalf("expected full payment, %d unpaid", unpaid)
	}
	if pool.Current != 0 || first != 0 || second != 2 {
		t.Errorf("expected pool 0, banks 0 and 2; got %d, %d, %d", pool.Current, first, second)
	}

	unpaid = pool.Spend(5, banks...)
	if unpaid != 3 {
		t.Errorf("expected 3 unpaid, got %d", unpaid)
	}
	if second != 0 {
		t.Errorf("expected bank drained, got %d", second)
	}
}

func TestPoolDrain(t *testing.T) {
	pool := NewPool(10)
	pool.IncreaseMax(4)
	pool.Refill()

	if got := pool.Drain(); got != 4 || pool.Current != 0 {
		t.Errorf("expected to drain 4, got %d (left %d)", got, pool.Current)
	}
}
