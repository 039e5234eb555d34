// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tier

import "testing"

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		followers uint64
		want      Tier
	}{
		{0, New},
		{1, New},
		{1000, New},
		{1001, Micro},
		{10000, Micro},
		{10001, Mid},
		{100000, Mid},
		{100001, Macro},
		{1000000, Macro},
		{1000001, Mega},
		{50_000_000, Mega},
	}

	for _, tt := range tests {
		if got := Classify(tt.followers); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.followers, got, tt.want)
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	prev := Classify(0).Rank()
	for f := uint64(0); f <= 2_000_000; f += 499 {
		rank := Classify(f).Rank()
		if rank < prev {
			t.Fatalf("tier rank decreased at %d followers: %d < %d", f, rank, prev)
		}
		prev = rank
	}
}

func TestRank(t *testing.T) {
	if New.Rank() != 0 || Mega.Rank() != 4 {
		t.Errorf("unexpected ranks: New=%d Mega=%d", New.Rank(), Mega.Rank())
	}
	if Tier("Giga").Valid() {
		t.Error("unknown tier should not be valid")
	}
}
