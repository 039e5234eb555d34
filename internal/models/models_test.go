// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "testing"

func TestFirstName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two words", "Ayu Sari", "Ayu"},
		{"single word", "Andhika", "Andhika"},
		{"leading spaces", "   Rizky  Anwar", "Rizky"},
		{"tab separated", "Budi\tSantoso", "Budi"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstName(tt.in); got != tt.want {
				t.Errorf("FirstName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSampleStatusValid(t *testing.T) {
	for _, s := range SampleStatuses {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []SampleStatus{"", "shipped", "Lost"} {
		if s.Valid() {
			t.Errorf("%q should not be valid", s)
		}
	}
}

func TestSampleActive(t *testing.T) {
	if (Sample{Status: SampleReceived}).Active() {
		t.Error("received sample should not be active")
	}
	if !(Sample{Status: SampleShipped}).Active() {
		t.Error("shipped sample should be active")
	}
}

func TestAffiliateHasProduct(t *testing.T) {
	a := Affiliate{ProductIDs: []string{"prod-1", "prod-2"}}
	if !a.HasProduct("prod-2") {
		t.Error("expected prod-2 to be linked")
	}
	if a.HasProduct("prod-3") {
		t.Error("prod-3 should not be linked")
	}
}
