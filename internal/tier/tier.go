// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tier maps an affiliate's follower count to its tier label.
package tier

// Tier is the classification bucket derived from a follower count.
type Tier string

const (
	New   Tier = "New"
	Micro Tier = "Micro"
	Mid   Tier = "Mid"
	Macro Tier = "Macro"
	Mega  Tier = "Mega"
)

// All lists every tier from lowest to highest rank.
var All = []Tier{New, Micro, Mid, Macro, Mega}

// Classify returns the tier for the given follower count. Thresholds are
// strict greater-than comparisons evaluated from the highest tier down.
func Classify(followers uint64) Tier {
	switch {
	case followers > 1_000_000:
		return Mega
	case followers > 100_000:
		return Macro
	case followers > 10_000:
		return Mid
	case followers > 1_000:
		return Micro
	default:
		return New
	}
}

// Rank returns the position of t in All, or -1 for an unknown label.
func (t Tier) Rank() int {
	for i, v := range All {
		if v == t {
			return i
		}
	}
	return -1
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return t.Rank() >= 0
}
