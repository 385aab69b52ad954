package sizes

import "fmt"

// Tier is a size index.
type Tier int

const (
	// MinTier is the smallest valid tier (XS).
	MinTier Tier = 0
	// MaxTier is the largest valid tier (XXL).
	MaxTier Tier = 5
)

// Valid reports whether t lies in [MinTier, MaxTier].
func (t Tier) Valid() bool {
	return t >= MinTier && t <= MaxTier
}

// Tiers returns every valid tier in ascending order.
func Tiers() []Tier {
	tiers := make([]Tier, 0, int(MaxTier-MinTier)+1)
	for t := MinTier; t <= MaxTier; t++ {
		tiers = append(tiers, t)
	}
	return tiers
}

// OutOfRangeError is returned when a tier index is outside [MinTier, MaxTier].
type OutOfRangeError struct {
	Tier Tier
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("size tier %d out of range [%d, %d]", int(e.Tier), int(MinTier), int(MaxTier))
}

// Scale is the set of scalars derived from one tier.
type Scale struct {
	Tier Tier

	// Users is the number of simulated users in the test plan and the
	// minimum number of users enrolled in the target course.
	Users int

	// Loops is the number of JMeter loop iterations per user.
	Loops int

	// RampUp is the JMeter ramp-up period in seconds.
	RampUp int

	// CoursesPerCategory[c] is the number of courses of course size c
	// created when building a site of this tier.
	CoursesPerCategory []int
}

// TotalCourses returns the number of courses a site of this scale holds.
func (s Scale) TotalCourses() int {
	total := 0
	for _, n := range s.CoursesPerCategory {
		total += n
	}
	return total
}

// Table is an immutable set of per-tier scale tables.
type Table struct {
	users   [6]int
	loops   [6]int
	rampUps [6]int
	// siteCourses[category][tier]
	siteCourses [6][6]int
}

var defaultTable = &Table{
	users:   [6]int{1, 30, 100, 1000, 5000, 10000},
	loops:   [6]int{5, 5, 5, 6, 6, 7},
	rampUps: [6]int{1, 6, 40, 100, 500, 800},
	siteCourses: [6][6]int{
		{2, 8, 64, 256, 1024, 4096},
		{1, 4, 8, 16, 32, 64},
		{0, 0, 1, 4, 8, 16},
		{0, 0, 0, 1, 0, 0},
		{0, 0, 0, 0, 1, 0},
		{0, 0, 0, 0, 0, 1},
	},
}

// DefaultTable returns the canonical tier table.
func DefaultTable() *Table {
	return defaultTable
}

// Categories returns the course size categories in the order sites are built.
func (t *Table) Categories() []Tier {
	return Tiers()
}

// ScaleFor returns the scale parameters for tier.
func (t *Table) ScaleFor(tier Tier) (Scale, error) {
	if !tier.Valid() {
		return Scale{}, &OutOfRangeError{Tier: tier}
	}

	courses := make([]int, len(t.siteCourses))
	for category := range t.siteCourses {
		courses[category] = t.siteCourses[category][tier]
	}

	return Scale{
		Tier:               tier,
		Users:              t.users[tier],
		Loops:              t.loops[tier],
		RampUp:             t.rampUps[tier],
		CoursesPerCategory: courses,
	}, nil
}

// UsersFor is a shorthand for ScaleFor(tier).Users.
func (t *Table) UsersFor(tier Tier) (int, error) {
	scale, err := t.ScaleFor(tier)
	if err != nil {
		return 0, err
	}
	return scale.Users, nil
}

// TierForDisplayName maps a human readable size label back to its tier.
// The first tier whose label equals name wins.
func (t *Table) TierForDisplayName(labels Labels, name string) (Tier, bool) {
	for tier := MinTier; tier <= MaxTier; tier++ {
		if labels.ShortSize(tier) == name {
			return tier, true
		}
	}
	return 0, false
}
