package catalog

// FlyingAffinity says which main attack squad a category belongs to.
type FlyingAffinity int

const (
	GroundSquad FlyingAffinity = iota
	FlyingSquad                // always flying
	OptionalFlying             // flying only when the flying squad already exists
	NoSquad                    // workers and anything else the attack split skips
)

// Lookup tables keyed by Category. Populated once here; the catalog only
// decides which category a concrete type belongs to.
var (
	reconWeights = [categoryCount]int{
		LightMelee:   2,
		Infantry:     2,
		Support:      2,
		Ranged:       3,
		HeavyMelee:   4,
		Walker:       4,
		CloakedMelee: 4,
		Raider:       4,
		Siege:        6,
	}

	// threatWeights is the ground defender need per enemy of the category.
	threatWeights = func() [categoryCount]int {
		var t [categoryCount]int
		for i := range t {
			t[i] = 6
		}
		t[Worker] = 1
		t[LightMelee] = 2
		t[Infantry] = 3
		t[Ranged] = 3
		t[HeavyMelee] = 5
		return t
	}()

	// defenderValues is what one friendly defender of the category is worth
	// against ground need.
	defenderValues = func() [categoryCount]int {
		var t [categoryCount]int
		for i := range t {
			t[i] = 5
		}
		t[Worker] = 1
		t[HeavyMelee] = 4
		return t
	}()

	affinities = func() [categoryCount]FlyingAffinity {
		var t [categoryCount]FlyingAffinity
		t[Gunship] = FlyingSquad
		t[AirSupport] = OptionalFlying
		t[Worker] = NoSquad
		return t
	}()

	harmless = [categoryCount]bool{
		Overseer: true,
	}

	// slowDefenders are non-building enemies that anchor a base defense.
	slowDefenders = [categoryCount]bool{
		Siege:     true,
		Artillery: true,
	}
)

func valid(c Category) bool { return c >= 0 && c < categoryCount }

// ReconWeight is the cost of sending one agent of the category on
// reconnaissance. Zero means never send it.
func ReconWeight(c Category) int {
	if !valid(c) {
		return 0
	}
	return reconWeights[c]
}

// ThreatWeight is how many ground defender points one enemy of the category demands.
func ThreatWeight(c Category) int {
	if !valid(c) {
		return 6
	}
	return threatWeights[c]
}

// DefenderValue is how many ground defender points one friendly of the category supplies.
func DefenderValue(c Category) int {
	if !valid(c) {
		return 5
	}
	return defenderValues[c]
}

func Affinity(c Category) FlyingAffinity {
	if !valid(c) {
		return GroundSquad
	}
	return affinities[c]
}

// Harmless reports whether base defense should ignore enemies of the category.
func Harmless(c Category) bool {
	return valid(c) && harmless[c]
}

// SlowDefender reports whether a mobile category counts toward a base's
// static defense when scoring attack targets.
func SlowDefender(c Category) bool {
	return valid(c) && slowDefenders[c]
}
