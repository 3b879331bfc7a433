package catalog

import "fmt"

// BuildProfile identifies a fixed worker composition
type BuildProfile string

const (
	Worker1_1 BuildProfile = "Worker1_1"
	Worker2_1 BuildProfile = "Worker2_1"
	Worker2_2 BuildProfile = "Worker2_2"
)

var profiles = map[BuildProfile]Composition{
	Worker1_1: {PartMove: 1, PartWork: 1, PartCarry: 1},
	Worker2_1: {PartMove: 2, PartWork: 1, PartCarry: 2},
	Worker2_2: {PartMove: 3, PartWork: 2, PartCarry: 4},
}

// AllProfiles lists every profile in declaration order
var AllProfiles = []BuildProfile{Worker1_1, Worker2_1, Worker2_2}

// ParseBuildProfile converts a stored profile name into a BuildProfile
func ParseBuildProfile(s string) (BuildProfile, error) {
	b := BuildProfile(s)
	if _, ok := profiles[b]; !ok {
		return "", fmt.Errorf("unknown build profile: %s", s)
	}
	return b, nil
}

// Parts returns a copy of the profile's composition
func (b BuildProfile) Parts() Composition {
	src := profiles[b]
	c := make(Composition, len(src))
	for p, n := range src {
		c[p] = n
	}
	return c
}

// Cost is the energy needed to produce a unit of this profile
func (b BuildProfile) Cost() int {
	return profiles[b].Cost()
}

// IsValid reports whether the profile is in the catalog
func (b BuildProfile) IsValid() bool {
	_, ok := profiles[b]
	return ok
}

func (b BuildProfile) String() string {
	return string(b)
}
