package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProfiles_CostsAndCapacity(t *testing.T) {
	tests := []struct {
		build    BuildProfile
		cost     int
		size     int
		capacity int
	}{
		{Worker1_1, 200, 3, 50},
		{Worker2_1, 300, 5, 100},
		{Worker2_2, 550, 9, 200},
	}

	for _, tt := range tests {
		t.Run(string(tt.build), func(t *testing.T) {
			parts := tt.build.Parts()
			assert.Equal(t, tt.cost, tt.build.Cost())
			assert.Equal(t, tt.size, parts.Size())
			assert.Equal(t, tt.capacity, parts.CarryCapacity())
		})
	}
}

func TestParts_ReturnsCopy(t *testing.T) {
	parts := Worker1_1.Parts()
	parts[PartWork] = 10

	assert.Equal(t, 1, Worker1_1.Parts().Count(PartWork))
	assert.Equal(t, 200, Worker1_1.Cost())
}

func TestComposition_BodyIsOrdered(t *testing.T) {
	body := Worker2_1.Parts().Body()

	assert.Equal(t, []PartKind{PartMove, PartMove, PartWork, PartCarry, PartCarry}, body)
	assert.Equal(t, Worker2_1.Parts(), NewComposition(body...))
}

func TestComposition_Fulfils(t *testing.T) {
	req := PartRequirement{PartMove: 1, PartWork: 1, PartCarry: 1}

	assert.True(t, Worker1_1.Parts().Fulfils(req))
	assert.True(t, Worker2_2.Parts().Fulfils(req))
	assert.False(t, NewComposition(PartMove, PartCarry).Fulfils(req), "absent kind fails")
	assert.False(t, NewComposition(PartMove, PartWork, PartCarry).Fulfils(PartRequirement{PartWork: 2}))
	assert.True(t, NewComposition().Fulfils(PartRequirement{}))
}

func TestPartCosts(t *testing.T) {
	costs := map[PartKind]int{
		PartMove: 50, PartWork: 100, PartCarry: 50, PartAttack: 80,
		PartRangedAttack: 150, PartHeal: 250, PartClaim: 600, PartTough: 10,
	}
	for p, c := range costs {
		assert.Equal(t, c, p.Cost(), p)
	}
}

func TestParseBuildProfile(t *testing.T) {
	b, err := ParseBuildProfile("Worker2_2")
	require.NoError(t, err)
	assert.Equal(t, Worker2_2, b)

	_, err = ParseBuildProfile("Soldier")
	assert.Error(t, err)
}

func TestParsePartKind(t *testing.T) {
	p, err := ParsePartKind("carry")
	require.NoError(t, err)
	assert.Equal(t, PartCarry, p)

	_, err = ParsePartKind("wing")
	assert.Error(t, err)
}
