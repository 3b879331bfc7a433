package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestCatalogCommand_ListsProfiles(t *testing.T) {
	out := execute(t, "catalog")

	assert.Contains(t, out, "Worker1_1")
	assert.Contains(t, out, "move,work,carry")
	assert.Contains(t, out, "550")
}

func TestTiersCommand_SelectsTier(t *testing.T) {
	out := execute(t, "tiers", "--level", "2", "--capacity", "550")

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 3)
	// Richest tier first
	assert.Contains(t, lines[2], "Worker2_2 x1")
	assert.Contains(t, out, "uses Tier[level>=2, cost<=550")
	assert.Contains(t, out, "population cap 10")
}

func TestTiersCommand_NoTierForLevelZero(t *testing.T) {
	out := execute(t, "tiers", "--level", "0", "--capacity", "300")

	assert.Contains(t, out, "spawns nothing")
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgresql://colony:****@db:5432/colony",
		maskPassword("postgresql://colony:secret@db:5432/colony"))
	assert.Equal(t, "postgresql://db/colony", maskPassword("postgresql://db/colony"))
}

func TestFormatMetadata_SkipsTick(t *testing.T) {
	got := formatMetadata(map[string]interface{}{"tick": 3, "unit": "u1", "job": "harvest"})

	assert.Equal(t, " job=harvest unit=u1", got)
	assert.Empty(t, formatMetadata(nil))
}

func TestResolveScenario(t *testing.T) {
	assert.Equal(t, "b.yaml", resolveScenario("", "b.yaml", "c.yaml"))
	assert.Empty(t, resolveScenario("", ""))
}
