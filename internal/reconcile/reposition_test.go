package reconcile

import (
	"testing"

	"channelsorter/internal/guild"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReposition_MangoScenario(t *testing.T) {
	peers := []guild.Channel{
		{ID: "1", Name: "Apple", CategoryID: "cat1", Position: 0},
		{ID: "2", Name: "Banana", CategoryID: "cat1", Position: 1},
		{ID: "3", Name: "Peach", CategoryID: "cat1", Position: 2},
		{ID: "4", Name: "Zebra", CategoryID: "cat1", Position: 3},
	}

	slot, err := Reposition(guild.Channel{ID: "5", Name: "Mango"}, peers)
	require.NoError(t, err)
	assert.Equal(t, "cat1", slot.CategoryID)
	assert.Equal(t, 2, slot.Position, "Mango takes Peach's slot")
}

func TestReposition_CrossCategoryFollowsLastPeerAtOrBefore(t *testing.T) {
	// Mango sorts after Banana (cat1) and before Peach (cat2); the last
	// peer at or before it decides the category.
	peers := []guild.Channel{
		{ID: "1", Name: "Apple", CategoryID: "cat1", Position: 0},
		{ID: "2", Name: "Banana", CategoryID: "cat1", Position: 1},
		{ID: "3", Name: "Peach", CategoryID: "cat2", Position: 2},
		{ID: "4", Name: "Zebra", CategoryID: "cat2", Position: 3},
	}

	slot, err := Reposition(guild.Channel{ID: "5", Name: "Mango"}, peers)
	require.NoError(t, err)
	assert.Equal(t, "cat1", slot.CategoryID)
	assert.Equal(t, 2, slot.Position)
}

func TestReposition_SortsFirst(t *testing.T) {
	// No peer sorts at or before the channel; the first following peer
	// provides both category and position.
	peers := []guild.Channel{
		{ID: "1", Name: "Banana", CategoryID: "cat1", Position: 4},
		{ID: "2", Name: "Cherry", CategoryID: "cat1", Position: 5},
	}

	slot, err := Reposition(guild.Channel{ID: "5", Name: "Apple"}, peers)
	require.NoError(t, err)
	assert.Equal(t, "cat1", slot.CategoryID)
	assert.Equal(t, 4, slot.Position)
}

func TestReposition_SortsLast(t *testing.T) {
	peers := []guild.Channel{
		{ID: "1", Name: "Apple", CategoryID: "cat1", Position: 0},
		{ID: "2", Name: "Banana", CategoryID: "cat2", Position: 7},
	}

	slot, err := Reposition(guild.Channel{ID: "5", Name: "Zig"}, peers)
	require.NoError(t, err)
	assert.Equal(t, "cat2", slot.CategoryID)
	assert.Equal(t, 8, slot.Position, "one past the last peer")
}

func TestReposition_ExcludesSelf(t *testing.T) {
	peers := []guild.Channel{
		{ID: "1", Name: "Apple", CategoryID: "cat1", Position: 0},
		{ID: "5", Name: "Mango", CategoryID: "cat1", Position: 1}, // the channel itself
		{ID: "3", Name: "Peach", CategoryID: "cat1", Position: 2},
	}

	slot, err := Reposition(guild.Channel{ID: "5", Name: "Mango"}, peers)
	require.NoError(t, err)
	assert.Equal(t, 2, slot.Position)
}

func TestReposition_NoPeers(t *testing.T) {
	_, err := Reposition(guild.Channel{ID: "5", Name: "Mango"}, nil)
	require.Error(t, err)
	assert.True(t, guild.IsConfigError(err))

	// A peer list containing only the channel itself is equally empty.
	_, err = Reposition(guild.Channel{ID: "5", Name: "Mango"},
		[]guild.Channel{{ID: "5", Name: "Mango", Position: 0}})
	require.Error(t, err)
	assert.True(t, guild.IsConfigError(err))
}

func TestReposition_EqualNamesPlaceAfter(t *testing.T) {
	// A peer with the identical name is "at or before", so the channel
	// lands after it.
	peers := []guild.Channel{
		{ID: "1", Name: "Mango", CategoryID: "cat1", Position: 3},
		{ID: "2", Name: "Peach", CategoryID: "cat1", Position: 4},
	}

	slot, err := Reposition(guild.Channel{ID: "5", Name: "Mango"}, peers)
	require.NoError(t, err)
	assert.Equal(t, "cat1", slot.CategoryID)
	assert.Equal(t, 4, slot.Position, "takes the slot of the first strictly-later peer")
}
