package reconcile

import (
	"testing"

	"channelsorter/internal/guild"
	"channelsorter/internal/partition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// applyToSimulation replays a move plan against a copy of the channels with
// the store's position-shift semantics, independently of the planner's own
// model.
func applyToSimulation(channels []guild.Channel, moves []Move) []guild.Channel {
	sim := make([]guild.Channel, len(channels))
	copy(sim, channels)

	for _, mv := range moves {
		var old int
		for i := range sim {
			if sim[i].ID == mv.ChannelID {
				old = sim[i].Position
			}
		}
		for i := range sim {
			if sim[i].ID == mv.ChannelID {
				continue
			}
			p := sim[i].Position
			if old > mv.Position && p >= mv.Position && p < old {
				sim[i].Position = p + 1
			} else if old < mv.Position && p > old && p <= mv.Position {
				sim[i].Position = p - 1
			}
		}
		for i := range sim {
			if sim[i].ID == mv.ChannelID {
				sim[i].Position = mv.Position
				sim[i].CategoryID = mv.CategoryID
			}
		}
	}
	return sim
}

func categoryOrder(channels []guild.Channel, categoryID string) []string {
	snap := guild.Snapshot{Channels: channels}
	var names []string
	for _, ch := range snap.CategoryChannels(categoryID) {
		names = append(names, ch.Name)
	}
	return names
}

func scrambledSnapshot() *guild.Snapshot {
	return &guild.Snapshot{
		GuildID: "g1",
		Categories: []guild.Category{
			{ID: "c1", Name: "Projects A-B"},
			{ID: "c2", Name: "Projects C-D"},
		},
		Channels: []guild.Channel{
			{ID: "ada", Name: "ada", CategoryID: "c2", Position: 3},
			{ID: "bash", Name: "bash", CategoryID: "c1", Position: 0},
			{ID: "cobol", Name: "cobol", CategoryID: "c1", Position: 2},
			{ID: "dart", Name: "dart", CategoryID: "c2", Position: 1},
		},
	}
}

func TestPlanMoves_SimulatedApplicationMatchesPlan(t *testing.T) {
	snap := scrambledSnapshot()
	part, err := partition.Balance(snap.Categories, snap.SortedChannels())
	require.NoError(t, err)

	moves, renames, err := PlanMoves(snap, part, "Projects")
	require.NoError(t, err)
	assert.Empty(t, renames, "category names already match their spans")

	final := applyToSimulation(snap.Channels, moves)
	assert.Equal(t, []string{"ada", "bash"}, categoryOrder(final, "c1"))
	assert.Equal(t, []string{"cobol", "dart"}, categoryOrder(final, "c2"))
}

func TestPlanMoves_MinimalForScrambledPair(t *testing.T) {
	snap := scrambledSnapshot()
	part, err := partition.Balance(snap.Categories, snap.SortedChannels())
	require.NoError(t, err)

	moves, _, err := PlanMoves(snap, part, "Projects")
	require.NoError(t, err)

	// Moving ada to the front and cobol across suffices; bash and dart
	// are pushed into place by the implicit shifts and must not be
	// moved explicitly.
	require.Len(t, moves, 2)
	assert.Equal(t, "ada", moves[0].ChannelID)
	assert.Equal(t, "c1", moves[0].CategoryID)
	assert.Equal(t, 0, moves[0].Position)
	assert.Equal(t, "cobol", moves[1].ChannelID)
	assert.Equal(t, "c2", moves[1].CategoryID)
	assert.Equal(t, 2, moves[1].Position)
}

func TestPlanMoves_Idempotence(t *testing.T) {
	snap := scrambledSnapshot()
	part, err := partition.Balance(snap.Categories, snap.SortedChannels())
	require.NoError(t, err)

	moves, _, err := PlanMoves(snap, part, "Projects")
	require.NoError(t, err)
	final := applyToSimulation(snap.Channels, moves)

	// Second run over the settled state plans nothing.
	settled := &guild.Snapshot{
		GuildID:    snap.GuildID,
		Categories: snap.Categories,
		Channels:   final,
	}
	part2, err := partition.Balance(settled.Categories, settled.SortedChannels())
	require.NoError(t, err)
	moves2, renames2, err := PlanMoves(settled, part2, "Projects")
	require.NoError(t, err)
	assert.Empty(t, moves2)
	assert.Empty(t, renames2)
}

func TestPlanMoves_RenamesToLetterSpan(t *testing.T) {
	snap := &guild.Snapshot{
		Categories: []guild.Category{
			{ID: "c1", Name: "Projects"},
			{ID: "c2", Name: "old name"},
		},
		Channels: []guild.Channel{
			{ID: "1", Name: "ada", CategoryID: "c1", Position: 0},
			{ID: "2", Name: "bash", CategoryID: "c1", Position: 1},
			{ID: "3", Name: "cobol", CategoryID: "c2", Position: 2},
			{ID: "4", Name: "dart", CategoryID: "c2", Position: 3},
		},
	}
	part, err := partition.Balance(snap.Categories, snap.SortedChannels())
	require.NoError(t, err)

	moves, renames, err := PlanMoves(snap, part, "Projects")
	require.NoError(t, err)
	assert.Empty(t, moves)

	require.Len(t, renames, 2)
	assert.Equal(t, "Projects A-B", renames[0].NewName)
	assert.Equal(t, "Projects", renames[0].OldName)
	assert.Equal(t, "Projects C-D", renames[1].NewName)
}

func TestPlanMoves_AppendsPastLastMember(t *testing.T) {
	// c1 holds only "ada"; the plan adds "bash" from c2. The category has
	// fewer occupied slots than the plan index, so bash goes one past the
	// last member.
	snap := &guild.Snapshot{
		Categories: []guild.Category{
			{ID: "c1", Name: "Projects A-B"},
			{ID: "c2", Name: "Projects C-C"},
		},
		Channels: []guild.Channel{
			{ID: "ada", Name: "ada", CategoryID: "c1", Position: 0},
			{ID: "cobol", Name: "cobol", CategoryID: "c2", Position: 1},
			{ID: "bash", Name: "bash", CategoryID: "c2", Position: 2},
		},
	}
	plan := &partition.Plan{Segments: []partition.Segment{
		{Category: snap.Categories[0], Channels: []guild.Channel{
			{ID: "ada", Name: "ada"}, {ID: "bash", Name: "bash"},
		}},
		{Category: snap.Categories[1], Channels: []guild.Channel{
			{ID: "cobol", Name: "cobol"},
		}},
	}}

	moves, _, err := PlanMoves(snap, plan, "Projects")
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "bash", moves[0].ChannelID)
	assert.Equal(t, "c1", moves[0].CategoryID)
	assert.Equal(t, 1, moves[0].Position, "one past ada")

	final := applyToSimulation(snap.Channels, moves)
	assert.Equal(t, []string{"ada", "bash"}, categoryOrder(final, "c1"))
	assert.Equal(t, []string{"cobol"}, categoryOrder(final, "c2"))
}

func TestPlanMoves_EmptyTargetCategoryKeepsPosition(t *testing.T) {
	snap := &guild.Snapshot{
		Categories: []guild.Category{
			{ID: "c1", Name: "Projects A-A"},
			{ID: "c2", Name: "Empty"},
		},
		Channels: []guild.Channel{
			{ID: "ada", Name: "ada", CategoryID: "c1", Position: 0},
			{ID: "apl", Name: "apl", CategoryID: "c1", Position: 1},
		},
	}
	plan := &partition.Plan{Segments: []partition.Segment{
		{Category: snap.Categories[0], Channels: []guild.Channel{{ID: "ada", Name: "ada"}}},
		{Category: snap.Categories[1], Channels: []guild.Channel{{ID: "apl", Name: "apl"}}},
	}}

	moves, _, err := PlanMoves(snap, plan, "Projects")
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "apl", moves[0].ChannelID)
	assert.Equal(t, "c2", moves[0].CategoryID)
	assert.Equal(t, 1, moves[0].Position, "no anchor in an empty category, position kept")
}

func TestNewPositionModel_DuplicatePositions(t *testing.T) {
	_, _, err := PlanMoves(&guild.Snapshot{
		Categories: []guild.Category{{ID: "c1", Name: "Projects A-B"}},
		Channels: []guild.Channel{
			{ID: "1", Name: "ada", CategoryID: "c1", Position: 2},
			{ID: "2", Name: "bash", CategoryID: "c1", Position: 2},
		},
	}, &partition.Plan{}, "Projects")
	require.Error(t, err)
	assert.True(t, guild.IsDriftError(err))
}

func TestPositionModel_ShiftBookkeeping(t *testing.T) {
	model, err := newPositionModel([]guild.Channel{
		{ID: "a", CategoryID: "c1", Position: 0},
		{ID: "b", CategoryID: "c1", Position: 1},
		{ID: "c", CategoryID: "c1", Position: 2},
		{ID: "d", CategoryID: "c1", Position: 3},
	})
	require.NoError(t, err)

	// d moves up to slot 1: b and c slide down.
	model.apply(Move{ChannelID: "d", CategoryID: "c1", Position: 1})
	assert.Equal(t, 0, model.position["a"])
	assert.Equal(t, 1, model.position["d"])
	assert.Equal(t, 2, model.position["b"])
	assert.Equal(t, 3, model.position["c"])

	// a moves down to slot 3: everything else slides up.
	model.apply(Move{ChannelID: "a", CategoryID: "c1", Position: 3})
	assert.Equal(t, 0, model.position["d"])
	assert.Equal(t, 1, model.position["b"])
	assert.Equal(t, 2, model.position["c"])
	assert.Equal(t, 3, model.position["a"])
}
