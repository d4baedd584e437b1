package reconcile

import (
	"fmt"
	"sort"

	"channelsorter/internal/guild"
)

// Move is a single planned mutation against the remote store: place one
// channel under a category at an absolute guild-wide position. Moves are
// meaningful only in the order they were computed, because each target
// position assumes the shifts caused by every earlier move.
type Move struct {
	ChannelID   string
	ChannelName string
	CategoryID  string
	Position    int
}

// Rename is a planned category display-name change, independent of moves.
type Rename struct {
	CategoryID string
	OldName    string
	NewName    string
}

// positionModel tracks every managed channel's category and guild-wide
// position in memory, kept in lockstep with each planned move so later
// decisions see the post-move state without re-reading the remote store.
type positionModel struct {
	position map[string]int
	category map[string]string
}

func newPositionModel(channels []guild.Channel) (*positionModel, error) {
	m := &positionModel{
		position: make(map[string]int, len(channels)),
		category: make(map[string]string, len(channels)),
	}
	occupied := make(map[int]string, len(channels))
	for _, ch := range channels {
		if other, ok := occupied[ch.Position]; ok {
			return nil, &guild.DriftError{Detail: fmt.Sprintf(
				"channels %s and %s share position %d", other, ch.ID, ch.Position)}
		}
		occupied[ch.Position] = ch.ID
		m.position[ch.ID] = ch.Position
		m.category[ch.ID] = ch.CategoryID
	}
	return m, nil
}

// members returns the channel IDs currently under a category, ordered by
// position as the model sees it now.
func (m *positionModel) members(categoryID string) []string {
	var ids []string
	for id, cat := range m.category {
		if cat == categoryID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.position[ids[i]] < m.position[ids[j]]
	})
	return ids
}

// apply records a move in the model. Every channel strictly between the old
// and new position shifts by one slot toward the gap the move leaves
// behind, mirroring what the remote store does to a "set absolute position"
// call.
func (m *positionModel) apply(mv Move) {
	old := m.position[mv.ChannelID]
	switch {
	case old > mv.Position:
		// Moving up: everything in [new, old) slides down one.
		for id, pos := range m.position {
			if id != mv.ChannelID && pos >= mv.Position && pos < old {
				m.position[id] = pos + 1
			}
		}
	case old < mv.Position:
		// Moving down: everything in (old, new] slides up one.
		for id, pos := range m.position {
			if id != mv.ChannelID && pos > old && pos <= mv.Position {
				m.position[id] = pos - 1
			}
		}
	}
	m.position[mv.ChannelID] = mv.Position
	m.category[mv.ChannelID] = mv.CategoryID
}
