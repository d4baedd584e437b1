package guild

import "fmt"

// Snapshot is one observation of a guild's managed state: the configured
// categories in their configured order and every channel belonging to them.
// Snapshots are read fresh at the start of each run and never cached across
// runs.
type Snapshot struct {
	GuildID    string
	Categories []Category
	Channels   []Channel
}

// CategoryChannels returns the members of one category ordered by guild-wide
// position.
func (s *Snapshot) CategoryChannels(categoryID string) []Channel {
	var members []Channel
	for _, ch := range s.Channels {
		if ch.CategoryID == categoryID {
			members = append(members, ch)
		}
	}
	SortChannelsByPosition(members)
	return members
}

// SortedChannels returns all managed channels in name order, the input shape
// the partitioner expects.
func (s *Snapshot) SortedChannels() []Channel {
	sorted := make([]Channel, len(s.Channels))
	copy(sorted, s.Channels)
	SortChannelsByName(sorted)
	return sorted
}

// Validate checks the invariants reconciliation depends on: every channel
// references a configured category and no two channels share a position.
// Violations surface as DriftError.
func (s *Snapshot) Validate() error {
	configured := make(map[string]bool, len(s.Categories))
	for _, cat := range s.Categories {
		configured[cat.ID] = true
	}

	seen := make(map[int]string, len(s.Channels))
	for _, ch := range s.Channels {
		if !configured[ch.CategoryID] {
			return &DriftError{Detail: fmt.Sprintf("channel %s (%s) belongs to unmanaged category %s", ch.Name, ch.ID, ch.CategoryID)}
		}
		if other, ok := seen[ch.Position]; ok {
			return &DriftError{Detail: fmt.Sprintf("channels %s and %s share position %d", other, ch.Name, ch.Position)}
		}
		seen[ch.Position] = ch.Name
	}
	return nil
}
