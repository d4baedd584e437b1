package reconcile

import (
	"channelsorter/internal/guild"
)

// Reposition computes the sorted slot for a single channel among its peers
// without recomputing the full partition. Used when one channel is created,
// renamed, or unarchived and everything else is already in order.
//
// Peers are every other managed channel, scanned in name order. The channel
// lands at the position of the first peer sorting strictly after it, under
// the category of the last peer sorting at or before it (or of that first
// peer, when the channel sorts before everything). A channel sorting after
// all peers goes one past the last peer, in the last peer's category.
func Reposition(ch guild.Channel, peers []guild.Channel) (guild.Slot, error) {
	sorted := make([]guild.Channel, 0, len(peers))
	for _, p := range peers {
		if p.ID != ch.ID {
			sorted = append(sorted, p)
		}
	}
	if len(sorted) == 0 {
		return guild.Slot{}, &guild.ConfigError{Reason: "no peer channels to position against"}
	}
	guild.SortChannelsByName(sorted)

	var categoryID string
	position := 0
	placed := false
	for _, p := range sorted {
		position = p.Position
		if p.Name > ch.Name {
			if categoryID == "" {
				categoryID = p.CategoryID
			}
			placed = true
			break
		}
		categoryID = p.CategoryID
	}
	if !placed {
		// Sorts after every peer.
		position++
	}
	return guild.Slot{CategoryID: categoryID, Position: position}, nil
}
