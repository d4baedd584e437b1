package reconcile

import (
	"channelsorter/internal/guild"
	"channelsorter/internal/partition"
)

// PlanMoves computes the minimal ordered mutation sequence that brings the
// observed snapshot to the layout the partition plan describes, plus the
// category renames needed to reflect each segment's letter span.
//
// Categories are processed in configured order. For each planned slot the
// current occupant is read from the live position model, so a channel that
// earlier moves already pushed into its correct slot costs nothing. Every
// recorded move is applied to the model before the next slot is examined.
func PlanMoves(snap *guild.Snapshot, plan *partition.Plan, prefix string) ([]Move, []Rename, error) {
	model, err := newPositionModel(snap.Channels)
	if err != nil {
		return nil, nil, err
	}

	var moves []Move
	var renames []Rename

	for _, seg := range plan.Segments {
		// Empty segments keep their current name: there is no letter
		// span to reflect and nothing to place.
		if len(seg.Channels) == 0 {
			continue
		}
		if want := seg.SpanName(prefix); seg.Category.Name != want {
			renames = append(renames, Rename{
				CategoryID: seg.Category.ID,
				OldName:    seg.Category.Name,
				NewName:    want,
			})
		}

		for i, planned := range seg.Channels {
			members := model.members(seg.Category.ID)

			var newPos int
			var needsMove bool
			switch {
			case len(members) > i:
				occupant := members[i]
				newPos = model.position[occupant]
				needsMove = occupant != planned.ID
			case len(members) > 0:
				// Category runs out of occupied slots: append one
				// past its last current member.
				last := members[len(members)-1]
				newPos = model.position[last] + 1
				needsMove = last != planned.ID
			default:
				// Currently empty category. The remote store gives
				// no anchor position, so keep the channel's own
				// position and only change its parent.
				newPos = model.position[planned.ID]
				needsMove = true
			}

			if model.category[planned.ID] != seg.Category.ID || needsMove {
				mv := Move{
					ChannelID:   planned.ID,
					ChannelName: planned.Name,
					CategoryID:  seg.Category.ID,
					Position:    newPos,
				}
				model.apply(mv)
				moves = append(moves, mv)
			}
		}
	}
	return moves, renames, nil
}
