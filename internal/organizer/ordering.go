package organizer

import (
	"sort"
	"time"
)

// ReorderPlan is the outcome of planning a reorder: the target order and the
// minimal move instructions that produce it.
type ReorderPlan struct {
	// Moved equals len(Instructions).
	Moved int

	// Instructions are listed in ascending target-position order. Applying
	// them sequentially against the external store, each one committed before
	// the next is issued, yields exactly Target.
	Instructions []MoveInstruction

	// Target is the full computed ordering: timestamped records newest first,
	// followed by untimestamped records in their original relative order.
	Target []FolderRecord
}

// ComputeReorder partitions records into timestamped and untimestamped (by
// title), sorts the timestamped partition descending by extracted timestamp,
// and emits a move instruction for every record whose target position differs
// from its current one. Records already in place emit nothing, which keeps
// mutation calls against the external store minimal.
//
// Both the partition and the sort are stable: records with equal timestamps,
// and all untimestamped records, keep their original relative order. That is
// a correctness requirement, not an optimization.
func ComputeReorder(records []FolderRecord) (*ReorderPlan, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	type stamped struct {
		rec FolderRecord
		ts  time.Time
	}

	var timestamped []stamped
	var rest []FolderRecord
	for _, r := range records {
		if ts, ok := ExtractTimestamp(r.Title); ok {
			timestamped = append(timestamped, stamped{rec: r, ts: ts})
		} else {
			rest = append(rest, r)
		}
	}

	if len(timestamped) == 0 {
		return nil, ErrNoTimestampedRecords
	}

	sort.SliceStable(timestamped, func(i, j int) bool {
		return timestamped[i].ts.After(timestamped[j].ts)
	})

	target := make([]FolderRecord, 0, len(records))
	for _, s := range timestamped {
		target = append(target, s.rec)
	}
	target = append(target, rest...)

	var instructions []MoveInstruction
	for pos, rec := range target {
		if rec.Position == pos {
			continue
		}
		instructions = append(instructions, MoveInstruction{
			RecordID: rec.ID,
			ParentID: rec.ParentID,
			Position: pos,
		})
	}

	return &ReorderPlan{
		Moved:        len(instructions),
		Instructions: instructions,
		Target:       target,
	}, nil
}
