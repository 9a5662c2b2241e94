package assignment

import "sort"

// SplitCurrent orders list by start date, newest first, and takes the head as
// current. Equal start dates keep the order the store returned them in.
func SplitCurrent(list []Assignment) Split {
	if len(list) == 0 {
		return Split{History: []Assignment{}}
	}

	sorted := make([]Assignment, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.After(sorted[j].StartDate)
	})

	current := sorted[0]
	return Split{Current: &current, History: sorted[1:]}
}

// PromotionCandidate returns the assignment to reactivate when deletedID is
// removed. There is one only when deletedID is the current assignment and it is
// active; the candidate is the completed assignment created last, the earlier
// one in list order winning a tie.
func PromotionCandidate(list []Assignment, deletedID string) (Assignment, bool) {
	split := SplitCurrent(list)
	if split.Current == nil || split.Current.ID != deletedID || !split.Current.IsActive() {
		return Assignment{}, false
	}

	var (
		candidate Assignment
		found     bool
	)
	for _, a := range list {
		if a.ID == deletedID || a.Status != StatusCompleted {
			continue
		}
		if !found || a.CreatedAt.After(candidate.CreatedAt) {
			candidate = a
			found = true
		}
	}
	return candidate, found
}
