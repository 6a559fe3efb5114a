package domain

// GuideID identifies a removal guide in the catalog.
type GuideID string

// Guide is catalog reference data: how to remove yourself from one site.
type Guide struct {
	ID       GuideID  `json:"id"`
	SiteName string   `json:"site_name"`
	Steps    []string `json:"steps"`
}

// GuideSet is the set of guides a customer has completed.
type GuideSet = Set[GuideID]

// GuideStatus is a catalog guide together with the customer's completion flag.
type GuideStatus struct {
	Guide
	Completed bool `json:"completed"`
}

// CountCompleted returns how many catalog guides are in completed. Ids that
// are no longer in the catalog do not count.
func CountCompleted(catalog []Guide, completed GuideSet) int {
	n := 0
	seen := make(map[GuideID]struct{}, len(catalog))
	for _, g := range catalog {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		if completed.Has(g.ID) {
			n++
		}
	}
	return n
}

// UniqueGuideCount returns the number of distinct ids in the catalog.
func UniqueGuideCount(catalog []Guide) int {
	seen := make(map[GuideID]struct{}, len(catalog))
	for _, g := range catalog {
		seen[g.ID] = struct{}{}
	}
	return len(seen)
}

// GuideStatuses annotates each catalog guide with its completion flag,
// keeping catalog order.
func GuideStatuses(catalog []Guide, completed GuideSet) []GuideStatus {
	out := make([]GuideStatus, 0, len(catalog))
	for _, g := range catalog {
		out = append(out, GuideStatus{Guide: g, Completed: completed.Has(g.ID)})
	}
	return out
}

// GuideToggle is the outcome of flipping one guide's completion.
type GuideToggle struct {
	GuideID         GuideID  `json:"guide_id"`
	Completed       bool     `json:"completed"`
	CompletedGuides GuideSet `json:"-"`
}
