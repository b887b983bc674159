package household

// ResolveActive selects the active household from a fresh membership list.
// Precedence: a saved identifier that matches a membership wins; otherwise
// a previously active household still present in the list is re-selected
// from the fresh data (so role changes are picked up); otherwise the first
// membership; nil when the list is empty. savedID <= 0 means no saved
// selection.
func ResolveActive(memberships []Membership, savedID int64, previous *Membership) *Membership {
	if len(memberships) == 0 {
		return nil
	}

	if savedID > 0 {
		if m := findMembership(memberships, savedID); m != nil {
			return m
		}
	}

	if previous != nil {
		if m := findMembership(memberships, previous.HouseholdID); m != nil {
			return m
		}
	}

	m := memberships[0]
	return &m
}

// AddMembership appends m to the list unless a membership for the same
// household is already present. Used after join/create, where the new
// household immediately becomes active regardless of saved preference.
func AddMembership(list []Membership, m Membership) []Membership {
	if existing := findMembership(list, m.HouseholdID); existing != nil {
		return list
	}
	return append(list, m)
}

func findMembership(list []Membership, householdID int64) *Membership {
	for i := range list {
		if list[i].HouseholdID == householdID {
			return &list[i]
		}
	}
	return nil
}
