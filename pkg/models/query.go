package models

// OrderFilter selects orders. Zero-valued fields do not constrain the match.
type OrderFilter struct {
	ID                    string
	CustomerID            string
	VendorID              string
	CancellationRequested *bool
	Decision              *CancellationDecision
	Statuses              []Status
	Version               *int64
}

func (f OrderFilter) Match(o *Order) bool {
	if f.ID != "" && o.ID != f.ID {
		return false
	}
	if f.CustomerID != "" && o.CustomerID != f.CustomerID {
		return false
	}
	if f.VendorID != "" {
		found := false
		for _, it := range o.Items {
			if it.VendorID == f.VendorID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.CancellationRequested != nil && o.IsCancellationRequested != *f.CancellationRequested {
		return false
	}
	if f.Decision != nil && o.CancellationDecision != *f.Decision {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if o.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Version != nil && o.Version != *f.Version {
		return false
	}
	return true
}

// FindOptions controls ordering and size of a find.
type FindOptions struct {
	SortByCodeDesc bool
	Limit          int64
}

// OrderUpdate is a partial update. Nil fields are left untouched.
type OrderUpdate struct {
	Status                *Status
	CancellationRequested *bool
	Decision              *CancellationDecision
	Note                  *string
}

// Apply mutates o in place and bumps its version.
func (u OrderUpdate) Apply(o *Order) {
	if u.Status != nil {
		o.Status = *u.Status
	}
	if u.CancellationRequested != nil {
		o.IsCancellationRequested = *u.CancellationRequested
	}
	if u.Decision != nil {
		o.CancellationDecision = *u.Decision
	}
	if u.Note != nil {
		o.CancellationNote = *u.Note
	}
	o.Version++
}
