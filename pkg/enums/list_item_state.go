package enums

// ListItemState drives birth-list item visibility. Only pending items show
// in the list's product view; any non-zero state hides the row there.
// Stored as a plain integer.
type ListItemState int

const (
	ListItemStatePending  ListItemState = 0
	ListItemStateGranted  ListItemState = 1
	ListItemStateArchived ListItemState = 2
)

// IsPending reports whether the item belongs in the pending-products view.
func (s ListItemState) IsPending() bool {
	return s == ListItemStatePending
}
