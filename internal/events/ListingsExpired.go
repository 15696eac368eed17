package events

const ListingsExpiredTopic = "listings:expired"

// ListingsExpired is published after the cleaner removes listings whose
// expiry date has passed.
type ListingsExpired struct {
	Removed int64
}
