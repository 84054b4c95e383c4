package domain

// Exchange is a single answered chat request, recorded for later review.
type Exchange struct {
	ID        string
	RequestID string
	Provider  string
	Message   string
	Response  string
	CreatedAt string
	TTL       int64
}
