package domain

// Aggregate defaults applied whenever upstream data is absent.
const (
	DefaultRating = 5.0
	MaxReviews    = 10
)

// Review is a single public Google review as shown on the site.
type Review struct {
	AuthorName              string  `json:"authorName"`
	AuthorPhoto             *string `json:"authorPhoto"`
	Rating                  int     `json:"rating"`
	Text                    string  `json:"text"`
	Time                    int64   `json:"time"`
	RelativeTimeDescription string  `json:"relativeTimeDescription"`
}

// AggregateRating is the payload of the reviews endpoint: overall rating,
// review count and at most MaxReviews reviews in upstream order. Message and
// Error explain a degraded answer and are omitted otherwise.
type AggregateRating struct {
	Rating       float64  `json:"rating"`
	TotalReviews int      `json:"totalReviews"`
	Reviews      []Review `json:"reviews"`
	Message      string   `json:"message,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// DefaultAggregate returns the view used when no live data is available.
// Reviews is an empty, non-nil slice so it encodes as [].
func DefaultAggregate() *AggregateRating {
	return &AggregateRating{
		Rating:       DefaultRating,
		TotalReviews: 0,
		Reviews:      []Review{},
	}
}

// PhotoURL returns nil for an empty URL so it encodes as null.
func PhotoURL(u string) *string {
	if u == "" {
		return nil
	}
	return &u
}

// Truncate keeps the first MaxReviews entries, preserving order.
func Truncate(reviews []Review) []Review {
	if len(reviews) > MaxReviews {
		return reviews[:MaxReviews]
	}
	return reviews
}
