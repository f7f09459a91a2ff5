package chat

import "time"

// Bucket is a recency group in the conversation sidebar.
type Bucket string

const (
	BucketToday     Bucket = "Today"
	BucketYesterday Bucket = "Yesterday"
	BucketThisWeek  Bucket = "This week"
	BucketOlder     Bucket = "Older"
)

// Buckets in display order.
var Buckets = []Bucket{BucketToday, BucketYesterday, BucketThisWeek, BucketOlder}

// BucketFor assigns a timestamp to exactly one recency bucket relative to
// now. "This week" means within the last seven days but before yesterday.
func BucketFor(ts, now time.Time) Bucket {
	y, m, d := now.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch {
	case !ts.Before(startOfToday):
		return BucketToday
	case !ts.Before(startOfToday.AddDate(0, 0, -1)):
		return BucketYesterday
	case !ts.Before(startOfToday.AddDate(0, 0, -6)):
		return BucketThisWeek
	default:
		return BucketOlder
	}
}

// GroupByRecency splits conversations into recency buckets by their last
// activity, preserving the input order within each bucket.
func GroupByRecency(conversations []Conversation, now time.Time) map[Bucket][]Conversation {
	groups := make(map[Bucket][]Conversation)
	for _, c := range conversations {
		ts := c.UpdatedAt
		if ts.IsZero() {
			ts = c.CreatedAt
		}
		b := BucketFor(ts, now)
		groups[b] = append(groups[b], c)
	}
	return groups
}
