package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Fixed reference point: Friday 2026-08-21, 15:30 local.
var reference = time.Date(2026, 8, 21, 15, 30, 0, 0, time.UTC)

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want Bucket
	}{
		{name: "just now", ts: reference, want: BucketToday},
		{name: "midnight today", ts: time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC), want: BucketToday},
		{name: "late yesterday", ts: time.Date(2026, 8, 20, 23, 59, 59, 0, time.UTC), want: BucketYesterday},
		{name: "early yesterday", ts: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), want: BucketYesterday},
		{name: "two days ago", ts: time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC), want: BucketThisWeek},
		{name: "six days ago boundary", ts: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), want: BucketThisWeek},
		{name: "a week ago", ts: time.Date(2026, 8, 14, 23, 59, 59, 0, time.UTC), want: BucketOlder},
		{name: "last month", ts: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC), want: BucketOlder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, BucketFor(tt.ts, reference))
		})
	}
}

func TestBucketsAreExclusiveAndExhaustive(t *testing.T) {
	// Sweep a month of hourly timestamps: every one lands in exactly one
	// bucket.
	counts := make(map[Bucket]int)
	for ts := reference.AddDate(0, -1, 0); ts.Before(reference.Add(time.Hour)); ts = ts.Add(time.Hour) {
		b := BucketFor(ts, reference)
		require.Contains(t, Buckets, b)
		counts[b]++
	}
	for _, b := range Buckets {
		require.Greater(t, counts[b], 0, "bucket %s never used", b)
	}
}

func TestGroupByRecency(t *testing.T) {
	conversations := []Conversation{
		{ID: "a", UpdatedAt: reference.Add(-2 * time.Hour)},
		{ID: "b", UpdatedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)},
		{ID: "c", UpdatedAt: time.Date(2026, 8, 18, 10, 0, 0, 0, time.UTC)},
		{ID: "d", UpdatedAt: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "e", CreatedAt: reference.Add(-1 * time.Hour)}, // falls back to CreatedAt
	}

	groups := GroupByRecency(conversations, reference)

	ids := func(bucket Bucket) []string {
		var out []string
		for _, c := range groups[bucket] {
			out = append(out, c.ID)
		}
		return out
	}
	require.Equal(t, []string{"a", "e"}, ids(BucketToday))
	require.Equal(t, []string{"b"}, ids(BucketYesterday))
	require.Equal(t, []string{"c"}, ids(BucketThisWeek))
	require.Equal(t, []string{"d"}, ids(BucketOlder))

	total := 0
	for _, b := range Buckets {
		total += len(groups[b])
	}
	require.Equal(t, len(conversations), total)
}
