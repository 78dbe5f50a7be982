package domain

import (
	"cloud.google.com/go/civil"
)

// BucketByDay groups records into n consecutive one-day buckets ending on
// reference. Bucket 0 holds records dated reference-(n-1) and bucket n-1 holds
// records dated reference. Records outside the window are dropped. Every
// bucket is present in the result, empty or not, and records keep their
// input order within a bucket.
func BucketByDay[T any](records []T, dateOf func(T) civil.Date, reference civil.Date, n int) [][]T {
	if n <= 0 {
		return [][]T{}
	}

	buckets := make([][]T, n)
	for i := range buckets {
		buckets[i] = []T{}
	}

	for _, rec := range records {
		offset := reference.DaysSince(dateOf(rec))
		if offset < 0 || offset >= n {
			continue
		}
		idx := n - 1 - offset
		buckets[idx] = append(buckets[idx], rec)
	}

	return buckets
}

// WindowStart returns the earliest date covered by an n-day window ending on
// reference.
func WindowStart(reference civil.Date, n int) civil.Date {
	if n <= 0 {
		return reference
	}
	return reference.AddDays(-(n - 1))
}

// BucketSizes returns the number of records in each bucket.
func BucketSizes[T any](buckets [][]T) []int {
	sizes := make([]int, len(buckets))
	for i, b := range buckets {
		sizes[i] = len(b)
	}
	return sizes
}
