package fare

import (
	"fmt"
	"sort"
	"time"
)

// MonthBucket groups the offers departing in one calendar month.
type MonthBucket struct {
	Year   int
	Month  time.Month
	Offers []Offer
}

// Label returns the bucket heading used in reports, e.g. "March 2026".
func (b MonthBucket) Label() string {
	return fmt.Sprintf("%s %d", b.Month, b.Year)
}

// Key returns the sortable "yyyy-mm" form of the bucket month.
func (b MonthBucket) Key() string {
	return fmt.Sprintf("%04d-%02d", b.Year, int(b.Month))
}

// GroupByMonth partitions offers by the calendar month of their departure
// date. Buckets are returned in chronological order; within each bucket
// offers follow the same total order as [Rank]. Months with no offers are
// simply absent.
func GroupByMonth(offers []Offer) []MonthBucket {
	byMonth := make(map[string]*MonthBucket)
	for _, o := range offers {
		b := MonthBucket{Year: o.DepartDate.Year(), Month: o.DepartDate.Month()}
		k := b.Key()
		if _, ok := byMonth[k]; !ok {
			byMonth[k] = &MonthBucket{Year: b.Year, Month: b.Month}
		}
		byMonth[k].Offers = append(byMonth[k].Offers, o)
	}

	buckets := make([]MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		sort.Slice(b.Offers, func(i, j int) bool {
			return rankLess(b.Offers[i], b.Offers[j])
		})
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key() < buckets[j].Key()
	})
	return buckets
}
