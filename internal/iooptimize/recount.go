package iooptimize

import "gorm.io/gorm"

const listingsPerBucket = `(SELECT COUNT(*) FROM listings
  WHERE listings.bucket_id = buckets.id)`

// recountListings sets listing_count of every bucket to the number of
// listings attached to it. Only drifted buckets are updated.
func recountListings(gormDB *gorm.DB) (int64, error) {
	q := gormDB.Exec(
		"UPDATE buckets SET listing_count = " + listingsPerBucket +
			" WHERE listing_count <> " + listingsPerBucket,
	)
	if q.Error != nil {
		return 0, RecountError(q.Error)
	}
	return q.RowsAffected, nil
}
