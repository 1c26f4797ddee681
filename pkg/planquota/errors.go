package planquota

import "errors"

var (
	ErrInvalidTierTable = errors.New("invalid plan tier table")
	ErrEmptyTierName    = errors.New("plan tier name is required")
	ErrInvalidTierMax   = errors.New("plan tier max must be positive or -1")
	ErrInvalidBucket    = errors.New("plan tier price bucket is invalid")
	ErrOverlapBuckets   = errors.New("plan tier price buckets overlap")
)
