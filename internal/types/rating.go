package types

// Rating is the ordinal label of a merchant's sustainability record.
type Rating string

const (
	RatingGood   Rating = "Good"
	RatingDecent Rating = "Decent"
	RatingBad    Rating = "Bad"
)

// Ratings lists every rating from best to worst.
var Ratings = []Rating{RatingGood, RatingDecent, RatingBad}

// Valid reports whether r is one of the three labels.
func (r Rating) Valid() bool {
	switch r {
	case RatingGood, RatingDecent, RatingBad:
		return true
	}
	return false
}
