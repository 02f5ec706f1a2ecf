package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/sustainability-evaluator/internal/types"
)

var ratingWord = regexp.MustCompile(`(?i)\b(good|decent|bad)\b`)

// ParseRating normalizes a classification reply to one of the three ratings.
// Decoration around the label is ignored, but the reply must name exactly one
// distinct label.
func ParseRating(text string) (types.Rating, error) {
	cleaned := strings.TrimSpace(Clean(text))
	if cleaned == "" {
		return "", &MalformedResponseError{Message: "rating reply is empty"}
	}

	var found types.Rating
	for _, m := range ratingWord.FindAllString(cleaned, -1) {
		r := toRating(m)
		if found != "" && found != r {
			return "", &MalformedResponseError{Message: "rating reply names more than one label", Snippet: snippet(text)}
		}
		found = r
	}
	if found == "" {
		return "", &MalformedResponseError{Message: "rating reply names no label", Snippet: snippet(text)}
	}
	return found, nil
}

func toRating(word string) types.Rating {
	switch strings.ToLower(word) {
	case "good":
		return types.RatingGood
	case "decent":
		return types.RatingDecent
	default:
		return types.RatingBad
	}
}
