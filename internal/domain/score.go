package domain

const (
	MinScore = 1
	MaxScore = 100

	// HighScoreThreshold is the minimum score that qualifies a lead for outreach.
	HighScoreThreshold = 80
	// MediumScoreThreshold is the lower bound of the medium bucket.
	MediumScoreThreshold = 50
)

// ScoreBucket classifies a lead score.
type ScoreBucket string

const (
	BucketHigh   ScoreBucket = "high"
	BucketMedium ScoreBucket = "medium"
	BucketLow    ScoreBucket = "low"
)

// BucketFor places a score in exactly one bucket.
func BucketFor(score int) ScoreBucket {
	switch {
	case score >= HighScoreThreshold:
		return BucketHigh
	case score >= MediumScoreThreshold:
		return BucketMedium
	default:
		return BucketLow
	}
}

// IsHighScore reports whether a possibly-unset score qualifies for outreach.
func IsHighScore(score *int) bool {
	return score != nil && *score >= HighScoreThreshold
}

// ValidScore reports whether score is within the persisted range.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// ClampScore forces score into [MinScore, MaxScore].
func ClampScore(score int) int {
	return max(MinScore, min(MaxScore, score))
}
