package carousel

import "math"

// MaxStars is the width of every star row.
const MaxStars = 5

// StarBreakdown splits a rating into full, half and empty stars.
type StarBreakdown struct {
	Full  int
	Half  bool
	Empty int
}

// Stars converts a 0..5 rating into a star row. A fractional part of at least
// one half shows a half star. Out of range ratings are clamped.
func Stars(rating float64) StarBreakdown {
	if math.IsNaN(rating) || rating < 0 {
		rating = 0
	}
	if rating > MaxStars {
		rating = MaxStars
	}

	full := int(math.Floor(rating))
	half := full < MaxStars && rating-float64(full) >= 0.5

	empty := MaxStars - full
	if half {
		empty--
	}
	return StarBreakdown{Full: full, Half: half, Empty: empty}
}

// FilledStars returns how many of the five stars a single review fills.
func FilledStars(rating int) int {
	switch {
	case rating < 0:
		return 0
	case rating > MaxStars:
		return MaxStars
	default:
		return rating
	}
}
