package carousel

import "github.com/pnll1991/expedicion-andina/internal/domain"

// fallbackReviews are shown whenever no real reviews are available. time is
// stamped with the moment they are produced, in Unix seconds.
func fallbackReviews(now int64) []domain.Review {
	return []domain.Review{
		{
			AuthorName:              "María González",
			Rating:                  5,
			Text:                    "Una experiencia increíble! Los guías son muy profesionales y conocen perfectamente la zona. La excursión superó todas mis expectativas.",
			Time:                    now,
			RelativeTimeDescription: "hace 2 semanas",
		},
		{
			AuthorName:              "Carlos Rodríguez",
			Rating:                  5,
			Text:                    "Excelente organización y atención. El paisaje es espectacular y la logística fue impecable. Sin duda volveré.",
			Time:                    now,
			RelativeTimeDescription: "hace 1 mes",
		},
		{
			AuthorName:              "Ana Martínez",
			Rating:                  5,
			Text:                    "Los mejores guías de la región. Muy seguros, conocedores y divertidos. La aventura fue perfecta desde el inicio hasta el final.",
			Time:                    now,
			RelativeTimeDescription: "hace 3 semanas",
		},
	}
}
