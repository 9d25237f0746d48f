package resolve

import "github.com/agext/levenshtein"

var levParams = levenshtein.NewParams()

// Similarity returns a length-normalized edit-distance similarity in [0,1]
// between two names after normalization. Identical normalized names score
// 1.0; entirely dissimilar names approach 0.
func Similarity(a, b string) float64 {
	na := NormalizeName(a)
	nb := NormalizeName(b)

	if na == "" || nb == "" {
		if na == nb {
			return 1.0
		}
		return 0
	}
	if na == nb {
		return 1.0
	}

	return levenshtein.Similarity(na, nb, levParams)
}
