// internal/game/czar.go
package game

import (
	"slices"

	"github.com/jason-s-yu/blanks/internal/models"
)

// nextCzar picks the czar for the next round. With no previous czar the smallest id
// wins. Otherwise the candidate is prev+1: an exact match is taken, else the smallest
// id above the candidate, else the rotation wraps to the smallest id. ids must not be
// empty.
func nextCzar(ids []models.PlayerID, prev *models.PlayerID) models.PlayerID {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	if prev == nil {
		return sorted[0]
	}
	candidate := *prev + 1
	idx, _ := slices.BinarySearch(sorted, candidate)
	if idx == len(sorted) {
		return sorted[0]
	}
	return sorted[idx]
}
