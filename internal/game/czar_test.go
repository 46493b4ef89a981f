package game

import (
	"testing"

	"github.com/jason-s-yu/blanks/internal/models"
	"github.com/stretchr/testify/assert"
)

func pid(id models.PlayerID) *models.PlayerID { return &id }

func TestNextCzar(t *testing.T) {
	ids := []models.PlayerID{5, 1, 3}
	cases := []struct {
		name string
		prev *models.PlayerID
		want models.PlayerID
	}{
		{"first round takes smallest", nil, 1},
		{"exact successor missing, next above", pid(1), 3},
		{"skips gap", pid(3), 5},
		{"wraps after largest", pid(5), 1},
		{"previous czar gone", pid(2), 3},
		{"previous above everyone", pid(9), 1},
		{"exact successor present", pid(0), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nextCzar(ids, tc.prev))
		})
	}
}

func TestNextCzarSinglePlayer(t *testing.T) {
	ids := []models.PlayerID{7}
	assert.Equal(t, models.PlayerID(7), nextCzar(ids, nil))
	assert.Equal(t, models.PlayerID(7), nextCzar(ids, pid(7)))
}

func TestNextCzarDoesNotReorderInput(t *testing.T) {
	ids := []models.PlayerID{5, 1, 3}
	nextCzar(ids, pid(1))
	assert.Equal(t, []models.PlayerID{5, 1, 3}, ids)
}
