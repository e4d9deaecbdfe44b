package game

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/blondy007/Impostor/internal/models"
)

// AssignRoles builds the player list for a new game: exactly impostorCount
// impostors placed by rejection sampling over the supplied names, then a
// random rotation of the whole list that fixes reveal and clue order for
// the rest of the game. The rotation preserves the relative order of the
// input names, so the result is always a cyclic shift of them.
//
// impostorCount must already be clamped to [1, len(names)-2].
func AssignRoles(names []string, impostorCount int, rng *rand.Rand) []*models.Player {
	n := len(names)

	roles := make([]models.Role, n)
	for i := range roles {
		roles[i] = models.RoleCivilian
	}
	// Rejection sampling: n is small, so this terminates within a handful
	// of draws in practice.
	assigned := 0
	for assigned < impostorCount {
		idx := rng.Intn(n)
		if roles[idx] == models.RoleCivilian {
			roles[idx] = models.RoleImpostor
			assigned++
		}
	}

	players := make([]*models.Player, n)
	for i, name := range names {
		players[i] = &models.Player{
			ID:   uuid.New(),
			Name: name,
			Role: roles[i],
		}
	}

	// Random table order: rotate so a uniformly chosen seat goes first.
	// Re-randomized every game, never per round.
	k := rng.Intn(n)
	rotated := make([]*models.Player, 0, n)
	rotated = append(rotated, players[k:]...)
	rotated = append(rotated, players[:k]...)
	return rotated
}
