package strategy

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
)

// Persona names a heuristic opponent. Preference lists the positions it
// favours when no rule of the cascade applies; an empty list means any
// free position.
type Persona struct {
	Name       string `json:"name"`
	Preference []int  `json:"preference,omitempty"`
}

// Personas are the built-in opponents. They differ only by name, so the
// fallback stays uniform over the free positions.
var Personas = []Persona{
	{Name: "WALL-E"},
	{Name: "AG3"},
	{Name: "Bender"},
	{Name: "Optimus Prime"},
	{Name: "Vicky"},
}

func PersonaByName(name string) (Persona, error) {
	for _, persona := range Personas {
		if strings.EqualFold(persona.Name, name) {
			return persona, nil
		}
	}

	return Persona{}, fmt.Errorf("%w: persona %q", apperror.ErrNotFound, name)
}

// RandomPersona picks a built-in persona whose name is not in taken. When
// every name is taken it picks among all of them.
func RandomPersona(rng *rand.Rand, taken ...string) Persona {
	free := make([]Persona, 0, len(Personas))
	for _, persona := range Personas {
		if !nameTaken(persona.Name, taken) {
			free = append(free, persona)
		}
	}

	if len(free) == 0 {
		free = Personas
	}

	return free[rng.Intn(len(free))]
}

func nameTaken(name string, taken []string) bool {
	for _, candidate := range taken {
		if strings.EqualFold(candidate, name) {
			return true
		}
	}

	return false
}

// ValidFor checks that every preferred position exists on a size x size board.
func (that Persona) ValidFor(size int) error {
	for _, position := range that.Preference {
		if position < 1 || position > size*size {
			return fmt.Errorf("%w: persona %q prefers position %d on a %dx%d board",
				apperror.ErrInvalidConfig, that.Name, position, size, size)
		}
	}

	return nil
}
