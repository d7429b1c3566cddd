// Package pairing draws gift exchange matches.
//
// A draw shuffles the participants uniformly (Fisher–Yates), then pairs each
// shuffled participant with the next one, wrapping around at the end. A
// one-step rotation of distinct slots has no fixed points, so nobody ever
// draws themselves and no retry loop is needed. The resulting pairs are
// shuffled once more so display order says nothing about the cycle.
//
// Generators keep no state between draws apart from their random source:
// drawing again over the same participants is always allowed.
package pairing

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/giftswap/internal/client/models"
	"github.com/dmitrijs2005/giftswap/internal/common"
)

// Generator draws matches from a pluggable random source.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator reading randomness from src. Tests pass a
// seeded source (e.g. rand.NewPCG) to get reproducible draws.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewDefault returns a Generator backed by the runtime's randomly seeded source.
func NewDefault() *Generator {
	return &Generator{}
}

// Generate returns one pair per participant. Fewer than two participants
// yield an empty, non-nil slice.
func (g *Generator) Generate(participants []models.Participant) []models.Pair {
	if len(participants) < common.MinParticipants {
		return []models.Pair{}
	}

	shuffled := slices.Clone(participants)
	g.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	rotated := append(slices.Clone(shuffled[1:]), shuffled[0])

	pairs := make([]models.Pair, len(shuffled))
	for i := range shuffled {
		pairs[i] = models.Pair{Giver: shuffled[i], Recipient: rotated[i]}
	}

	g.shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})
	return pairs
}

func (g *Generator) shuffle(n int, swap func(i, j int)) {
	if g.rng == nil {
		rand.Shuffle(n, swap)
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng.Shuffle(n, swap)
}

// GeneratePairs draws over plain names and returns (giver, recipient) tuples.
// Slots are positional, so repeated names are treated as different people.
func GeneratePairs(names []string) [][2]string {
	return NewDefault().GeneratePairs(names)
}

// GeneratePairs is the string form of Generate.
func (g *Generator) GeneratePairs(names []string) [][2]string {
	ps := make([]models.Participant, len(names))
	for i, n := range names {
		ps[i] = models.Participant{ID: strconv.Itoa(i), Name: n}
	}
	pairs := g.Generate(ps)
	out := make([][2]string, len(pairs))
	for i, p := range pairs {
		out[i] = [2]string{p.Giver.Name, p.Recipient.Name}
	}
	return out
}
