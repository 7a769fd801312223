// Package testutil provides deterministic helpers for tests and
// benchmarks: a seeded thread-safe RNG and a synthetic identity record
// corpus.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/hupe1980/sisago/record"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

var (
	firstNames = []string{
		"John", "Li", "Mary", "Ana", "Omar", "Nina", "Paul", "Sara",
		"Ivan", "Mei", "Luis", "Emma", "Noah", "Aya", "Tom", "Zoe",
	}
	lastNames = []string{
		"Doe", "Garcia", "Major", "Silva", "Khan", "Ivanov", "Chen",
		"Novak", "Okafor", "Haddad", "Berg", "Rossi",
	}
	employers = []string{
		"Acme Corp", "Globex", "Initech", "Umbrella Labs", "Stark Industries",
		"Wayne Enterprises", "Hooli", "Vandelay Industries",
	}
)

// Identities returns a slice of n distinct synthetic person names,
// deterministic for a given n.
func Identities(n int) []string {
	names := make([]string, n)
	for i := 0; i < n; i++ {
		name := firstNames[i%len(firstNames)] + " " + lastNames[(i/len(firstNames))%len(lastNames)]
		if gen := i / (len(firstNames) * len(lastNames)); gen > 0 {
			name = fmt.Sprintf("%s %d", name, gen+1)
		}
		names[i] = name
	}
	return names
}

// People generates n synthetic identity records with email, phone and
// employer attributes. The output is fully deterministic for a given n:
// record IDs are 1..n and every derived attribute is a pure function of
// the record's position.
func People(n int) []record.Record {
	names := Identities(n)
	records := make([]record.Record, n)
	for i := 0; i < n; i++ {
		name := names[i]
		local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
		records[i] = record.Record{
			ID:   record.ID(i + 1),
			Name: name,
			Attributes: map[string]string{
				"email":    fmt.Sprintf("%s%d@example.com", local, i),
				"phone":    fmt.Sprintf("555-%04d", i),
				"employer": employers[i%len(employers)],
			},
		}
	}
	return records
}
