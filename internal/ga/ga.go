package ga

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"fleetdispatch/internal/geo"
)

// MaxStops bounds instance size so a single run's cost matrix and search
// stay cheap. Mirrors the 50-location cap enforced at the API boundary.
const MaxStops = 50

// Stop is one demand point. The depot is a Stop with Demand 0.
type Stop struct {
	ID     int
	X, Y   float64
	Demand float64
}

// Problem is one immutable CVRP instance: a depot, customer stops, and a
// single vehicle capacity. The metric is swappable; nil means Euclidean.
type Problem struct {
	Depot    Stop
	Stops    []Stop
	Capacity float64
	Metric   geo.Metric
}

// Config holds the search parameters. Zero values fall back to defaults.
type Config struct {
	PopulationSize int     // default 100
	CrossoverRate  float64 // default 0.85
	MutationRate   float64 // default 0.02
	Generations    int     // default 200, hard cap
	Patience       int     // default 20 non-improving generations
	TournamentSize int     // default 5
	Seed           int64   // 0 means time-based
}

func (c Config) withDefaults() Config {
	if c.PopulationSize <= 0 {
		c.PopulationSize = 100
	}
	if c.CrossoverRate <= 0 {
		c.CrossoverRate = 0.85
	}
	if c.MutationRate <= 0 {
		c.MutationRate = 0.02
	}
	if c.Generations <= 0 {
		c.Generations = 200
	}
	if c.Patience <= 0 {
		c.Patience = 20
	}
	if c.TournamentSize <= 0 {
		c.TournamentSize = 5
	}
	return c
}

// Solution is the best plan found by one run.
type Solution struct {
	// Permutation is the visiting order over stop IDs, depot excluded.
	Permutation []int
	// Routes are the capacity-split trips over stop IDs; each trip
	// implicitly starts and ends at the depot.
	Routes        [][]int
	TotalDistance float64
	Fitness       float64
	// Overload is total demand above capacity across trips. Non-zero only
	// when some single stop's demand alone exceeds the vehicle capacity.
	Overload    float64
	Infeasible  bool
	Generations int
}

var (
	ErrNoStops      = errors.New("ga: instance has no customer stops")
	ErrTooManyStops = errors.New("ga: instance exceeds the stop limit")
)

// Solve runs the genetic search and returns the best chromosome seen across
// all generations, decoded into capacity-respecting trips.
func Solve(p Problem, cfg Config) (Solution, error) {
	n := len(p.Stops)
	if n == 0 {
		return Solution{}, ErrNoStops
	}
	if n > MaxStops {
		return Solution{}, ErrTooManyStops
	}
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	inst := newInstance(p)

	// initial population of random permutations over stop indices
	pop := make([][]int, cfg.PopulationSize)
	fit := make([]float64, cfg.PopulationSize)
	for i := range pop {
		pop[i] = rng.Perm(n)
		fit[i] = inst.fitness(pop[i])
	}

	bestPerm, bestFit := bestOf(pop, fit)
	stale := 0
	gens := 0

	for g := 0; g < cfg.Generations; g++ {
		gens = g + 1
		parents := tournamentSelect(pop, fit, cfg.TournamentSize, rng)
		offspring := breed(parents, cfg, rng)
		// elitism: the previous best survives unchanged
		elite, _ := bestOf(pop, fit)
		pop[0] = elite
		for i := 1; i < cfg.PopulationSize; i++ {
			pop[i] = offspring[i-1]
		}
		for i := range pop {
			fit[i] = inst.fitness(pop[i])
		}
		genBest, genFit := bestOf(pop, fit)
		if genFit < bestFit {
			bestFit = genFit
			bestPerm = genBest
			stale = 0
		} else {
			stale++
		}
		if stale >= cfg.Patience {
			break
		}
	}

	trips, overload := inst.decode(bestPerm)
	dist := inst.routeDistance(trips)
	sol := Solution{
		Permutation:   inst.ids(bestPerm),
		Routes:        make([][]int, len(trips)),
		TotalDistance: dist,
		Fitness:       bestFit,
		Overload:      overload,
		Infeasible:    overload > 0,
		Generations:   gens,
	}
	for i, tr := range trips {
		sol.Routes[i] = inst.ids(tr)
	}
	return sol, nil
}

// breed pairs parents and produces PopulationSize children via order
// crossover and swap mutation.
func breed(parents [][]int, cfg Config, rng *rand.Rand) [][]int {
	out := make([][]int, 0, cfg.PopulationSize)
	for i := 0; i < cfg.PopulationSize; i += 2 {
		p1 := parents[i]
		p2 := p1
		if i+1 < len(parents) {
			p2 = parents[i+1]
		}
		var c1, c2 []int
		if rng.Float64() < cfg.CrossoverRate {
			c1, c2 = orderCrossover(p1, p2, rng)
		} else {
			c1 = append([]int(nil), p1...)
			c2 = append([]int(nil), p2...)
		}
		swapMutate(c1, cfg.MutationRate, rng)
		swapMutate(c2, cfg.MutationRate, rng)
		out = append(out, c1, c2)
	}
	return out[:cfg.PopulationSize]
}

func bestOf(pop [][]int, fit []float64) ([]int, float64) {
	bi := 0
	bf := math.Inf(1)
	for i, f := range fit {
		if f < bf {
			bf = f
			bi = i
		}
	}
	return append([]int(nil), pop[bi]...), bf
}
