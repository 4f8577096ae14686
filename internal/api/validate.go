package api

import (
	"fmt"

	"fleetdispatch/internal/ga"
	"fleetdispatch/internal/model"
)

// MaxLocations bounds the synchronous optimize request (depot included) to
// keep a single run's cost matrix and search time sane.
const MaxLocations = ga.MaxStops

// errSizeLimit distinguishes the size cap from other validation failures
// so the handler can report it under its own problem title.
type errSizeLimit struct{ n int }

func (e errSizeLimit) Error() string {
	return fmt.Sprintf("too many locations (%d), maximum is %d", e.n, MaxLocations)
}

func validateOptimizeRequest(req *model.OptimizeRequest) error {
	if len(req.Locations) < 2 {
		return fmt.Errorf("at least 2 locations required (depot plus one demand point), got %d", len(req.Locations))
	}
	if len(req.Locations) > MaxLocations {
		return errSizeLimit{n: len(req.Locations)}
	}
	if req.VehicleCapacity <= 0 {
		return fmt.Errorf("vehicleCapacity must be > 0")
	}
	if req.Generations < 0 || req.Patience < 0 {
		return fmt.Errorf("generations and patience must be positive")
	}
	if req.PopulationSize < 0 {
		return fmt.Errorf("populationSize must be positive")
	}
	if req.CrossoverRate < 0 || req.CrossoverRate > 1 {
		return fmt.Errorf("crossoverRate must be in [0,1]")
	}
	if req.MutationRate < 0 || req.MutationRate > 1 {
		return fmt.Errorf("mutationRate must be in [0,1]")
	}
	if req.Locations[0].Demand != 0 {
		return fmt.Errorf("first location is the depot and must have demand 0")
	}
	seen := map[int]bool{}
	for _, l := range req.Locations {
		if l.Demand < 0 {
			return fmt.Errorf("location %d: demand must be >= 0", l.ID)
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate location id %d", l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}

func validateDispatchRequest(req *model.DispatchRequest) error {
	if len(req.OrderIDs) == 0 {
		return fmt.Errorf("orderIds must not be empty")
	}
	if len(req.VehicleIDs) == 0 {
		return fmt.Errorf("vehicleIds must not be empty")
	}
	if req.DepotID == "" {
		return fmt.Errorf("depotId is required")
	}
	return nil
}
