package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fleetdispatch/internal/ga"
	"fleetdispatch/internal/geo"
	"fleetdispatch/internal/metrics"
	"fleetdispatch/internal/model"
	"fleetdispatch/internal/store"
)

// Dispatch-run optimizer parameters, matching the historical background
// worker settings.
const (
	runGenerations = 200
	runPatience    = 20
)

var (
	ErrInvalidInput  = errors.New("dispatch: vehicles, orders, or depot not found")
	ErrNothingPlaced = errors.New("dispatch: no cluster fits any vehicle")
)

// Orchestrator turns one dispatch request into persisted tasks: it clusters
// the order set to the fleet size, assigns clusters to vehicles, and runs
// the genetic optimizer once per assigned pair.
type Orchestrator struct {
	Store  store.Store
	Metric geo.Metric
	// Seed makes whole runs reproducible; 0 derives one from the clock.
	Seed int64
}

// Run executes a dispatch request to completion. Partial assignment is a
// success with UnassignedClusters > 0; only an empty assignment or an
// optimizer/store error fails the run.
func (o *Orchestrator) Run(ctx context.Context, req model.DispatchRequest) (model.DispatchResult, error) {
	vehicles, err := o.Store.GetVehicles(ctx, req.VehicleIDs)
	if err != nil {
		return model.DispatchResult{}, err
	}
	orders, err := o.Store.GetOrders(ctx, req.OrderIDs)
	if err != nil {
		return model.DispatchResult{}, err
	}
	depot, err := o.Store.GetDepot(ctx, req.DepotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.DispatchResult{}, ErrInvalidInput
		}
		return model.DispatchResult{}, err
	}
	if len(vehicles) == 0 || len(orders) == 0 {
		return model.DispatchResult{}, ErrInvalidInput
	}

	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	k := len(vehicles)
	if len(orders) < k {
		k = len(orders)
	}
	clusters := BuildClusters(orders, k, seed)
	assignments, unassigned := AssignFleet(vehicles, clusters)
	if unassigned > 0 {
		metrics.DispatchClustersUnassigned.Add(float64(unassigned))
	}
	if len(assignments) == 0 {
		return model.DispatchResult{}, ErrNothingPlaced
	}

	result := model.DispatchResult{UnassignedClusters: unassigned}
	for i, a := range assignments {
		task, err := o.optimizeOne(ctx, depot, a, seed+int64(i)+1)
		if err != nil {
			return model.DispatchResult{}, fmt.Errorf("vehicle %s: %w", a.Vehicle.ID, err)
		}
		result.TaskIDs = append(result.TaskIDs, task.ID)
		result.TotalTasksCreated++
		result.TotalDistance += task.TotalDistance
	}
	log.Printf("dispatch: %d tasks created, %d clusters unassigned", result.TotalTasksCreated, unassigned)
	return result, nil
}

// optimizeOne runs the genetic optimizer for a single (vehicle, cluster)
// pair and persists the decoded plan as a Task with ordered stops.
func (o *Orchestrator) optimizeOne(ctx context.Context, depot model.Depot, a Assignment, seed int64) (model.Task, error) {
	stops := make([]ga.Stop, len(a.Cluster.Orders))
	for i, ord := range a.Cluster.Orders {
		stops[i] = ga.Stop{ID: i, X: ord.X, Y: ord.Y, Demand: ord.Demand}
	}
	start := time.Now()
	sol, err := ga.Solve(ga.Problem{
		Depot:    ga.Stop{ID: -1, X: depot.X, Y: depot.Y},
		Stops:    stops,
		Capacity: a.Vehicle.Capacity,
		Metric:   o.Metric,
	}, ga.Config{
		Generations: runGenerations,
		Patience:    runPatience,
		Seed:        seed,
	})
	metrics.OptimizeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OptimizeRuns.WithLabelValues("error").Inc()
		return model.Task{}, err
	}
	metrics.OptimizeGenerations.Observe(float64(sol.Generations))
	metrics.OptimizeRuns.WithLabelValues("ok").Inc()

	task := model.Task{
		DepotID:       depot.ID,
		VehicleID:     a.Vehicle.ID,
		Status:        model.TaskAssigned,
		TotalDistance: sol.TotalDistance,
	}
	stopOrder := 1
	for _, trip := range sol.Routes {
		for _, idx := range trip {
			task.Stops = append(task.Stops, model.TaskStop{
				CustomerID: a.Cluster.Orders[idx].CustomerID,
				StopOrder:  stopOrder,
			})
			stopOrder++
		}
	}
	return o.Store.CreateTask(ctx, task)
}
