package dispatch

import (
	"context"
	"errors"
	"testing"

	"fleetdispatch/internal/model"
	"fleetdispatch/internal/store"
)

// seedFleet creates a depot, two far-apart customer groups with orders, and
// the given vehicles; returns everything the dispatch request needs.
func seedFleet(t *testing.T, m *store.Memory, capacities []float64, groupBDemand float64) (model.DispatchRequest, []string) {
	t.Helper()
	ctx := context.Background()
	depot, err := m.CreateDepot(ctx, model.DepotIn{Name: "hub", X: 50, Y: 50})
	if err != nil {
		t.Fatalf("CreateDepot: %v", err)
	}

	var orderIDs []string
	addOrder := func(x, y, demand float64) {
		c, err := m.CreateCustomer(ctx, model.CustomerIn{Name: "c", X: x, Y: y})
		if err != nil {
			t.Fatalf("CreateCustomer: %v", err)
		}
		o, err := m.CreateOrder(ctx, model.OrderIn{CustomerID: c.ID, Demand: demand})
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		orderIDs = append(orderIDs, o.ID)
	}
	// group A near the origin: 5 orders of 10 (demand 50)
	for i := 0; i < 5; i++ {
		addOrder(float64(i), float64(i%2), 10)
	}
	// group B far away, demand groupBDemand split over 4 orders
	for i := 0; i < 4; i++ {
		addOrder(1000+float64(i), 1000+float64(i%2), groupBDemand/4)
	}

	var vehicleIDs []string
	for i, cap := range capacities {
		v, err := m.CreateVehicle(ctx, model.VehicleIn{Name: "v", Capacity: cap})
		if err != nil {
			t.Fatalf("CreateVehicle %d: %v", i, err)
		}
		vehicleIDs = append(vehicleIDs, v.ID)
	}
	return model.DispatchRequest{OrderIDs: orderIDs, VehicleIDs: vehicleIDs, DepotID: depot.ID}, orderIDs
}

func TestOrchestratorFullAssignment(t *testing.T) {
	m := store.NewMemory()
	req, orderIDs := seedFleet(t, m, []float64{60, 60}, 40)

	o := &Orchestrator{Store: m, Seed: 7}
	res, err := o.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TotalTasksCreated != 2 || res.UnassignedClusters != 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.TotalDistance <= 0 {
		t.Fatalf("total distance = %v", res.TotalDistance)
	}

	// every order's customer appears on exactly one task, exactly once
	tasks, _ := m.ListTasks(context.Background())
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d", len(tasks))
	}
	seen := map[string]int{}
	for _, task := range tasks {
		full, err := m.GetTask(context.Background(), task.ID)
		if err != nil {
			t.Fatalf("GetTask: %v", err)
		}
		for _, s := range full.Stops {
			seen[s.CustomerID]++
		}
	}
	orders, _ := m.GetOrders(context.Background(), orderIDs)
	if len(seen) != len(orders) {
		t.Fatalf("covered %d customers, want %d", len(seen), len(orders))
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("customer %s visited %d times", id, n)
		}
	}
}

func TestOrchestratorPartialAssignmentSucceeds(t *testing.T) {
	m := store.NewMemory()
	// cluster B (demand 80) exceeds both 60-capacity vehicles
	req, _ := seedFleet(t, m, []float64{60, 60}, 80)

	o := &Orchestrator{Store: m, Seed: 7}
	res, err := o.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("partial assignment should not fail: %v", err)
	}
	if res.TotalTasksCreated != 1 {
		t.Fatalf("tasks = %d, want 1 (only cluster A fits)", res.TotalTasksCreated)
	}
	if res.UnassignedClusters != 1 {
		t.Fatalf("unassigned = %d, want 1", res.UnassignedClusters)
	}
}

func TestOrchestratorNothingFits(t *testing.T) {
	m := store.NewMemory()
	req, _ := seedFleet(t, m, []float64{5}, 80)

	o := &Orchestrator{Store: m, Seed: 7}
	if _, err := o.Run(context.Background(), req); !errors.Is(err, ErrNothingPlaced) {
		t.Fatalf("want ErrNothingPlaced, got %v", err)
	}
}

func TestOrchestratorRejectsMissingData(t *testing.T) {
	m := store.NewMemory()
	o := &Orchestrator{Store: m, Seed: 7}
	_, err := o.Run(context.Background(), model.DispatchRequest{
		OrderIDs: []string{"missing"}, VehicleIDs: []string{"missing"}, DepotID: "missing",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestOrchestratorDeterministicUnderSeed(t *testing.T) {
	run := func() model.DispatchResult {
		m := store.NewMemory()
		req, _ := seedFleet(t, m, []float64{60, 60}, 40)
		o := &Orchestrator{Store: m, Seed: 99}
		res, err := o.Run(context.Background(), req)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}
	a, b := run(), run()
	if a.TotalDistance != b.TotalDistance || a.TotalTasksCreated != b.TotalTasksCreated {
		t.Fatalf("non-deterministic: %+v vs %+v", a, b)
	}
}
