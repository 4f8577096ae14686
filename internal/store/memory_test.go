package store

import (
	"context"
	"testing"

	"fleetdispatch/internal/model"
)

func TestMemoryOrderJoinsCustomerCoords(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	c, err := m.CreateCustomer(ctx, model.CustomerIn{Name: "c1", X: 3, Y: 4})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	o, err := m.CreateOrder(ctx, model.OrderIn{CustomerID: c.ID, Demand: 7})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if o.X != 3 || o.Y != 4 {
		t.Fatalf("order coords = (%v,%v), want customer coords (3,4)", o.X, o.Y)
	}
	got, err := m.GetOrders(ctx, []string{o.ID, "missing"})
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(got) != 1 || got[0].ID != o.ID {
		t.Fatalf("GetOrders = %+v", got)
	}
}

func TestMemoryOrderUnknownCustomer(t *testing.T) {
	m := NewMemory()
	if _, err := m.CreateOrder(context.Background(), model.OrderIn{CustomerID: "nope", Demand: 1}); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemoryGetVehiclesSortsByCapacityDesc(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	small, _ := m.CreateVehicle(ctx, model.VehicleIn{Name: "small", Capacity: 40})
	big, _ := m.CreateVehicle(ctx, model.VehicleIn{Name: "big", Capacity: 120})
	mid, _ := m.CreateVehicle(ctx, model.VehicleIn{Name: "mid", Capacity: 80})

	got, err := m.GetVehicles(ctx, []string{small.ID, big.ID, mid.ID})
	if err != nil {
		t.Fatalf("GetVehicles: %v", err)
	}
	if len(got) != 3 || got[0].ID != big.ID || got[1].ID != mid.ID || got[2].ID != small.ID {
		t.Fatalf("wrong order: %+v", got)
	}
}

func TestMemoryTasksRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	task, err := m.CreateTask(ctx, model.Task{
		DepotID:       "d1",
		VehicleID:     "v1",
		TotalDistance: 12.5,
		Stops: []model.TaskStop{
			{CustomerID: "c1", StopOrder: 1},
			{CustomerID: "c2", StopOrder: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Status != model.TaskAssigned {
		t.Fatalf("status = %q, want ASSIGNED", task.Status)
	}
	got, err := m.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if len(got.Stops) != 2 || got.Stops[1].CustomerID != "c2" {
		t.Fatalf("stops = %+v", got.Stops)
	}
	if _, err := m.GetTask(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	all, _ := m.ListTasks(ctx)
	if len(all) != 1 {
		t.Fatalf("ListTasks = %d items", len(all))
	}
}
