package store

import (
	"context"
	"errors"

	"fleetdispatch/internal/model"
)

// Store is the persistence interface used by the API server and the
// dispatch orchestrator.
type Store interface {
	// Customers
	CreateCustomer(ctx context.Context, in model.CustomerIn) (model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)

	// Depots
	CreateDepot(ctx context.Context, in model.DepotIn) (model.Depot, error)
	GetDepot(ctx context.Context, id string) (model.Depot, error)
	ListDepots(ctx context.Context) ([]model.Depot, error)

	// Vehicles
	CreateVehicle(ctx context.Context, in model.VehicleIn) (model.Vehicle, error)
	ListVehicles(ctx context.Context) ([]model.Vehicle, error)
	// GetVehicles returns the subset of ids that exist, ordered by
	// capacity descending (the fleet assigner's required ordering).
	GetVehicles(ctx context.Context, ids []string) ([]model.Vehicle, error)

	// Orders
	CreateOrder(ctx context.Context, in model.OrderIn) (model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	// GetOrders resolves orders with their customer coordinates joined in.
	GetOrders(ctx context.Context, ids []string) ([]model.Order, error)

	// Tasks (dispatch output)
	CreateTask(ctx context.Context, task model.Task) (model.Task, error)
	GetTask(ctx context.Context, id string) (model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
}

var ErrNotFound = errors.New("not found")
