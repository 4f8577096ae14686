package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fleetdispatch/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu        sync.Mutex
	customers map[string]model.Customer
	depots    map[string]model.Depot
	vehicles  map[string]model.Vehicle
	orders    map[string]model.Order
	tasks     map[string]model.Task
	taskOrder []string // insertion order for listing
}

func NewMemory() *Memory {
	return &Memory{
		customers: map[string]model.Customer{},
		depots:    map[string]model.Depot{},
		vehicles:  map[string]model.Vehicle{},
		orders:    map[string]model.Order{},
		tasks:     map[string]model.Task{},
	}
}

func (m *Memory) CreateCustomer(ctx context.Context, in model.CustomerIn) (model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := model.Customer{ID: uuid.New().String(), Name: in.Name, X: in.X, Y: in.Y}
	m.customers[c.ID] = c
	return c, nil
}

func (m *Memory) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CreateDepot(ctx context.Context, in model.DepotIn) (model.Depot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := model.Depot{ID: uuid.New().String(), Name: in.Name, X: in.X, Y: in.Y}
	m.depots[d.ID] = d
	return d, nil
}

func (m *Memory) GetDepot(ctx context.Context, id string) (model.Depot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.depots[id]
	if !ok {
		return model.Depot{}, ErrNotFound
	}
	return d, nil
}

func (m *Memory) ListDepots(ctx context.Context) ([]model.Depot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Depot, 0, len(m.depots))
	for _, d := range m.depots {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CreateVehicle(ctx context.Context, in model.VehicleIn) (model.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := model.Vehicle{ID: uuid.New().String(), Name: in.Name, Capacity: in.Capacity}
	m.vehicles[v.ID] = v
	return v, nil
}

func (m *Memory) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetVehicles(ctx context.Context, ids []string) ([]model.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Vehicle{}
	for _, id := range ids {
		if v, ok := m.vehicles[id]; ok {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Capacity > out[j].Capacity })
	return out, nil
}

func (m *Memory) CreateOrder(ctx context.Context, in model.OrderIn) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[in.CustomerID]
	if !ok {
		return model.Order{}, ErrNotFound
	}
	o := model.Order{ID: uuid.New().String(), CustomerID: c.ID, Demand: in.Demand, Status: "pending", X: c.X, Y: c.Y}
	m.orders[o.ID] = o
	return o, nil
}

func (m *Memory) ListOrders(ctx context.Context) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetOrders(ctx context.Context, ids []string) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Order{}
	for _, id := range ids {
		if o, ok := m.orders[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *Memory) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.ID = uuid.New().String()
	if task.Status == "" {
		task.Status = model.TaskAssigned
	}
	task.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	m.tasks[task.ID] = task
	m.taskOrder = append(m.taskOrder, task.ID)
	return task, nil
}

func (m *Memory) GetTask(ctx context.Context, id string) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return t, nil
}

func (m *Memory) ListTasks(ctx context.Context) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Task, 0, len(m.taskOrder))
	for _, id := range m.taskOrder {
		out = append(out, m.tasks[id])
	}
	return out, nil
}
