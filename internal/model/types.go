package model

// Core domain types for the CVRP dispatch service.

// LocationIn is a demand point as submitted to the synchronous optimizer.
// The first location of a request is the depot and must carry demand 0.
type LocationIn struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Demand float64 `json:"demand,omitempty"`
}

type CustomerIn struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type Customer struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type DepotIn struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type Depot struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type VehicleIn struct {
	Name     string  `json:"name"`
	Capacity float64 `json:"capacity"`
}

type Vehicle struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Capacity float64 `json:"capacity"`
}

// OrderIn references a customer; coordinates come from the customer record.
type OrderIn struct {
	CustomerID string  `json:"customerId"`
	Demand     float64 `json:"demand"`
}

type Order struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customerId"`
	Demand     float64 `json:"demand"`
	Status     string  `json:"status"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// Task statuses.
const (
	TaskAssigned  = "ASSIGNED"
	TaskCompleted = "COMPLETED"
)

// Task is one vehicle's persisted dispatch outcome: the decoded trips for
// the cluster assigned to that vehicle.
type Task struct {
	ID            string     `json:"id"`
	DepotID       string     `json:"depotId"`
	VehicleID     string     `json:"vehicleId"`
	Status        string     `json:"status"`
	TotalDistance float64    `json:"totalDistance"`
	Stops         []TaskStop `json:"stops,omitempty"`
	CreatedAt     string     `json:"createdAt,omitempty"`
}

// TaskStop is one customer visit within a task, ordered by StopOrder.
// The depot is implicit at the start and end of each trip and never stored.
type TaskStop struct {
	CustomerID string `json:"customerId"`
	StopOrder  int    `json:"stopOrder"`
}

// OptimizeRequest is the synchronous single-vehicle CVRP request.
type OptimizeRequest struct {
	Locations       []LocationIn `json:"locations"`
	VehicleCapacity float64      `json:"vehicleCapacity"`
	Generations     int          `json:"generations,omitempty"`
	Patience        int          `json:"patience,omitempty"`
	PopulationSize  int          `json:"populationSize,omitempty"`
	CrossoverRate   float64      `json:"crossoverRate,omitempty"`
	MutationRate    float64      `json:"mutationRate,omitempty"`
	Seed            int64        `json:"seed,omitempty"`
}

// OptimizeResponse carries the decoded plan plus the legacy single-route
// shape (flat permutation + fitness) older clients still parse.
type OptimizeResponse struct {
	TotalDistance    float64 `json:"totalDistance"`
	Routes           [][]int `json:"routes"`
	Infeasible       bool    `json:"infeasible,omitempty"`
	InfeasibleDetail string  `json:"infeasibleDetail,omitempty"`
	Distance         float64 `json:"distance"`
	Path             []int   `json:"path"`
}

// DispatchRequest is the asynchronous fleet dispatch submission.
type DispatchRequest struct {
	OrderIDs   []string `json:"orderIds"`
	VehicleIDs []string `json:"vehicleIds"`
	DepotID    string   `json:"depotId"`
}

// DispatchResult is the output of a succeeded dispatch job.
type DispatchResult struct {
	TotalTasksCreated  int      `json:"totalTasksCreated"`
	TaskIDs            []string `json:"taskIds"`
	UnassignedClusters int      `json:"unassignedClusters"`
	TotalDistance      float64  `json:"totalDistance"`
}
