package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"fleetdispatch/internal/model"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// MigrateDir applies every .sql file in dir in lexical order. Dev helper;
// production deployments run migrations out of band.
func (p *Postgres) MigrateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, n := range names {
		b, err := os.ReadFile(filepath.Join(dir, n))
		if err != nil {
			return err
		}
		if _, err := p.db.Exec(string(b)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) CreateCustomer(ctx context.Context, in model.CustomerIn) (model.Customer, error) {
	c := model.Customer{ID: uuid.New().String(), Name: in.Name, X: in.X, Y: in.Y}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, x, y) VALUES ($1,$2,$3,$4)`, c.ID, c.Name, c.X, c.Y)
	return c, err
}

func (p *Postgres) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id::text, name, x, y FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.X, &c.Y); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) CreateDepot(ctx context.Context, in model.DepotIn) (model.Depot, error) {
	d := model.Depot{ID: uuid.New().String(), Name: in.Name, X: in.X, Y: in.Y}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO depots (id, name, x, y) VALUES ($1,$2,$3,$4)`, d.ID, d.Name, d.X, d.Y)
	return d, err
}

func (p *Postgres) GetDepot(ctx context.Context, id string) (model.Depot, error) {
	var d model.Depot
	err := p.db.QueryRowContext(ctx,
		`SELECT id::text, name, x, y FROM depots WHERE id=$1`, id).Scan(&d.ID, &d.Name, &d.X, &d.Y)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Depot{}, ErrNotFound
	}
	return d, err
}

func (p *Postgres) ListDepots(ctx context.Context) ([]model.Depot, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id::text, name, x, y FROM depots ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Depot{}
	for rows.Next() {
		var d model.Depot
		if err := rows.Scan(&d.ID, &d.Name, &d.X, &d.Y); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *Postgres) CreateVehicle(ctx context.Context, in model.VehicleIn) (model.Vehicle, error) {
	v := model.Vehicle{ID: uuid.New().String(), Name: in.Name, Capacity: in.Capacity}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO vehicles (id, name, capacity) VALUES ($1,$2,$3)`, v.ID, v.Name, v.Capacity)
	return v, err
}

func (p *Postgres) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id::text, name, capacity FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

func (p *Postgres) GetVehicles(ctx context.Context, ids []string) ([]model.Vehicle, error) {
	if len(ids) == 0 {
		return []model.Vehicle{}, nil
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id::text, name, capacity FROM vehicles WHERE id = ANY($1) ORDER BY capacity DESC`, pqStringArray(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

func scanVehicles(rows *sql.Rows) ([]model.Vehicle, error) {
	out := []model.Vehicle{}
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.Capacity); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (p *Postgres) CreateOrder(ctx context.Context, in model.OrderIn) (model.Order, error) {
	var c model.Customer
	err := p.db.QueryRowContext(ctx,
		`SELECT id::text, name, x, y FROM customers WHERE id=$1`, in.CustomerID).Scan(&c.ID, &c.Name, &c.X, &c.Y)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	o := model.Order{ID: uuid.New().String(), CustomerID: c.ID, Demand: in.Demand, Status: "pending", X: c.X, Y: c.Y}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, demand, status) VALUES ($1,$2,$3,$4)`, o.ID, o.CustomerID, o.Demand, o.Status)
	return o, err
}

func (p *Postgres) ListOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT o.id::text, o.customer_id::text, o.demand, o.status, c.x, c.y
		 FROM orders o JOIN customers c ON c.id = o.customer_id ORDER BY o.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (p *Postgres) GetOrders(ctx context.Context, ids []string) ([]model.Order, error) {
	if len(ids) == 0 {
		return []model.Order{}, nil
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT o.id::text, o.customer_id::text, o.demand, o.status, c.x, c.y
		 FROM orders o JOIN customers c ON c.id = o.customer_id WHERE o.id = ANY($1)`, pqStringArray(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]model.Order, error) {
	out := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Demand, &o.Status, &o.X, &o.Y); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (p *Postgres) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	task.ID = uuid.New().String()
	if task.Status == "" {
		task.Status = model.TaskAssigned
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Task{}, err
	}
	defer func() { _ = tx.Rollback() }()
	err = tx.QueryRowContext(ctx,
		`INSERT INTO tasks (id, depot_id, vehicle_id, status, total_distance) VALUES ($1,$2,$3,$4,$5)
		 RETURNING created_at::text`,
		task.ID, task.DepotID, task.VehicleID, task.Status, task.TotalDistance).Scan(&task.CreatedAt)
	if err != nil {
		return model.Task{}, err
	}
	for _, s := range task.Stops {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_stops (task_id, customer_id, stop_order) VALUES ($1,$2,$3)`,
			task.ID, s.CustomerID, s.StopOrder); err != nil {
			return model.Task{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (p *Postgres) GetTask(ctx context.Context, id string) (model.Task, error) {
	var t model.Task
	err := p.db.QueryRowContext(ctx,
		`SELECT id::text, depot_id::text, vehicle_id::text, status, total_distance, created_at::text
		 FROM tasks WHERE id=$1`, id).Scan(&t.ID, &t.DepotID, &t.VehicleID, &t.Status, &t.TotalDistance, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, err
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT customer_id::text, stop_order FROM task_stops WHERE task_id=$1 ORDER BY stop_order`, id)
	if err != nil {
		return model.Task{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var s model.TaskStop
		if err := rows.Scan(&s.CustomerID, &s.StopOrder); err != nil {
			return model.Task{}, err
		}
		t.Stops = append(t.Stops, s)
	}
	return t, rows.Err()
}

func (p *Postgres) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id::text, depot_id::text, vehicle_id::text, status, total_distance, created_at::text
		 FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.DepotID, &t.VehicleID, &t.Status, &t.TotalDistance, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// pqStringArray renders ids as a Postgres text[] literal for ANY($1).
func pqStringArray(ss []string) any {
	if len(ss) == 0 {
		return nil
	}
	esc := make([]string, len(ss))
	for i, s := range ss {
		esc[i] = `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return "{" + strings.Join(esc, ",") + "}"
}
