// Package store persists the bot world in SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"airline_bots/internal/models"
	"airline_bots/internal/world"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore implements world.Store and world.Seeder over database/sql.
type SQLStore struct {
	db     *sql.DB
	driver string
}

var (
	_ world.Store  = (*SQLStore)(nil)
	_ world.Seeder = (*SQLStore)(nil)
)

// Open connects to dsn with the given driver and creates the schema.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One writer at a time; also keeps ":memory:" databases on a single connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	s := &SQLStore{db: db, driver: driver}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

// Migrate creates any missing tables. It is safe to run repeatedly.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $n for postgres.
func (s *SQLStore) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.rebind(query), args...)
}

func (s *SQLStore) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.rebind(query), args...)
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

const airlineColumns = `id, name, balance, reputation, service_quality, category, country_code, is_bot`

func scanAirline(sc interface{ Scan(...any) error }) (models.Airline, error) {
	var a models.Airline
	err := sc.Scan(&a.ID, &a.Name, &a.Balance, &a.Reputation, &a.ServiceQuality, &a.Category, &a.CountryCode, &a.Bot)
	return a, err
}

func (s *SQLStore) LoadBotAirlines(ctx context.Context) ([]models.Airline, error) {
	rows, err := s.query(ctx, s.db, `SELECT `+airlineColumns+` FROM airlines WHERE is_bot = ? ORDER BY id`, true)
	if err != nil {
		return nil, fmt.Errorf("load bot airlines: %w", err)
	}
	defer rows.Close()
	var out []models.Airline
	for rows.Next() {
		a, err := scanAirline(rows)
		if err != nil {
			return nil, fmt.Errorf("scan airline: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) LoadAirline(ctx context.Context, airlineID int) (models.Airline, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+airlineColumns+` FROM airlines WHERE id = ?`), airlineID)
	a, err := scanAirline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Airline{}, fmt.Errorf("airline %d: %w", airlineID, world.ErrNotFound)
	}
	if err != nil {
		return models.Airline{}, fmt.Errorf("load airline %d: %w", airlineID, err)
	}
	return a, nil
}

func (s *SQLStore) LoadBases(ctx context.Context, airlineID int) ([]models.Base, error) {
	rows, err := s.query(ctx, s.db, `SELECT airline_id, airport_id, scale, headquarter, founded_cycle
		FROM bases WHERE airline_id = ? ORDER BY airport_id`, airlineID)
	if err != nil {
		return nil, fmt.Errorf("load bases: %w", err)
	}
	defer rows.Close()
	var out []models.Base
	for rows.Next() {
		var b models.Base
		if err := rows.Scan(&b.AirlineID, &b.AirportID, &b.Scale, &b.Headquarter, &b.FoundedCycle); err != nil {
			return nil, fmt.Errorf("scan base: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLStore) LoadAircraft(ctx context.Context, airlineID int) ([]models.Aircraft, error) {
	rows, err := s.query(ctx, s.db, `SELECT a.id, a.owner_id, a.model_id, a.home_airport_id, a.condition_pct, a.ready,
			m.id, m.name, m.category, m.capacity, m.range_km, m.runway_requirement_m, m.speed_kmh, m.turnaround_min, m.price
		FROM aircraft a JOIN aircraft_models m ON m.id = a.model_id
		WHERE a.owner_id = ? ORDER BY a.id`, airlineID)
	if err != nil {
		return nil, fmt.Errorf("load aircraft: %w", err)
	}
	defer rows.Close()
	var out []models.Aircraft
	for rows.Next() {
		var a models.Aircraft
		m := &a.Model
		var cat string
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.ModelID, &a.HomeAirportID, &a.Condition, &a.Ready,
			&m.ID, &m.Name, &cat, &m.Capacity, &m.RangeKm, &m.RunwayRequirement, &m.SpeedKmh, &m.TurnaroundMin, &m.Price); err != nil {
			return nil, fmt.Errorf("scan aircraft: %w", err)
		}
		m.Category = models.AircraftCategory(cat)
		out = append(out, a)
	}
	return out, rows.Err()
}

const routeColumns = `id, airline_id, from_airport_id, to_airport_id, distance_km,
	price_economy, price_business, price_first,
	capacity_economy, capacity_business, capacity_first,
	frequency, duration_min, raw_quality, flight_category`

func (s *SQLStore) LoadRoutes(ctx context.Context, airlineID int) ([]models.Route, error) {
	return s.loadRoutes(ctx, `SELECT `+routeColumns+` FROM routes WHERE airline_id = ? ORDER BY id`, airlineID)
}

func (s *SQLStore) LoadRoutesByAirportPair(ctx context.Context, a, b int) ([]models.Route, error) {
	return s.loadRoutes(ctx, `SELECT `+routeColumns+` FROM routes
		WHERE (from_airport_id = ? AND to_airport_id = ?) OR (from_airport_id = ? AND to_airport_id = ?)
		ORDER BY id`, a, b, b, a)
}

func (s *SQLStore) loadRoutes(ctx context.Context, query string, args ...any) ([]models.Route, error) {
	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	var out []models.Route
	for rows.Next() {
		var r models.Route
		var cat string
		if err := rows.Scan(&r.ID, &r.AirlineID, &r.FromAirportID, &r.ToAirportID, &r.Distance,
			&r.Price.Economy, &r.Price.Business, &r.Price.First,
			&r.Capacity.Economy, &r.Capacity.Business, &r.Capacity.First,
			&r.Frequency, &r.Duration, &r.RawQuality, &cat); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan route: %w", err)
		}
		r.FlightCategory = models.FlightCategory(cat)
		out = append(out, r)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachAssignments(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachAssignments fills Assignments for routes in one query. It runs
// after the route cursor is closed so a single-connection pool is enough.
func (s *SQLStore) attachAssignments(ctx context.Context, routes []models.Route) error {
	if len(routes) == 0 {
		return nil
	}
	idx := make(map[int]int, len(routes))
	args := make([]any, len(routes))
	for i, r := range routes {
		idx[r.ID] = i
		args[i] = r.ID
	}
	in := strings.TrimSuffix(strings.Repeat("?,", len(routes)), ",")
	rows, err := s.query(ctx, s.db, `SELECT route_id, aircraft_id, frequency FROM route_assignments
		WHERE route_id IN (`+in+`)`, args...)
	if err != nil {
		return fmt.Errorf("load assignments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var routeID, aircraftID, freq int
		if err := rows.Scan(&routeID, &aircraftID, &freq); err != nil {
			return fmt.Errorf("scan assignment: %w", err)
		}
		r := &routes[idx[routeID]]
		if r.Assignments == nil {
			r.Assignments = make(map[int]int)
		}
		r.Assignments[aircraftID] = freq
	}
	return rows.Err()
}

func (s *SQLStore) LoadConsumption(ctx context.Context, routeID, cycles int) ([]models.ConsumptionRecord, error) {
	q := `SELECT route_id, cycle, sold_economy, sold_business, sold_first, revenue, profit
		FROM consumption WHERE route_id = ? ORDER BY cycle DESC`
	args := []any{routeID}
	if cycles > 0 {
		q += ` LIMIT ?`
		args = append(args, cycles)
	}
	rows, err := s.query(ctx, s.db, q, args...)
	if err != nil {
		return nil, fmt.Errorf("load consumption: %w", err)
	}
	defer rows.Close()
	var out []models.ConsumptionRecord
	for rows.Next() {
		var c models.ConsumptionRecord
		if err := rows.Scan(&c.RouteID, &c.Cycle, &c.SoldSeats.Economy, &c.SoldSeats.Business, &c.SoldSeats.First, &c.Revenue, &c.Profit); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) LoadAirports(ctx context.Context) ([]models.Airport, error) {
	rows, err := s.query(ctx, s.db, `SELECT id, iata, name, city, size, population, country_code, income, runway_m, zone, lat, lon
		FROM airports ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load airports: %w", err)
	}
	defer rows.Close()
	var out []models.Airport
	for rows.Next() {
		var a models.Airport
		if err := rows.Scan(&a.ID, &a.IATA, &a.Name, &a.City, &a.Size, &a.Population, &a.CountryCode,
			&a.Income, &a.RunwayLength, &a.Zone, &a.Latitude, &a.Longitude); err != nil {
			return nil, fmt.Errorf("scan airport: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) LoadCountryRelationships(ctx context.Context) (map[models.CountryPair]int, error) {
	rows, err := s.query(ctx, s.db, `SELECT country_a, country_b, score FROM country_relationships`)
	if err != nil {
		return nil, fmt.Errorf("load relationships: %w", err)
	}
	defer rows.Close()
	out := make(map[models.CountryPair]int)
	for rows.Next() {
		var a, b string
		var score int
		if err := rows.Scan(&a, &b, &score); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		out[models.NewCountryPair(a, b)] = score
	}
	return out, rows.Err()
}

func (s *SQLStore) airportExists(ctx context.Context, q querier, id int) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM airports WHERE id = ?`), id).Scan(&n)
	return n > 0, err
}

// CreateRoute draws the route id from the routes sequence inside the insert
// transaction, so ids of deleted routes are never reused.
func (s *SQLStore) CreateRoute(ctx context.Context, r models.Route) (models.Route, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range []int{r.FromAirportID, r.ToAirportID} {
			ok, err := s.airportExists(ctx, tx, id)
			if err != nil {
				return fmt.Errorf("create route: %w", err)
			}
			if !ok {
				return fmt.Errorf("create route: airport %d: %w", id, world.ErrNotFound)
			}
		}
		id, err := s.nextRouteID(ctx, tx)
		if err != nil {
			return fmt.Errorf("create route: %w", err)
		}
		r.ID = id
		return s.insertRoute(ctx, tx, r)
	})
	if err != nil {
		return models.Route{}, err
	}
	return r.WithPrice(r.Price), nil
}

// nextRouteID bumps the sequence first so concurrent postgres writers
// serialize on the row lock.
func (s *SQLStore) nextRouteID(ctx context.Context, tx *sql.Tx) (int, error) {
	if _, err := s.exec(ctx, tx, `UPDATE id_sequences SET next_id = next_id + 1 WHERE name = 'routes'`); err != nil {
		return 0, fmt.Errorf("next route id: %w", err)
	}
	var next int
	if err := tx.QueryRowContext(ctx, `SELECT next_id FROM id_sequences WHERE name = 'routes'`).Scan(&next); err != nil {
		return 0, fmt.Errorf("next route id: %w", err)
	}
	return next - 1, nil
}

func (s *SQLStore) insertRoute(ctx context.Context, tx *sql.Tx, r models.Route) error {
	_, err := s.exec(ctx, tx, `INSERT INTO routes (`+routeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			airline_id = excluded.airline_id,
			from_airport_id = excluded.from_airport_id,
			to_airport_id = excluded.to_airport_id,
			distance_km = excluded.distance_km,
			price_economy = excluded.price_economy,
			price_business = excluded.price_business,
			price_first = excluded.price_first,
			capacity_economy = excluded.capacity_economy,
			capacity_business = excluded.capacity_business,
			capacity_first = excluded.capacity_first,
			frequency = excluded.frequency,
			duration_min = excluded.duration_min,
			raw_quality = excluded.raw_quality,
			flight_category = excluded.flight_category`,
		r.ID, r.AirlineID, r.FromAirportID, r.ToAirportID, r.Distance,
		r.Price.Economy, r.Price.Business, r.Price.First,
		r.Capacity.Economy, r.Capacity.Business, r.Capacity.First,
		r.Frequency, r.Duration, r.RawQuality, string(r.FlightCategory))
	if err != nil {
		return fmt.Errorf("insert route %d: %w", r.ID, err)
	}
	if _, err := s.exec(ctx, tx, `DELETE FROM route_assignments WHERE route_id = ?`, r.ID); err != nil {
		return fmt.Errorf("clear assignments %d: %w", r.ID, err)
	}
	for aircraftID, freq := range r.Assignments {
		if _, err := s.exec(ctx, tx, `INSERT INTO route_assignments (route_id, aircraft_id, frequency) VALUES (?, ?, ?)`,
			r.ID, aircraftID, freq); err != nil {
			return fmt.Errorf("insert assignment %d/%d: %w", r.ID, aircraftID, err)
		}
	}
	return nil
}

// UpdateRoute writes fares only; assignments and schedule stay as stored.
func (s *SQLStore) UpdateRoute(ctx context.Context, r models.Route) error {
	res, err := s.exec(ctx, s.db, `UPDATE routes SET price_economy = ?, price_business = ?, price_first = ? WHERE id = ?`,
		r.Price.Economy, r.Price.Business, r.Price.First, r.ID)
	if err != nil {
		return fmt.Errorf("update route %d: %w", r.ID, err)
	}
	return affected(res, "update route", r.ID)
}

func (s *SQLStore) DeleteRoute(ctx context.Context, routeID int) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx, `DELETE FROM routes WHERE id = ?`, routeID)
		if err != nil {
			return fmt.Errorf("delete route %d: %w", routeID, err)
		}
		if err := affected(res, "delete route", routeID); err != nil {
			return err
		}
		for _, q := range []string{
			`DELETE FROM route_assignments WHERE route_id = ?`,
			`DELETE FROM consumption WHERE route_id = ?`,
		} {
			if _, err := s.exec(ctx, tx, q, routeID); err != nil {
				return fmt.Errorf("delete route %d: %w", routeID, err)
			}
		}
		return nil
	})
}

func affected(res sql.Result, op string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, world.ErrNotFound)
	}
	return nil
}

func (s *SQLStore) RecordFleetAdvice(ctx context.Context, a models.FleetAdvice) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO fleet_advice (airline_id, cycle, category, budget, aircraft_count) VALUES (?, ?, ?, ?, ?)`,
		a.AirlineID, a.Cycle, string(a.Category), a.Budget, a.Count)
	if err != nil {
		return fmt.Errorf("record fleet advice: %w", err)
	}
	return nil
}

// FleetAdvice returns recorded advice for one airline, oldest first.
func (s *SQLStore) FleetAdvice(ctx context.Context, airlineID int) ([]models.FleetAdvice, error) {
	rows, err := s.query(ctx, s.db, `SELECT airline_id, cycle, category, budget, aircraft_count
		FROM fleet_advice WHERE airline_id = ? ORDER BY cycle`, airlineID)
	if err != nil {
		return nil, fmt.Errorf("load fleet advice: %w", err)
	}
	defer rows.Close()
	var out []models.FleetAdvice
	for rows.Next() {
		var a models.FleetAdvice
		var cat string
		if err := rows.Scan(&a.AirlineID, &a.Cycle, &cat, &a.Budget, &a.Count); err != nil {
			return nil, fmt.Errorf("scan fleet advice: %w", err)
		}
		a.Category = models.AircraftCategory(cat)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutAirport(ctx context.Context, a models.Airport) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO airports (id, iata, name, city, size, population, country_code, income, runway_m, zone, lat, lon)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			iata = excluded.iata, name = excluded.name, city = excluded.city, size = excluded.size,
			population = excluded.population, country_code = excluded.country_code, income = excluded.income,
			runway_m = excluded.runway_m, zone = excluded.zone, lat = excluded.lat, lon = excluded.lon`,
		a.ID, a.IATA, a.Name, a.City, a.Size, a.Population, a.CountryCode, a.Income, a.RunwayLength, a.Zone, a.Latitude, a.Longitude)
	if err != nil {
		return fmt.Errorf("put airport %d: %w", a.ID, err)
	}
	return nil
}

func (s *SQLStore) PutAirline(ctx context.Context, a models.Airline) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO airlines (`+airlineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, balance = excluded.balance, reputation = excluded.reputation,
			service_quality = excluded.service_quality, category = excluded.category,
			country_code = excluded.country_code, is_bot = excluded.is_bot`,
		a.ID, a.Name, a.Balance, a.Reputation, a.ServiceQuality, a.Category, a.CountryCode, a.Bot)
	if err != nil {
		return fmt.Errorf("put airline %d: %w", a.ID, err)
	}
	return nil
}

func (s *SQLStore) PutBase(ctx context.Context, b models.Base) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO bases (airline_id, airport_id, scale, headquarter, founded_cycle)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (airline_id, airport_id) DO UPDATE SET
			scale = excluded.scale, headquarter = excluded.headquarter, founded_cycle = excluded.founded_cycle`,
		b.AirlineID, b.AirportID, b.Scale, b.Headquarter, b.FoundedCycle)
	if err != nil {
		return fmt.Errorf("put base %d@%d: %w", b.AirlineID, b.AirportID, err)
	}
	return nil
}

func (s *SQLStore) PutAircraftModel(ctx context.Context, m models.AircraftModel) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO aircraft_models (id, name, category, capacity, range_km, runway_requirement_m, speed_kmh, turnaround_min, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, category = excluded.category, capacity = excluded.capacity,
			range_km = excluded.range_km, runway_requirement_m = excluded.runway_requirement_m,
			speed_kmh = excluded.speed_kmh, turnaround_min = excluded.turnaround_min, price = excluded.price`,
		m.ID, m.Name, string(m.Category), m.Capacity, m.RangeKm, m.RunwayRequirement, m.SpeedKmh, m.TurnaroundMin, m.Price)
	if err != nil {
		return fmt.Errorf("put aircraft model %d: %w", m.ID, err)
	}
	return nil
}

// PutAircraft stores the airframe against Model.ID, falling back to ModelID.
func (s *SQLStore) PutAircraft(ctx context.Context, a models.Aircraft) error {
	modelID := a.Model.ID
	if modelID == 0 {
		modelID = a.ModelID
	}
	var n int
	if err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM aircraft_models WHERE id = ?`), modelID).Scan(&n); err != nil {
		return fmt.Errorf("put aircraft %d: %w", a.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("aircraft %d: model %d: %w", a.ID, modelID, world.ErrNotFound)
	}
	_, err := s.exec(ctx, s.db, `INSERT INTO aircraft (id, owner_id, model_id, home_airport_id, condition_pct, ready)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			owner_id = excluded.owner_id, model_id = excluded.model_id, home_airport_id = excluded.home_airport_id,
			condition_pct = excluded.condition_pct, ready = excluded.ready`,
		a.ID, a.OwnerID, modelID, a.HomeAirportID, a.Condition, a.Ready)
	if err != nil {
		return fmt.Errorf("put aircraft %d: %w", a.ID, err)
	}
	return nil
}

// PutRoute keeps the caller's id and moves the sequence past it.
func (s *SQLStore) PutRoute(ctx context.Context, r models.Route) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.insertRoute(ctx, tx, r); err != nil {
			return err
		}
		if _, err := s.exec(ctx, tx, `UPDATE id_sequences SET next_id = ? WHERE name = 'routes' AND next_id <= ?`, r.ID+1, r.ID); err != nil {
			return fmt.Errorf("advance route sequence past %d: %w", r.ID, err)
		}
		return nil
	})
}

func (s *SQLStore) PutConsumption(ctx context.Context, c models.ConsumptionRecord) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO consumption (route_id, cycle, sold_economy, sold_business, sold_first, revenue, profit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (route_id, cycle) DO UPDATE SET
			sold_economy = excluded.sold_economy, sold_business = excluded.sold_business, sold_first = excluded.sold_first,
			revenue = excluded.revenue, profit = excluded.profit`,
		c.RouteID, c.Cycle, c.SoldSeats.Economy, c.SoldSeats.Business, c.SoldSeats.First, c.Revenue, c.Profit)
	if err != nil {
		return fmt.Errorf("put consumption %d/%d: %w", c.RouteID, c.Cycle, err)
	}
	return nil
}

func (s *SQLStore) PutRelationship(ctx context.Context, countryA, countryB string, score int) error {
	p := models.NewCountryPair(countryA, countryB)
	_, err := s.exec(ctx, s.db, `INSERT INTO country_relationships (country_a, country_b, score) VALUES (?, ?, ?)
		ON CONFLICT (country_a, country_b) DO UPDATE SET score = excluded.score`, p.A, p.B, score)
	if err != nil {
		return fmt.Errorf("put relationship %s-%s: %w", p.A, p.B, err)
	}
	return nil
}
