package store

// schema is portable between SQLite and PostgreSQL: plain INTEGER keys
// assigned by the store, no dialect-specific column types. Route ids come
// from id_sequences and are never handed out twice.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS airports (
		id INTEGER PRIMARY KEY,
		iata TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL DEFAULT 0,
		population BIGINT NOT NULL DEFAULT 0,
		country_code TEXT NOT NULL DEFAULT '',
		income INTEGER NOT NULL DEFAULT 0,
		runway_m INTEGER NOT NULL DEFAULT 0,
		zone TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION NOT NULL DEFAULT 0,
		lon DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS airlines (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		balance DOUBLE PRECISION NOT NULL DEFAULT 0,
		reputation DOUBLE PRECISION NOT NULL DEFAULT 0,
		service_quality DOUBLE PRECISION NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT '',
		country_code TEXT NOT NULL DEFAULT '',
		is_bot BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS bases (
		airline_id INTEGER NOT NULL,
		airport_id INTEGER NOT NULL,
		scale INTEGER NOT NULL DEFAULT 0,
		headquarter BOOLEAN NOT NULL DEFAULT FALSE,
		founded_cycle INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (airline_id, airport_id)
	)`,
	`CREATE TABLE IF NOT EXISTS aircraft_models (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL DEFAULT 0,
		range_km INTEGER NOT NULL DEFAULT 0,
		runway_requirement_m INTEGER NOT NULL DEFAULT 0,
		speed_kmh INTEGER NOT NULL DEFAULT 0,
		turnaround_min INTEGER NOT NULL DEFAULT 0,
		price DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS aircraft (
		id INTEGER PRIMARY KEY,
		owner_id INTEGER NOT NULL,
		model_id INTEGER NOT NULL REFERENCES aircraft_models(id),
		home_airport_id INTEGER NOT NULL DEFAULT 0,
		condition_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
		ready BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS routes (
		id INTEGER PRIMARY KEY,
		airline_id INTEGER NOT NULL,
		from_airport_id INTEGER NOT NULL REFERENCES airports(id),
		to_airport_id INTEGER NOT NULL REFERENCES airports(id),
		distance_km INTEGER NOT NULL DEFAULT 0,
		price_economy DOUBLE PRECISION NOT NULL DEFAULT 0,
		price_business DOUBLE PRECISION NOT NULL DEFAULT 0,
		price_first DOUBLE PRECISION NOT NULL DEFAULT 0,
		capacity_economy INTEGER NOT NULL DEFAULT 0,
		capacity_business INTEGER NOT NULL DEFAULT 0,
		capacity_first INTEGER NOT NULL DEFAULT 0,
		frequency INTEGER NOT NULL DEFAULT 0,
		duration_min INTEGER NOT NULL DEFAULT 0,
		raw_quality INTEGER NOT NULL DEFAULT 0,
		flight_category TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS routes_airline_idx ON routes (airline_id)`,
	`CREATE INDEX IF NOT EXISTS routes_pair_idx ON routes (from_airport_id, to_airport_id)`,
	`CREATE TABLE IF NOT EXISTS id_sequences (
		name TEXT PRIMARY KEY,
		next_id INTEGER NOT NULL
	)`,
	// The WHERE clause keeps SQLite from reading ON CONFLICT as a join constraint.
	`INSERT INTO id_sequences (name, next_id)
		SELECT 'routes', COALESCE(MAX(id), 0) + 1 FROM routes WHERE TRUE
		ON CONFLICT (name) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS route_assignments (
		route_id INTEGER NOT NULL,
		aircraft_id INTEGER NOT NULL,
		frequency INTEGER NOT NULL,
		PRIMARY KEY (route_id, aircraft_id)
	)`,
	`CREATE TABLE IF NOT EXISTS consumption (
		route_id INTEGER NOT NULL,
		cycle INTEGER NOT NULL,
		sold_economy INTEGER NOT NULL DEFAULT 0,
		sold_business INTEGER NOT NULL DEFAULT 0,
		sold_first INTEGER NOT NULL DEFAULT 0,
		revenue DOUBLE PRECISION NOT NULL DEFAULT 0,
		profit DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (route_id, cycle)
	)`,
	`CREATE TABLE IF NOT EXISTS country_relationships (
		country_a TEXT NOT NULL,
		country_b TEXT NOT NULL,
		score INTEGER NOT NULL,
		PRIMARY KEY (country_a, country_b)
	)`,
	`CREATE TABLE IF NOT EXISTS fleet_advice (
		airline_id INTEGER NOT NULL,
		cycle INTEGER NOT NULL,
		category TEXT NOT NULL,
		budget DOUBLE PRECISION NOT NULL,
		aircraft_count INTEGER NOT NULL
	)`,
}
