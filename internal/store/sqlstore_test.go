package store

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.uber.org/zap"

	"airline_bots/internal/bot"
	"airline_bots/internal/config"
	"airline_bots/internal/game"
	"airline_bots/internal/models"
	"airline_bots/internal/world"
)

// BOTSIM_TEST_POSTGRES_DSN enables the postgres run of the shared specs.
const postgresDSNEnv = "BOTSIM_TEST_POSTGRES_DSN"

func openSQLite() *SQLStore {
	path := filepath.Join(ginkgo.GinkgoT().TempDir(), "world.db")
	s, err := Open(context.Background(), DriverSQLite, path)
	gomega.Expect(err).To(gomega.Succeed())
	ginkgo.DeferCleanup(s.Close)
	return s
}

func openPostgres() *SQLStore {
	dsn := os.Getenv(postgresDSNEnv)
	if dsn == "" {
		ginkgo.Skip(postgresDSNEnv + " not set")
	}
	s, err := Open(context.Background(), DriverPostgres, dsn)
	gomega.Expect(err).To(gomega.Succeed())
	for _, table := range []string{"fleet_advice", "consumption", "route_assignments", "routes", "aircraft", "aircraft_models", "bases", "airlines", "airports", "country_relationships"} {
		_, err := s.db.Exec("DELETE FROM " + table)
		gomega.Expect(err).To(gomega.Succeed())
	}
	_, err = s.db.Exec("UPDATE id_sequences SET next_id = 1")
	gomega.Expect(err).To(gomega.Succeed())
	ginkgo.DeferCleanup(s.Close)
	return s
}

func seed(s *SQLStore) {
	f, err := world.LoadFixture("../world/testdata/world.yaml")
	gomega.Expect(err).To(gomega.Succeed())
	gomega.Expect(f.Seed(context.Background(), s)).To(gomega.Succeed())
}

var _ = ginkgo.Describe("SQLStore on sqlite", func() { storeSpecs(openSQLite) })

var _ = ginkgo.Describe("SQLStore on postgres", func() { storeSpecs(openPostgres) })

func storeSpecs(open func() *SQLStore) {
	var (
		s   *SQLStore
		ctx context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		s = open()
		seed(s)
	})

	ginkgo.It("loads seeded reference data", func() {
		bots, err := s.LoadBotAirlines(ctx)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(bots).To(gomega.HaveLen(1))
		gomega.Expect(bots[0].Name).To(gomega.Equal("Azur Bot"))
		gomega.Expect(bots[0].Bot).To(gomega.BeTrue())

		human, err := s.LoadAirline(ctx, 20)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(human.Bot).To(gomega.BeFalse())

		airports, err := s.LoadAirports(ctx)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(airports).To(gomega.HaveLen(3))
		gomega.Expect(airports[0].IATA).To(gomega.Equal("CDG"))
		gomega.Expect(airports[0].Population).To(gomega.BeEquivalentTo(11_000_000))
		gomega.Expect(airports[0].Latitude).To(gomega.BeNumerically("~", 49.0097, 1e-9))

		bases, err := s.LoadBases(ctx, 10)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(bases).To(gomega.ConsistOf(models.Base{AirlineID: 10, AirportID: 1, Scale: 3, Headquarter: true}))

		fleet, err := s.LoadAircraft(ctx, 10)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(fleet).To(gomega.HaveLen(1))
		gomega.Expect(fleet[0].Ready).To(gomega.BeTrue())
		gomega.Expect(fleet[0].Model.Capacity).To(gomega.Equal(180))
		gomega.Expect(fleet[0].Model.Category).To(gomega.Equal(models.AircraftMedium))

		rel, err := s.LoadCountryRelationships(ctx)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(rel).To(gomega.HaveKeyWithValue(models.NewCountryPair("GB", "FR"), 3))
	})

	ginkgo.It("returns history most recent first", func() {
		hist, err := s.LoadConsumption(ctx, 7, 1)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(hist).To(gomega.HaveLen(1))
		gomega.Expect(hist[0].Cycle).To(gomega.Equal(2))
		gomega.Expect(hist[0].SoldSeats.Business).To(gomega.Equal(210))

		all, err := s.LoadConsumption(ctx, 7, 0)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(all).To(gomega.HaveLen(2))
	})

	ginkgo.It("creates, reprices and deletes routes", func() {
		created, err := s.CreateRoute(ctx, models.Route{
			AirlineID: 10, FromAirportID: 1, ToAirportID: 3, Distance: 392,
			Price:       models.ClassPrices{Economy: 90, Business: 250, First: 700},
			Capacity:    models.SeatCounts{Economy: 160, Business: 16, First: 4},
			Frequency:   14,
			Assignments: map[int]int{100: 14},
		})
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(created.ID).To(gomega.Equal(8))

		gomega.Expect(s.UpdateRoute(ctx, models.Route{ID: created.ID, Price: models.ClassPrices{Economy: 95, Business: 260, First: 700}})).To(gomega.Succeed())
		routes, err := s.LoadRoutes(ctx, 10)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(routes).To(gomega.HaveLen(1))
		gomega.Expect(routes[0].Price.Economy).To(gomega.Equal(95.0))
		gomega.Expect(routes[0].Assignments).To(gomega.Equal(map[int]int{100: 14}))
		gomega.Expect(routes[0].Frequency).To(gomega.Equal(14))

		gomega.Expect(s.PutConsumption(ctx, models.ConsumptionRecord{RouteID: created.ID, Cycle: 3})).To(gomega.Succeed())
		gomega.Expect(s.DeleteRoute(ctx, created.ID)).To(gomega.Succeed())
		routes, err = s.LoadRoutes(ctx, 10)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(routes).To(gomega.BeEmpty())
		hist, err := s.LoadConsumption(ctx, created.ID, 0)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(hist).To(gomega.BeEmpty())
	})

	ginkgo.It("never reuses the id of a deleted route", func() {
		newRoute := models.Route{AirlineID: 10, FromAirportID: 1, ToAirportID: 3, Distance: 392}
		first, err := s.CreateRoute(ctx, newRoute)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(first.ID).To(gomega.Equal(8))
		gomega.Expect(s.DeleteRoute(ctx, first.ID)).To(gomega.Succeed())

		second, err := s.CreateRoute(ctx, newRoute)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(second.ID).To(gomega.Equal(9))

		gomega.Expect(s.PutRoute(ctx, models.Route{ID: 20, AirlineID: 10, FromAirportID: 2, ToAirportID: 3})).To(gomega.Succeed())
		third, err := s.CreateRoute(ctx, newRoute)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(third.ID).To(gomega.Equal(21))

		gomega.Expect(s.Migrate(ctx)).To(gomega.Succeed())
		fourth, err := s.CreateRoute(ctx, newRoute)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(fourth.ID).To(gomega.Equal(22))
	})

	ginkgo.It("finds routes in either direction", func() {
		routes, err := s.LoadRoutesByAirportPair(ctx, 1, 2)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(routes).To(gomega.HaveLen(1))
		gomega.Expect(routes[0].FromAirportID).To(gomega.Equal(2))
		gomega.Expect(routes[0].FlightCategory).To(gomega.Equal(models.RegionalFlight))
		gomega.Expect(routes[0].Assignments).To(gomega.BeNil())
	})

	ginkgo.It("reports missing rows as not found", func() {
		_, err := s.LoadAirline(ctx, 99)
		gomega.Expect(err).To(gomega.MatchError(world.ErrNotFound))
		gomega.Expect(s.UpdateRoute(ctx, models.Route{ID: 99})).To(gomega.MatchError(world.ErrNotFound))
		gomega.Expect(s.DeleteRoute(ctx, 99)).To(gomega.MatchError(world.ErrNotFound))
		_, err = s.CreateRoute(ctx, models.Route{AirlineID: 10, FromAirportID: 1, ToAirportID: 42})
		gomega.Expect(err).To(gomega.MatchError(world.ErrNotFound))
		gomega.Expect(s.PutAircraft(ctx, models.Aircraft{ID: 5, OwnerID: 10, ModelID: 77})).To(gomega.MatchError(world.ErrNotFound))
	})

	ginkgo.It("records fleet advice", func() {
		advice := models.FleetAdvice{AirlineID: 10, Cycle: 4, Category: models.AircraftLarge, Budget: 1.5e8, Count: 2}
		gomega.Expect(s.RecordFleetAdvice(ctx, advice)).To(gomega.Succeed())
		got, err := s.FleetAdvice(ctx, 10)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(got).To(gomega.Equal([]models.FleetAdvice{advice}))
	})

	ginkgo.It("migrates idempotently and upserts seeds", func() {
		gomega.Expect(s.Migrate(ctx)).To(gomega.Succeed())
		seed(s)
		airports, err := s.LoadAirports(ctx)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(airports).To(gomega.HaveLen(3))
	})

	ginkgo.It("serves a full bot cycle", func() {
		d := bot.Deps{Store: s, Calc: world.DefaultCalculator{}, Tuning: config.DefaultTuning(), Logger: zap.NewNop()}
		rep := game.New(d, rand.New(rand.NewSource(1))).RunCycle(ctx)
		gomega.Expect(rep.Err).To(gomega.BeEmpty())
		gomega.Expect(rep.Failures()).To(gomega.BeZero())
		gomega.Expect(rep.Bots).To(gomega.HaveLen(1))
	})
}

var _ = ginkgo.Describe("rebind", func() {
	ginkgo.It("numbers placeholders for postgres only", func() {
		pg := &SQLStore{driver: DriverPostgres}
		gomega.Expect(pg.rebind("a = ? AND b IN (?, ?)")).To(gomega.Equal("a = $1 AND b IN ($2, $3)"))
		lite := &SQLStore{driver: DriverSQLite}
		gomega.Expect(lite.rebind("a = ?")).To(gomega.Equal("a = ?"))
	})

	ginkgo.It("rejects unknown drivers", func() {
		_, err := Open(context.Background(), "mysql", "")
		gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("unsupported sql driver")))
	})
})
