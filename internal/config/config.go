package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// BOTSIM_STORE_DRIVER or BOTSIM_TUNING_MAX_ROUTES_PER_CYCLE.
const EnvPrefix = "BOTSIM"

// Tuning holds the process-wide constants of the bot decision engine. It is
// loaded once and passed by value to every component.
type Tuning struct {
	RoutePlanningProbability       float64 `mapstructure:"route_planning_probability" yaml:"route_planning_probability"`
	AircraftPurchaseProbability    float64 `mapstructure:"aircraft_purchase_probability" yaml:"aircraft_purchase_probability"`
	RouteOptimizationProbability   float64 `mapstructure:"route_optimization_probability" yaml:"route_optimization_probability"`
	CompetitionResponseProbability float64 `mapstructure:"competition_response_probability" yaml:"competition_response_probability"`
	AbandonmentProbability         float64 `mapstructure:"abandonment_probability" yaml:"abandonment_probability"`

	MaxRoutesPerCycle            int `mapstructure:"max_routes_per_cycle" yaml:"max_routes_per_cycle"`
	MaxAircraftPurchasesPerCycle int `mapstructure:"max_aircraft_purchases_per_cycle" yaml:"max_aircraft_purchases_per_cycle"`
	CandidatePoolSize            int `mapstructure:"candidate_pool_size" yaml:"candidate_pool_size"`
	MaxWeeklyFrequency           int `mapstructure:"max_weekly_frequency" yaml:"max_weekly_frequency"`

	MinPriceMultiplier  float64 `mapstructure:"min_price_multiplier" yaml:"min_price_multiplier"`
	MaxPriceMultiplier  float64 `mapstructure:"max_price_multiplier" yaml:"max_price_multiplier"`
	PriceAdjustmentStep float64 `mapstructure:"price_adjustment_step" yaml:"price_adjustment_step"`

	UnprofitableCyclesThreshold int     `mapstructure:"unprofitable_cycles_threshold" yaml:"unprofitable_cycles_threshold"`
	MinLoadFactorThreshold      float64 `mapstructure:"min_load_factor_threshold" yaml:"min_load_factor_threshold"`

	ExpansionCashRatio float64 `mapstructure:"expansion_cash_ratio" yaml:"expansion_cash_ratio"`
	MinExpansionCash   float64 `mapstructure:"min_expansion_cash" yaml:"min_expansion_cash"`
	MinDemandThreshold float64 `mapstructure:"min_demand_threshold" yaml:"min_demand_threshold"`
	MinRouteDistance   int     `mapstructure:"min_route_distance_km" yaml:"min_route_distance_km"`
}

type StoreConfig struct {
	// Driver is "memory", "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	CycleInterval time.Duration `mapstructure:"cycle_interval"`
}

type Config struct {
	Tuning Tuning       `mapstructure:"tuning"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		RoutePlanningProbability:       0.20,
		AircraftPurchaseProbability:    0.20,
		RouteOptimizationProbability:   0.35,
		CompetitionResponseProbability: 0.30,
		AbandonmentProbability:         0.15,

		MaxRoutesPerCycle:            2,
		MaxAircraftPurchasesPerCycle: 3,
		CandidatePoolSize:            5,
		MaxWeeklyFrequency:           21,

		MinPriceMultiplier:  0.50,
		MaxPriceMultiplier:  1.80,
		PriceAdjustmentStep: 0.05,

		UnprofitableCyclesThreshold: 4,
		MinLoadFactorThreshold:      0.30,

		ExpansionCashRatio: 0.10,
		MinExpansionCash:   5_000_000,
		MinDemandThreshold: 50,
		MinRouteDistance:   150,
	}
}

func Default() Config {
	return Config{
		Tuning: DefaultTuning(),
		Store:  StoreConfig{Driver: "memory"},
		Log:    LogConfig{Level: "info", Format: "console"},
		Server: ServerConfig{Addr: ":4000", CycleInterval: 30 * time.Second},
	}
}

// Validate rejects tunings the engine cannot run with.
func (t Tuning) Validate() error {
	var errs []error
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"route_planning_probability", t.RoutePlanningProbability},
		{"aircraft_purchase_probability", t.AircraftPurchaseProbability},
		{"route_optimization_probability", t.RouteOptimizationProbability},
		{"competition_response_probability", t.CompetitionResponseProbability},
		{"abandonment_probability", t.AbandonmentProbability},
	} {
		if p.value < 0 || p.value > 1 {
			errs = append(errs, fmt.Errorf("%s must be between 0 and 1, got %.2f", p.name, p.value))
		}
	}
	if t.MinPriceMultiplier <= 0 || t.MinPriceMultiplier >= t.MaxPriceMultiplier {
		errs = append(errs, fmt.Errorf("price bounds must satisfy 0 < min < max, got [%.2f, %.2f]",
			t.MinPriceMultiplier, t.MaxPriceMultiplier))
	}
	if t.PriceAdjustmentStep <= 0 {
		errs = append(errs, fmt.Errorf("price_adjustment_step must be > 0, got %.3f", t.PriceAdjustmentStep))
	}
	if t.MaxRoutesPerCycle < 1 || t.MaxAircraftPurchasesPerCycle < 1 || t.CandidatePoolSize < 1 {
		errs = append(errs, errors.New("per-cycle caps and candidate pool size must be >= 1"))
	}
	if t.MaxWeeklyFrequency < 1 {
		errs = append(errs, fmt.Errorf("max_weekly_frequency must be >= 1, got %d", t.MaxWeeklyFrequency))
	}
	if t.UnprofitableCyclesThreshold < 1 {
		errs = append(errs, fmt.Errorf("unprofitable_cycles_threshold must be >= 1, got %d", t.UnprofitableCyclesThreshold))
	}
	if t.MinLoadFactorThreshold < 0 || t.MinLoadFactorThreshold > 1 {
		errs = append(errs, fmt.Errorf("min_load_factor_threshold must be between 0 and 1, got %.2f", t.MinLoadFactorThreshold))
	}
	if t.ExpansionCashRatio <= 0 || t.ExpansionCashRatio > 1 {
		errs = append(errs, fmt.Errorf("expansion_cash_ratio must be in (0, 1], got %.2f", t.ExpansionCashRatio))
	}
	return errors.Join(errs...)
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Tuning.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Store.Driver {
	case "memory":
	case "sqlite", "postgres":
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported store driver %q", c.Store.Driver))
	}
	if c.Server.CycleInterval <= 0 {
		errs = append(errs, fmt.Errorf("server.cycle_interval must be > 0, got %s", c.Server.CycleInterval))
	}
	return errors.Join(errs...)
}

// Load reads configuration from defaults, an optional YAML file and
// BOTSIM_* environment variables, in increasing order of precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	t := d.Tuning
	v.SetDefault("tuning.route_planning_probability", t.RoutePlanningProbability)
	v.SetDefault("tuning.aircraft_purchase_probability", t.AircraftPurchaseProbability)
	v.SetDefault("tuning.route_optimization_probability", t.RouteOptimizationProbability)
	v.SetDefault("tuning.competition_response_probability", t.CompetitionResponseProbability)
	v.SetDefault("tuning.abandonment_probability", t.AbandonmentProbability)
	v.SetDefault("tuning.max_routes_per_cycle", t.MaxRoutesPerCycle)
	v.SetDefault("tuning.max_aircraft_purchases_per_cycle", t.MaxAircraftPurchasesPerCycle)
	v.SetDefault("tuning.candidate_pool_size", t.CandidatePoolSize)
	v.SetDefault("tuning.max_weekly_frequency", t.MaxWeeklyFrequency)
	v.SetDefault("tuning.min_price_multiplier", t.MinPriceMultiplier)
	v.SetDefault("tuning.max_price_multiplier", t.MaxPriceMultiplier)
	v.SetDefault("tuning.price_adjustment_step", t.PriceAdjustmentStep)
	v.SetDefault("tuning.unprofitable_cycles_threshold", t.UnprofitableCyclesThreshold)
	v.SetDefault("tuning.min_load_factor_threshold", t.MinLoadFactorThreshold)
	v.SetDefault("tuning.expansion_cash_ratio", t.ExpansionCashRatio)
	v.SetDefault("tuning.min_expansion_cash", t.MinExpansionCash)
	v.SetDefault("tuning.min_demand_threshold", t.MinDemandThreshold)
	v.SetDefault("tuning.min_route_distance_km", t.MinRouteDistance)

	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.dsn", d.Store.DSN)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cycle_interval", d.Server.CycleInterval)
}
