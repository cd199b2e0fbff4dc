// Package game drives bot airlines through simulation cycles.
package game

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"airline_bots/internal/bot"
	"airline_bots/internal/personality"
	"airline_bots/internal/world"
)

// Rand is the source of the per-action Bernoulli draws. *rand.Rand
// satisfies it.
type Rand interface {
	Float64() float64
}

// Recorder receives cycle telemetry.
type Recorder interface {
	CycleCompleted(d time.Duration)
	ActionCompleted(action bot.Action, status string)
	RoutesCreated(p personality.Kind, n int)
	RoutesAbandoned(p personality.Kind, n int)
	PricesUpdated(source string, n int)
	BotFailed()
}

type nopRecorder struct{}

func (nopRecorder) CycleCompleted(time.Duration) {}
func (nopRecorder) ActionCompleted(bot.Action, string) {}
func (nopRecorder) RoutesCreated(personality.Kind, int) {}
func (nopRecorder) RoutesAbandoned(personality.Kind, int) {}
func (nopRecorder) PricesUpdated(string, int) {}
func (nopRecorder) BotFailed() {}

// Action statuses.
const (
	StatusPerformed = "performed"
	StatusNoop      = "noop"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
	StatusNotDrawn  = "not_drawn"
)

type ActionResult struct {
	Action  bot.Action  `json:"action"`
	Status  string      `json:"status"`
	Outcome bot.Outcome `json:"outcome"`
	Reason  string      `json:"reason,omitempty"`
}

// BotResult is one bot's cycle. Err is set when the bot faulted and
// performed no further actions.
type BotResult struct {
	AirlineID   int              `json:"airline_id"`
	Name        string           `json:"name"`
	Personality personality.Kind `json:"personality"`
	Actions     []ActionResult   `json:"actions"`
	Err         string           `json:"error,omitempty"`
}

func (b BotResult) OK() bool { return b.Err == "" }

type CycleReport struct {
	RunID     string        `json:"run_id"`
	Cycle     int           `json:"cycle"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Bots      []BotResult   `json:"bots"`
	Err       string        `json:"error,omitempty"`
}

// Failures counts bots that faulted.
func (r CycleReport) Failures() int {
	n := 0
	for _, b := range r.Bots {
		if !b.OK() {
			n++
		}
	}
	return n
}

// Mutations counts committed writes across all bots.
func (r CycleReport) Mutations() int {
	n := 0
	for _, b := range r.Bots {
		for _, a := range b.Actions {
			n += a.Outcome.Mutations()
		}
	}
	return n
}

type gate struct {
	action      bot.Action
	probability float64
	actor       bot.Actor
}

// Orchestrator runs the five gated actions for every bot, one bot at a time.
type Orchestrator struct {
	airlines world.AirlineReader
	rng      Rand
	log      *zap.Logger
	recorder Recorder
	gates    []gate
	cycle    int
}

type Option func(*Orchestrator)

func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithActor replaces the component behind one action.
func WithActor(action bot.Action, a bot.Actor) Option {
	return func(o *Orchestrator) {
		for i := range o.gates {
			if o.gates[i].action == action {
				o.gates[i].actor = a
			}
		}
	}
}

// WithStartCycle sets the number of the cycle already completed.
func WithStartCycle(n int) Option {
	return func(o *Orchestrator) { o.cycle = n }
}

func New(d bot.Deps, rng Rand, opts ...Option) *Orchestrator {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	t := d.Tuning
	o := &Orchestrator{
		airlines: d.Store,
		rng:      rng,
		log:      log,
		recorder: nopRecorder{},
		gates: []gate{
			{bot.ActionPlanning, t.RoutePlanningProbability, bot.NewPlanner(d)},
			{bot.ActionPurchase, t.AircraftPurchaseProbability, bot.NewFleetAdvisor(d)},
			{bot.ActionOptimize, t.RouteOptimizationProbability, bot.NewOptimizer(d)},
			{bot.ActionCompetition, t.CompetitionResponseProbability, bot.NewResponder(d)},
			{bot.ActionAbandon, t.AbandonmentProbability, bot.NewAbandoner(d)},
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Cycle is the number of the last cycle run.
func (o *Orchestrator) Cycle() int { return o.cycle }

// RunCycle processes every bot airline once. It never returns early for a
// single bot's fault.
func (o *Orchestrator) RunCycle(ctx context.Context) CycleReport {
	o.cycle++
	start := time.Now()
	report := CycleReport{RunID: uuid.NewString(), Cycle: o.cycle, StartedAt: start}
	log := o.log.With(zap.String("run_id", report.RunID), zap.Int("cycle", o.cycle))

	bots, err := o.airlines.LoadBotAirlines(ctx)
	if err != nil {
		report.Err = fmt.Sprintf("load bot airlines: %v", err)
		log.Error("cycle aborted", zap.Error(err))
		report.Duration = time.Since(start)
		o.recorder.CycleCompleted(report.Duration)
		return report
	}
	log.Info("cycle started", zap.Int("bots", len(bots)))

	for _, airline := range bots {
		profile := personality.Classify(airline)
		turn := bot.Turn{Cycle: o.cycle, Airline: airline, Profile: profile}
		res := o.runBot(ctx, log, turn)
		if !res.OK() {
			o.recorder.BotFailed()
		}
		report.Bots = append(report.Bots, res)
	}

	report.Duration = time.Since(start)
	o.recorder.CycleCompleted(report.Duration)
	log.Info("cycle finished",
		zap.Duration("duration", report.Duration),
		zap.Int("mutations", report.Mutations()),
		zap.Int("failures", report.Failures()),
	)
	return report
}

// runBot draws each gate in order. A fault stops the bot for this cycle;
// mutations already committed stay.
func (o *Orchestrator) runBot(ctx context.Context, log *zap.Logger, t bot.Turn) (res BotResult) {
	res = BotResult{AirlineID: t.Airline.ID, Name: t.Airline.Name, Personality: t.Profile.Kind}
	log = log.With(zap.Int("airline", t.Airline.ID), zap.Stringer("personality", t.Profile.Kind))
	log.Debug("personality assigned", zap.String("name", t.Airline.Name))

	var current bot.Action
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Sprintf("panic in %s: %v", current, r)
			res.Actions = append(res.Actions, ActionResult{Action: current, Status: StatusFailed, Reason: fmt.Sprintf("panic: %v", r)})
			o.recorder.ActionCompleted(current, StatusFailed)
			log.Error("bot panicked", zap.String("action", string(current)), zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
		}
	}()

	for _, g := range o.gates {
		current = g.action
		if o.rng.Float64() >= g.probability {
			res.Actions = append(res.Actions, ActionResult{Action: g.action, Status: StatusNotDrawn})
			continue
		}
		out, err := g.actor.Act(ctx, t)
		ar := ActionResult{Action: g.action, Outcome: out}
		switch {
		case err == nil && out.Mutations() > 0:
			ar.Status = StatusPerformed
		case err == nil:
			ar.Status = StatusNoop
		case bot.IsSkip(err):
			ar.Status = StatusSkipped
			ar.Reason = err.Error()
			log.Info("action skipped", zap.String("action", string(g.action)), zap.String("reason", ar.Reason))
		default:
			ar.Status = StatusFailed
			ar.Reason = err.Error()
		}
		o.record(t, ar)
		res.Actions = append(res.Actions, ar)
		if ar.Status == StatusFailed {
			res.Err = fmt.Sprintf("%s: %v", g.action, err)
			log.Error("bot action failed", zap.String("action", string(g.action)), zap.Error(err))
			return res
		}
	}
	return res
}

func (o *Orchestrator) record(t bot.Turn, ar ActionResult) {
	o.recorder.ActionCompleted(ar.Action, ar.Status)
	if n := len(ar.Outcome.Created); n > 0 {
		o.recorder.RoutesCreated(t.Profile.Kind, n)
	}
	if n := len(ar.Outcome.Abandoned); n > 0 {
		o.recorder.RoutesAbandoned(t.Profile.Kind, n)
	}
	if n := len(ar.Outcome.Repriced); n > 0 {
		o.recorder.PricesUpdated(string(ar.Action), n)
	}
}
