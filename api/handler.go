// Package api exposes the simulation engine over HTTP.
package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/compare"
	"github.com/inference-sim/schedsim/sim/trace"
)

// SimulateRequest is the body of POST /api/v1/simulate.
// Nil pointer fields fall back to the engine defaults.
type SimulateRequest struct {
	Policy        string            `json:"policy"`
	Horizon       *int64            `json:"horizon"`
	Quantum       *int64            `json:"quantum"`
	PriorityOrder string            `json:"priority_order"`
	Trace         bool              `json:"trace"`
	Processes     []sim.ProcessSpec `json:"processes"`
}

// SimulateResponse is the body returned by POST /api/v1/simulate.
type SimulateResponse struct {
	Report   *sim.Report         `json:"report"`
	Timeline []trace.Segment     `json:"timeline,omitempty"`
	Summary  *trace.TraceSummary `json:"summary,omitempty"`
}

// CompareRequest is the body of POST /api/v1/compare. An empty Policies list compares all.
type CompareRequest struct {
	SimulateRequest
	Policies []string `json:"policies"`
}

// CompareEntry is one ranked policy in a comparison response.
type CompareEntry struct {
	Policy  string              `json:"policy"`
	Rank    int                 `json:"rank"`
	Report  *sim.Report         `json:"report"`
	Summary *trace.TraceSummary `json:"summary"`
}

// Limits bounds the work a single request may ask for.
type Limits struct {
	MaxProcesses int
	MaxHorizon   int64
}

// SchedulerHandler serves simulation requests.
type SchedulerHandler struct {
	limits  Limits
	limiter *rate.Limiter
}

// NewSchedulerHandler creates a handler. A nil limiter disables rate limiting.
func NewSchedulerHandler(limits Limits, limiter *rate.Limiter) *SchedulerHandler {
	return &SchedulerHandler{limits: limits, limiter: limiter}
}

// NewApp builds the fiber application with all routes registered.
func NewApp(h *SchedulerHandler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	v1 := app.Group("/api/v1", h.RateLimit)
	v1.Get("/policies", h.Policies)
	v1.Post("/simulate", h.Simulate)
	v1.Post("/compare", h.Compare)
	return app
}

// RateLimit rejects requests beyond the configured rate with 429.
func (h *SchedulerHandler) RateLimit(c *fiber.Ctx) error {
	if h.limiter != nil && !h.limiter.Allow() {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
	}
	return c.Next()
}

// Policies lists the policy names and their titles.
func (h *SchedulerHandler) Policies(c *fiber.Ctx) error {
	out := make(map[string]string)
	for _, name := range sim.PolicyNames() {
		out[name] = sim.PolicyTitle(name)
	}
	return c.JSON(out)
}

// Simulate runs one policy and returns its report.
func (h *SchedulerHandler) Simulate(c *fiber.Ctx) error {
	var req SimulateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, fmt.Errorf("invalid request format: %w", err))
	}
	cfg, err := h.simConfig(&req)
	if err != nil {
		return respondError(c, err)
	}
	if req.Policy == "" {
		return badRequest(c, fmt.Errorf("%w: policy is required", sim.ErrUnknownPolicy))
	}
	name, err := sim.ResolvePolicyName(req.Policy)
	if err != nil {
		return respondError(c, err)
	}
	cfg.Policy = name
	if req.Trace {
		cfg.TraceLevel = trace.TraceLevelDecisions
	}

	s, err := sim.NewSimulator(cfg, req.Processes)
	if err != nil {
		return respondError(c, err)
	}
	s.Run()
	resp := SimulateResponse{Report: s.Report()}
	if s.Trace != nil {
		resp.Timeline = s.Trace.Segments()
		resp.Summary = trace.Summarize(s.Trace)
	}
	logrus.Debugf("served %s simulation of %d processes", name, len(req.Processes))
	return c.JSON(resp)
}

// Compare runs several policies on the same processes and returns them ranked.
func (h *SchedulerHandler) Compare(c *fiber.Ctx) error {
	var req CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, fmt.Errorf("invalid request format: %w", err))
	}
	cfg, err := h.simConfig(&req.SimulateRequest)
	if err != nil {
		return respondError(c, err)
	}
	results, err := compare.Run(c.UserContext(), req.Processes, cfg, compare.Options{Policies: req.Policies})
	if err != nil {
		return respondError(c, err)
	}
	entries := make([]CompareEntry, 0, len(results))
	for _, r := range compare.Ranked(results) {
		entries = append(entries, CompareEntry{Policy: r.Policy, Rank: r.Rank, Report: r.Report, Summary: r.Summary})
	}
	return c.JSON(entries)
}

// simConfig applies request overrides to the defaults and enforces the limits.
func (h *SchedulerHandler) simConfig(req *SimulateRequest) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	if req.Horizon != nil {
		cfg.Horizon = *req.Horizon
	}
	if req.Quantum != nil {
		cfg.Options.Quantum = *req.Quantum
	}
	if req.PriorityOrder != "" {
		cfg.Options.PriorityOrder = sim.PriorityOrder(req.PriorityOrder)
	}
	if len(req.Processes) == 0 {
		return cfg, fmt.Errorf("%w: no processes", sim.ErrMalformedInput)
	}
	if h.limits.MaxProcesses > 0 && len(req.Processes) > h.limits.MaxProcesses {
		return cfg, fmt.Errorf("%w: %d processes exceeds the limit of %d", sim.ErrInvalidConfig, len(req.Processes), h.limits.MaxProcesses)
	}
	if h.limits.MaxHorizon > 0 && cfg.Horizon > h.limits.MaxHorizon {
		return cfg, fmt.Errorf("%w: horizon %d exceeds the limit of %d", sim.ErrInvalidConfig, cfg.Horizon, h.limits.MaxHorizon)
	}
	return cfg, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// respondError maps engine errors to HTTP statuses: structural errors are the
// client's fault, anything else is ours.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, sim.ErrUnknownPolicy), errors.Is(err, sim.ErrMalformedInput), errors.Is(err, sim.ErrInvalidConfig):
		return badRequest(c, err)
	default:
		logrus.Errorf("simulation request failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "can not process request"})
	}
}
