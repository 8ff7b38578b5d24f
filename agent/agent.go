package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/nstehr/ordnance/config"
	"github.com/nstehr/ordnance/ipc"
	"github.com/nstehr/ordnance/metrics"
	"github.com/nstehr/ordnance/model"
	"github.com/nstehr/ordnance/optimizer"
)

// Agent owns one client session. Every search builds its own optimizer, so
// nothing carries over between requests.
type Agent struct {
	Conn    *ipc.Connection
	Client  string
	Metrics *metrics.Collector
}

func New(conn *ipc.Connection, m *metrics.Collector) *Agent {
	return &Agent{Conn: conn, Metrics: m}
}

// Serve runs a session on conn until the client hangs up.
func Serve(conn net.Conn, m *metrics.Collector) {
	c := ipc.NewConnection(conn, nil)
	a := New(c, m)
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeSearch, a.HandleSearch)
	c.ReadLoop()
}

// HandleHello completes the handshake so the client knows the service is ready.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}

	a.Client = hello.Client
	if a.Conn != nil {
		a.Conn.Client = hello.Client
	}
	slog.Info("client identified", "client", a.Client, "version", hello.Version)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleSearch runs one search and replies with the ranked designs, or with
// an error message when the request is invalid or the search aborts.
func (a *Agent) HandleSearch(env ipc.Envelope) (*ipc.Envelope, error) {
	// Absent fields keep the baseline values, so a client that never sends
	// max_engines still gets a single engine.
	req := ipc.SearchRequest{
		Technology:  model.DefaultTechnology(),
		Constraints: model.DefaultConstraints(),
	}
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return nil, fmt.Errorf("unmarshal search: %w", err)
	}

	start := time.Now()
	s, err := searchFromRequest(req)
	if err != nil {
		a.Metrics.ObserveSearch(metrics.OutcomeError, time.Since(start), optimizer.Counts{}, optimizer.Stats{})
		return errorReply(req.ID, err)
	}
	opt, key, err := s.Build()
	if err != nil {
		a.Metrics.ObserveSearch(metrics.OutcomeError, time.Since(start), optimizer.Counts{}, optimizer.Stats{})
		return errorReply(req.ID, err)
	}

	top, err := opt.TopCandidates(key, !s.Ascending, s.Top)
	elapsed := time.Since(start)
	counts := opt.CandidateCounts()
	if err != nil {
		outcome := metrics.OutcomeError
		var iv *optimizer.InvariantViolation
		if errors.As(err, &iv) {
			outcome = metrics.OutcomeInvariant
		}
		a.Metrics.ObserveSearch(outcome, elapsed, counts, opt.Stats())
		slog.Error("search aborted", "client", a.Client, "id", req.ID, "error", err)
		return errorReply(req.ID, err)
	}

	stats := opt.Stats()
	outcome := metrics.OutcomeOK
	if stats.Accepted == 0 {
		outcome = metrics.OutcomeEmpty
	}
	a.Metrics.ObserveSearch(outcome, elapsed, counts, stats)

	result := ipc.SearchResult{
		ID:        req.ID,
		Counts:    counts,
		Stats:     stats,
		Total:     stats.Accepted,
		Designs:   make([]ipc.DesignSummary, 0, len(top)),
		ElapsedMS: elapsed.Milliseconds(),
	}
	for _, m := range top {
		result.Designs = append(result.Designs, ipc.NewDesignSummary(m, s.Constraints.IntendedTargetSpeed))
	}
	slog.Info("search finished",
		"client", a.Client,
		"id", req.ID,
		"candidates", result.Total,
		"returned", len(result.Designs),
		"elapsed", elapsed,
	)

	reply, err := ipc.NewEnvelope(ipc.TypeSearchResult, result)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func searchFromRequest(req ipc.SearchRequest) (config.Search, error) {
	s := config.Default()
	s.Technology = req.Technology
	s.Constraints = req.Constraints
	if req.Model != nil {
		m, err := model.ParseModel(string(req.Model.Curve), string(req.Model.Ceiling))
		if err != nil {
			return config.Search{}, err
		}
		s.Model = m
	}
	if d := req.Discretization; d != nil {
		if d.EngineMSPs != nil {
			s.Discretization.EngineMSPs = d.EngineMSPs
		}
		if d.Multipliers != nil {
			s.Discretization.Multipliers = d.Multipliers
		}
	}
	s.Keys = req.Keys
	s.Ascending = req.Ascending
	s.Top = req.Top
	s.Where = req.Where
	return s, nil
}

func errorReply(id string, err error) (*ipc.Envelope, error) {
	msg := ipc.ErrorMessage{ID: id, Message: err.Error()}
	var iv *optimizer.InvariantViolation
	if errors.As(err, &iv) {
		msg.Invariant = &ipc.InvariantDetail{
			Field:    iv.Field,
			Observed: iv.Observed,
			Relation: iv.Relation,
			Bound:    iv.Bound,
		}
	}
	env, mErr := ipc.NewEnvelope(ipc.TypeError, msg)
	if mErr != nil {
		return nil, mErr
	}
	return &env, nil
}
