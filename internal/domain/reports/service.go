package reports

import (
	"context"
	"fmt"
	"time"

	"costline/internal/domain/analytics"
	"costline/internal/domain/ledger"
	"costline/pkg/logger"
)

// Service executes report operations. It owns no state beyond its
// collaborators; every call recomputes from a fresh snapshot.
type Service struct {
	provider SnapshotProvider
	recorder RunRecorder
	engine   *ledger.Engine
	log      *logger.Logger
}

// NewService wires the facade. recorder may be nil.
func NewService(provider SnapshotProvider, recorder RunRecorder, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		recorder: recorder,
		engine:   ledger.NewEngine(),
		log:      log.WithComponent("reports"),
	}
}

// reconcile validates the request, loads a snapshot and runs the engine.
func (s *Service) reconcile(ctx context.Context, req Request) (*ledger.Result, error) {
	if err := req.Period.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.provider.Snapshot(ctx, req.Period, req.Location)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	return s.engine.Reconcile(snap, req.Period, req.Location, req.Category), nil
}

func (s *Service) record(ctx context.Context, kind string, req Request, rowCount int, started time.Time) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordRun(ctx, Run{
		Kind:     kind,
		Period:   req.Period.String(),
		Location: req.Location.String(),
		Category: req.Category,
		RowCount: rowCount,
		Millis:   time.Since(started).Milliseconds(),
	})
}

// Ledger produces the full reconciliation report.
func (s *Service) Ledger(ctx context.Context, req Request) (*LedgerReport, error) {
	started := time.Now()

	res, err := s.reconcile(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.Infow("ledger report computed",
		"period", req.Period.String(),
		"location", req.Location.String(),
		"rows", len(res.Rows))
	s.record(ctx, "ledger", req, len(res.Rows), started)

	return &LedgerReport{
		Period:     req.Period.String(),
		Location:   req.Location.String(),
		Rows:       res.Rows,
		Categories: res.Categories,
		Total:      res.Total,
	}, nil
}

// Variance reports book-vs-physical gaps for items counted in the period.
func (s *Service) Variance(ctx context.Context, req Request) (*VarianceReport, error) {
	started := time.Now()

	res, err := s.reconcile(ctx, req)
	if err != nil {
		return nil, err
	}

	rep := &VarianceReport{
		Period:   req.Period.String(),
		Location: req.Location.String(),
	}
	for _, r := range res.Rows {
		if !r.HasPhysicalCount {
			continue
		}
		rep.Rows = append(rep.Rows, VarianceRow{
			ItemID:        r.ItemID.String(),
			ItemName:      r.ItemName,
			Category:      r.Category,
			Unit:          r.Unit,
			ClosingBook:   r.ClosingBookQty,
			PhysicalQty:   r.PhysicalQty,
			VarianceQty:   r.VarianceQty,
			VarianceValue: r.VarianceValue,
			HasCount:      true,
		})
		rep.CountedRows++
		rep.TotalVarianceValue += r.VarianceValue
	}

	s.record(ctx, "variance", req, rep.CountedRows, started)
	return rep, nil
}

// ABC classifies items into Pareto value classes.
func (s *Service) ABC(ctx context.Context, req Request) (*ABCReport, error) {
	started := time.Now()

	res, err := s.reconcile(ctx, req)
	if err != nil {
		return nil, err
	}

	rows := analytics.ClassifyABC(analytics.RowsFromLedger(res.Rows))

	rep := &ABCReport{
		Period:   req.Period.String(),
		Location: req.Location.String(),
		Rows:     rows,
	}
	for _, r := range rows {
		rep.TotalUsage += r.UsageValue
	}

	s.record(ctx, "abc", req, len(rows), started)
	return rep, nil
}

// Velocity classifies items by turnover speed.
func (s *Service) Velocity(ctx context.Context, req Request) (*VelocityReport, error) {
	started := time.Now()

	res, err := s.reconcile(ctx, req)
	if err != nil {
		return nil, err
	}

	days := req.Period.DayCount()
	rows := analytics.ClassifyVelocity(analytics.RowsFromLedger(res.Rows), days)

	s.record(ctx, "velocity", req, len(rows), started)
	return &VelocityReport{
		Period:   req.Period.String(),
		Location: req.Location.String(),
		DayCount: days,
		Rows:     rows,
	}, nil
}

// AuditSummary rolls the ledger into grand totals and discrepancies.
func (s *Service) AuditSummary(ctx context.Context, req Request) (*AuditReport, error) {
	started := time.Now()

	res, err := s.reconcile(ctx, req)
	if err != nil {
		return nil, err
	}

	summary := analytics.Aggregate(res.Rows)

	s.log.Infow("audit summary computed",
		"period", req.Period.String(),
		"location", req.Location.String(),
		"discrepancies", summary.DiscrepancyCount)
	s.record(ctx, "audit", req, summary.RowCount, started)

	return &AuditReport{
		Period:   req.Period.String(),
		Location: req.Location.String(),
		Summary:  summary,
	}, nil
}

// Alerts evaluates rules over fully annotated rows. With no rules given
// the default set applies.
func (s *Service) Alerts(ctx context.Context, req Request, rules []analytics.Rule) (*AlertsReport, error) {
	started := time.Now()

	if len(rules) == 0 {
		rules = analytics.DefaultRules()
	}
	ruleSet, err := analytics.CompileRules(rules)
	if err != nil {
		return nil, err
	}

	res, err := s.reconcile(ctx, req)
	if err != nil {
		return nil, err
	}

	rows := analytics.ClassifyVelocity(
		analytics.ClassifyABC(analytics.RowsFromLedger(res.Rows)),
		req.Period.DayCount(),
	)
	alerts := ruleSet.Evaluate(rows)

	s.record(ctx, "alerts", req, len(alerts), started)
	return &AlertsReport{
		Period:   req.Period.String(),
		Location: req.Location.String(),
		Rules:    rules,
		Alerts:   alerts,
	}, nil
}
