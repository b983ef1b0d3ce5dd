package handlers

import (
	"github.com/gin-gonic/gin"

	"costline/internal/core/apperror"
	"costline/internal/core/id"
	"costline/internal/domain/analytics"
	"costline/internal/domain/ledger"
	"costline/internal/domain/reports"
	"costline/internal/infrastructure/http/v1/dto"
	"costline/internal/infrastructure/storage/postgres"
)

// ReportsHandler serves the reconciliation and analytics reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
	runLog  *postgres.RunLog
}

// NewReportsHandler creates a new reports handler. runLog may be nil.
func NewReportsHandler(service *reports.Service, runLog *postgres.RunLog) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
		runLog:      runLog,
	}
}

// parseRequest converts query parameters into a report request.
func (h *ReportsHandler) parseRequest(c *gin.Context) (reports.Request, bool) {
	var q dto.ReportQuery
	if !h.BindQuery(c, &q) {
		return reports.Request{}, false
	}

	period, err := ledger.ParsePeriod(q.From, q.To)
	if err != nil {
		h.Error(c, err)
		return reports.Request{}, false
	}

	loc := ledger.AllLocations()
	if q.Location != "" && q.Location != "all" {
		locID, err := id.Parse(q.Location)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid location id").WithDetail("location", q.Location))
			return reports.Request{}, false
		}
		loc = ledger.AtLocation(locID)
	}

	return reports.Request{Period: period, Location: loc, Category: q.Category}, true
}

// Ledger returns the full reconciliation table.
// GET /api/v1/reports/ledger?from=&to=&location=&category=
func (h *ReportsHandler) Ledger(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	rep, err := h.service.Ledger(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rep)
}

// Variance returns book-vs-physical gaps for counted items.
// GET /api/v1/reports/variance
func (h *ReportsHandler) Variance(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	rep, err := h.service.Variance(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rep)
}

// ABC returns the Pareto classification.
// GET /api/v1/reports/abc
func (h *ReportsHandler) ABC(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	rep, err := h.service.ABC(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rep)
}

// Velocity returns the turnover classification.
// GET /api/v1/reports/velocity
func (h *ReportsHandler) Velocity(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	rep, err := h.service.Velocity(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rep)
}

// Audit returns grand totals and the discrepancy summary.
// GET /api/v1/reports/audit
func (h *ReportsHandler) Audit(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	rep, err := h.service.AuditSummary(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rep)
}

// Alerts evaluates the default rule set.
// GET /api/v1/reports/alerts
func (h *ReportsHandler) Alerts(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	rep, err := h.service.Alerts(c.Request.Context(), req, nil)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rep)
}

// EvaluateAlerts evaluates user-supplied rules.
// POST /api/v1/reports/alerts?from=&to=&location=
func (h *ReportsHandler) EvaluateAlerts(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	var body dto.AlertsRequest
	if !h.BindJSON(c, &body) {
		return
	}

	rules := make([]analytics.Rule, 0, len(body.Rules))
	for _, r := range body.Rules {
		rules = append(rules, analytics.Rule{Name: r.Name, Expression: r.Expression})
	}

	rep, err := h.service.Alerts(c.Request.Context(), req, rules)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rep)
}

// Runs returns the recent run log for one report kind.
// GET /api/v1/reports/runs?kind=&limit=
func (h *ReportsHandler) Runs(c *gin.Context) {
	if h.runLog == nil {
		h.Error(c, apperror.NewValidation("run log is not enabled"))
		return
	}

	var q dto.RunHistoryQuery
	if !h.BindQuery(c, &q) {
		return
	}

	entries, err := h.runLog.History(c.Request.Context(), q.Kind, q.Limit)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	h.OK(c, dto.NewListResponse(entries))
}
