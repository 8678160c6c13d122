package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/paiban/schichtplan/internal/metrics"
	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/logger"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint/builtin"
	"github.com/paiban/schichtplan/pkg/scheduler/postfill"
	"github.com/paiban/schichtplan/pkg/scheduler/solver"
	"github.com/paiban/schichtplan/pkg/stats"
	"github.com/paiban/schichtplan/pkg/validator"
)

// PlanStore 保存生成结果
type PlanStore interface {
	Save(ctx context.Context, p *model.Problem, result *scheduler.Result) error
}

// Options 处理器配置
type Options struct {
	Defaults    Defaults
	Store       PlanStore // 为 nil 时忽略 save 请求
	Timeout     time.Duration
	MaxBodySize int64
}

// SchichtplanHandler 排班处理器
type SchichtplanHandler struct {
	generator *scheduler.Generator
	opts      Options
}

// NewSchichtplanHandler 创建排班处理器
func NewSchichtplanHandler(g *scheduler.Generator, opts Options) *SchichtplanHandler {
	return &SchichtplanHandler{generator: g, opts: opts}
}

// GenerateRequest 计划生成请求
type GenerateRequest struct {
	ProblemInput
	Save bool `json:"save,omitempty"`
}

// GenerateResponse 计划生成响应
type GenerateResponse struct {
	ID          string             `json:"id"`
	Status      solver.Status      `json:"status"`
	Objective   float64            `json:"objective"`
	BestBound   float64            `json:"best_bound"`
	Assignments []model.Assignment `json:"assignments"`
	Stats       *stats.Statistics  `json:"stats"`
	PostFill    postfill.Summary   `json:"post_fill"`
	Warnings    []string           `json:"warnings,omitempty"`
	Diagnostic  string             `json:"diagnostic,omitempty"`
	Duration    string             `json:"duration"`
	Saved       bool               `json:"saved"`
}

// Generate 生成计划
func (h *SchichtplanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decode(w, r, h.opts.MaxBodySize, &req); err != nil {
		respondError(w, err)
		return
	}

	ctx := r.Context()
	if h.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.Timeout)
		defer cancel()
	}

	p, err := req.problem(ctx, h.opts.Defaults)
	if err != nil {
		respondError(w, err)
		return
	}

	done := metrics.TrackActive()
	start := time.Now()
	result, err := h.generator.Generate(ctx, p)
	done()
	if err != nil {
		metrics.RecordGeneration(metrics.Generation{
			Status:   failureStatus(err),
			Duration: time.Since(start),
		}, false)
		respondError(w, err)
		return
	}
	metrics.RecordGeneration(generationMetrics(result), true)

	resp := GenerateResponse{
		ID:          result.ID.String(),
		Status:      result.Status,
		Objective:   result.Objective,
		BestBound:   result.BestBound,
		Assignments: result.Assignments,
		Stats:       result.Stats,
		PostFill:    result.PostFill,
		Warnings:    result.Warnings,
		Diagnostic:  result.Diagnostic,
		Duration:    result.Duration.String(),
	}
	if req.Save && h.opts.Store != nil {
		if err := h.opts.Store.Save(ctx, p, result); err != nil {
			respondError(w, apperrors.Wrap(err, apperrors.CodeDatabaseError, "保存计划失败"))
			return
		}
		resp.Saved = true
		logger.Info().Str("plan_id", resp.ID).Int("assignments", len(result.Assignments)).Msg("计划已保存")
	}

	respondJSON(w, http.StatusOK, resp)
}

// failureStatus 失败生成的指标标签
func failureStatus(err error) string {
	switch apperrors.GetCode(err) {
	case apperrors.CodeNoFeasibleSolution:
		return string(solver.StatusInfeasible)
	case apperrors.CodeTimeout:
		return "TIMEOUT"
	}
	return "ERROR"
}

func generationMetrics(result *scheduler.Result) metrics.Generation {
	g := metrics.Generation{
		Status:    string(result.Status),
		Duration:  result.Duration,
		Objective: result.Objective,
		Placed:    result.PostFill.Placed,
		Unmet:     len(result.PostFill.Unmet),
	}
	if result.Stats != nil {
		g.WishViolations = result.Stats.Violations()
		g.Gini = map[string]float64{
			"day":     result.Stats.Fairness.DayGini,
			"night":   result.Stats.Fairness.NightGini,
			"weekend": result.Stats.Fairness.WeekendGini,
		}
	}
	if result.Status == solver.StatusFeasible {
		g.Gap = (&solver.Result{Objective: result.Objective, BestBound: result.BestBound}).Gap()
	}
	return g
}

// ValidateRequest 计划校验请求
type ValidateRequest struct {
	ProblemInput
	Assignments []model.Assignment `json:"assignments"`
}

// ValidateResponse 计划校验响应
type ValidateResponse struct {
	Valid     bool                 `json:"valid"`
	Conflicts []validator.Conflict `json:"conflicts"`
	Summary   string               `json:"summary"`
	Stats     *stats.Statistics    `json:"stats,omitempty"`
	Coverage  string               `json:"coverage_report,omitempty"`
}

// Validate 校验给定的 (员工, 日期, 班次) 列表是否满足全部硬性规则
func (h *SchichtplanHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := decode(w, r, h.opts.MaxBodySize, &req); err != nil {
		respondError(w, err)
		return
	}

	p, plan, err := h.existingPlan(r.Context(), req.ProblemInput, req.Assignments)
	if err != nil {
		respondError(w, err)
		return
	}

	conflicts := validator.Check(p, plan)
	resp := ValidateResponse{
		Valid:     len(conflicts) == 0,
		Conflicts: conflicts,
		Summary:   validator.Summary(conflicts),
		Stats:     stats.Compute(p, plan, h.generator.Weights()),
	}
	if resp.Conflicts == nil {
		resp.Conflicts = []validator.Conflict{}
	}
	analyzer := stats.NewCoverageAnalyzer()
	resp.Coverage = analyzer.GenerateCoverageReport(analyzer.Analyze(p, plan))

	respondJSON(w, http.StatusOK, resp)
}

// RulesResponse 规则与权重
type RulesResponse struct {
	Rules   []constraint.Info `json:"rules"`
	Weights builtin.Weights   `json:"weights"`
}

// Rules 返回已注册的规则与生效权重
func (h *SchichtplanHandler) Rules(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, RulesResponse{
		Rules:   h.generator.Rules(),
		Weights: h.generator.Weights(),
	})
}
