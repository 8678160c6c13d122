// Package scheduler 生成月度排班计划
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/logger"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint/builtin"
	"github.com/paiban/schichtplan/pkg/scheduler/diagnostics"
	"github.com/paiban/schichtplan/pkg/scheduler/postfill"
	"github.com/paiban/schichtplan/pkg/scheduler/solver"
	"github.com/paiban/schichtplan/pkg/stats"
	"github.com/paiban/schichtplan/pkg/validator"
)

// Options 生成参数
type Options struct {
	Weights  builtin.Weights
	Solver   solver.Options
	PostFill postfill.Options
	// SkipPrecheck 为 true 时即使静态容量不足也调用求解器
	SkipPrecheck bool
	// DisabledRules 关闭的软约束；硬约束不能关闭
	DisabledRules []constraint.Type
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		Weights:  builtin.DefaultWeights(),
		Solver:   solver.DefaultOptions(),
		PostFill: postfill.DefaultOptions(),
	}
}

// Result 生成结果
type Result struct {
	ID          uuid.UUID          `json:"id"`
	Plan        *model.Plan        `json:"-"`
	Assignments []model.Assignment `json:"assignments"`
	Stats       *stats.Statistics  `json:"stats"`
	Status      solver.Status      `json:"status"`
	Objective   float64            `json:"objective"`
	BestBound   float64            `json:"best_bound"`
	Duration    time.Duration      `json:"duration"`
	PostFill    postfill.Summary   `json:"post_fill"`
	Warnings    []string           `json:"warnings,omitempty"`
	Diagnostic  string             `json:"diagnostic,omitempty"`
}

// Generator 排班生成器
type Generator struct {
	opts    Options
	manager *constraint.Manager
	solver  solver.Solver
	filler  *postfill.Filler
	logger  *logger.SchedulerLogger
}

// NewGenerator 创建生成器
func NewGenerator(opts Options) *Generator {
	if opts.PostFill.MaxPerDay <= 0 {
		opts.PostFill.MaxPerDay = postfill.DefaultMaxPerDay
	}
	manager := constraint.NewManager()
	builtin.RegisterDefaultConstraints(manager, opts.Weights)
	log := logger.NewSchedulerLogger()
	for _, t := range opts.DisabledRules {
		c := manager.GetConstraint(t)
		if c == nil || c.Category() == constraint.CategoryHard {
			log.RuleKept(string(t))
			continue
		}
		manager.Unregister(t)
	}
	return &Generator{
		opts:    opts,
		manager: manager,
		solver:  solver.NewCPSATSolver(opts.Solver),
		filler:  postfill.NewFiller(opts.PostFill),
		logger:  log,
	}
}

// WithSolver 替换求解器
func (g *Generator) WithSolver(s solver.Solver) *Generator {
	g.solver = s
	return g
}

// Rules 已注册的规则与权重
func (g *Generator) Rules() []constraint.Info {
	return g.manager.Describe()
}

// Weights 生效的权重
func (g *Generator) Weights() builtin.Weights {
	return g.opts.Weights
}

// Generate 为问题生成计划；无解时返回带诊断的 NO_FEASIBLE_SOLUTION 错误
func (g *Generator) Generate(ctx context.Context, p *model.Problem) (*Result, error) {
	start := time.Now()
	result := &Result{ID: uuid.New()}
	planID := result.ID.String()
	g.logger.StartSchedule(planID, len(p.Employees), p.Horizon.Len())

	if p.Horizon.Len() == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidTimeRange, "计划周期为空")
	}

	report := diagnostics.Analyze(p)
	if report.Infeasible() && !g.opts.SkipPrecheck {
		diag := report.Text()
		g.logger.Infeasible(planID, diag)
		return nil, apperrors.NoFeasibleSolution("静态容量不足，无法满足硬性规则", diag)
	}

	m := constraint.NewModel(p)
	if err := g.manager.PostAll(m); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "构建排班模型失败")
	}
	summary := g.manager.Summary()
	g.logger.ModelBuilt(planID, summary["hard"].(int), summary["soft"].(int), m.Variables())

	solved, err := g.solver.Solve(ctx, m)
	if err != nil {
		return nil, err
	}
	g.logger.SolverStatus(planID, string(solved.Status), solved.Objective, solved.BestBound, solved.WallTime)

	if !solved.Status.HasSolution() {
		diag := report.Text()
		g.logger.Infeasible(planID, diag)
		reason := "求解器证明无可行解"
		if solved.Status == solver.StatusUnknown {
			reason = "求解时间内未找到可行解"
		}
		return nil, apperrors.NoFeasibleSolution(reason, diag)
	}

	result.Status = solved.Status
	result.Objective = solved.Objective
	result.BestBound = solved.BestBound
	if solved.Status == solver.StatusFeasible {
		g.logger.Suboptimal(planID, solved.Objective, solved.BestBound)
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"未证明最优: 目标值 %.0f，最好下界 %.0f，间隙 %.2f%%",
			solved.Objective, solved.BestBound, solved.Gap()*100))
	}

	plan, fill := g.filler.Fill(p, solved.Plan)
	result.PostFill = fill
	g.logger.PostFill(planID, fill.Placed, len(fill.Unmet))
	for _, u := range fill.Unmet {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s 仍差 %d 个班次", u.Kennung, u.Missing))
	}

	detector := validator.NewConflictDetector(&validator.DetectorConfig{
		MaxExtraPerDay: g.opts.PostFill.MaxPerDay,
		CheckCoverage:  true,
		CheckGates:     true,
	})
	if conflicts := detector.DetectAll(p, plan); len(conflicts) > 0 {
		msg := validator.Summary(conflicts)
		g.logger.ConstraintViolation("计划校验", msg)
		return nil, apperrors.New(apperrors.CodeInternal, "生成的计划违反硬性规则").WithDetails(msg)
	}

	result.Plan = plan
	result.Assignments = plan.Assignments(p)
	result.Stats = stats.Compute(p, plan, g.opts.Weights)
	if v := result.Stats.Violations(); v > 0 {
		result.Diagnostic = fmt.Sprintf("%d 个愿望未满足，愿望惩罚 %d", v, result.Stats.WishPenalty)
	}
	result.Duration = time.Since(start)
	g.logger.ScheduleComplete(planID, result.Duration, result.Objective)
	return result, nil
}
