package solver

import (
	"context"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// DefaultTimeLimit 默认求解时间预算
const DefaultTimeLimit = 20 * time.Second

// Options CP-SAT 参数
type Options struct {
	TimeLimit          time.Duration
	Workers            int
	Seed               int
	LinearizationLevel int
	RelativeGap        float64
	LogSearch          bool
}

// DefaultOptions 单线程确定性搜索、20 秒、完全线性化
func DefaultOptions() Options {
	return Options{
		TimeLimit:          DefaultTimeLimit,
		Workers:            1,
		Seed:               0,
		LinearizationLevel: 2,
	}
}

// CPSATSolver CP-SAT 求解器
type CPSATSolver struct {
	opts Options
}

// NewCPSATSolver 创建 CP-SAT 求解器
func NewCPSATSolver(opts Options) *CPSATSolver {
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = DefaultTimeLimit
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &CPSATSolver{opts: opts}
}

// Name 返回求解器名称
func (s *CPSATSolver) Name() string {
	return "CP-SAT"
}

// timeLimit 取配置预算与 ctx 剩余时间中较小者
func (s *CPSATSolver) timeLimit(ctx context.Context) time.Duration {
	limit := s.opts.TimeLimit
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < limit {
			limit = remaining
		}
	}
	return limit
}

func (s *CPSATSolver) parameters(limit time.Duration) *sppb.SatParameters {
	params := &sppb.SatParameters{
		NumWorkers:         proto.Int32(int32(s.opts.Workers)),
		RandomSeed:         proto.Int32(int32(s.opts.Seed)),
		MaxTimeInSeconds:   proto.Float64(limit.Seconds()),
		LinearizationLevel: proto.Int32(int32(s.opts.LinearizationLevel)),
		LogSearchProgress:  proto.Bool(s.opts.LogSearch),
	}
	if s.opts.RelativeGap > 0 {
		params.RelativeGapLimit = proto.Float64(s.opts.RelativeGap)
	}
	return params
}

// Solve 求解；ctx 取消时求解器返回当前最好解
func (s *CPSATSolver) Solve(ctx context.Context, m *constraint.Model) (*Result, error) {
	limit := s.timeLimit(ctx)
	if limit <= 0 {
		return nil, apperrors.New(apperrors.CodeTimeout, "求解时间预算已耗尽")
	}

	pb, err := m.Builder.Model()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "构建 CP-SAT 模型失败")
	}

	interrupt := make(chan struct{})
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			close(interrupt)
		case <-done:
		}
	}()

	resp, err := cpmodel.SolveCpModelInterruptibleWithParameters(pb, s.parameters(limit), interrupt)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "CP-SAT 求解失败")
	}

	result := &Result{
		Status:    mapStatus(resp.GetStatus()),
		Objective: resp.GetObjectiveValue(),
		BestBound: resp.GetBestObjectiveBound(),
		WallTime:  time.Duration(resp.GetWallTime() * float64(time.Second)),
	}
	if result.Status == StatusModelInvalid {
		return nil, apperrors.New(apperrors.CodeInternal, "CP-SAT 模型无效: "+resp.GetSolutionInfo())
	}
	if result.Status.HasSolution() {
		result.Plan = extract(m, resp)
	}
	return result, nil
}

func mapStatus(st cmpb.CpSolverStatus) Status {
	switch st {
	case cmpb.CpSolverStatus_OPTIMAL:
		return StatusOptimal
	case cmpb.CpSolverStatus_FEASIBLE:
		return StatusFeasible
	case cmpb.CpSolverStatus_INFEASIBLE:
		return StatusInfeasible
	case cmpb.CpSolverStatus_MODEL_INVALID:
		return StatusModelInvalid
	}
	return StatusUnknown
}

// extract 从解中读出 T/N/休息网格
func extract(m *constraint.Model, resp *cmpb.CpSolverResponse) *model.Plan {
	plan := model.NewPlan(m.Problem)
	for e := range m.Problem.Employees {
		for d := 0; d < m.Problem.Horizon.Len(); d++ {
			switch {
			case cpmodel.SolutionBooleanValue(resp, m.X(e, d, model.KindDay)):
				plan.Set(e, d, model.KindDay)
			case cpmodel.SolutionBooleanValue(resp, m.X(e, d, model.KindNight)):
				plan.Set(e, d, model.KindNight)
			}
		}
	}
	return plan
}
