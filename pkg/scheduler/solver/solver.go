// Package solver 调用 CP-SAT 求解排班模型
package solver

import (
	"context"
	"time"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// Solver 求解器接口
type Solver interface {
	// Solve 求解已写入约束与目标的模型
	Solve(ctx context.Context, m *constraint.Model) (*Result, error)

	// Name 返回求解器名称
	Name() string
}

// Status 求解状态
type Status string

const (
	StatusOptimal      Status = "OPTIMAL"
	StatusFeasible     Status = "FEASIBLE"
	StatusInfeasible   Status = "INFEASIBLE"
	StatusUnknown      Status = "UNKNOWN"
	StatusModelInvalid Status = "MODEL_INVALID"
)

// HasSolution 是否得到了可用的分配
func (s Status) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Result 求解结果
type Result struct {
	Status    Status        `json:"status"`
	Objective float64       `json:"objective"`
	BestBound float64       `json:"best_bound"`
	WallTime  time.Duration `json:"wall_time"`
	Plan      *model.Plan   `json:"-"` // 仅 T/N/休息，HasSolution 为 false 时为 nil
}

// Gap 相对最优间隙
func (r *Result) Gap() float64 {
	if r.Objective == r.BestBound {
		return 0
	}
	denom := r.Objective
	if denom < 0 {
		denom = -denom
	}
	if denom < 1 {
		denom = 1
	}
	diff := r.Objective - r.BestBound
	if diff < 0 {
		diff = -diff
	}
	return diff / denom
}
