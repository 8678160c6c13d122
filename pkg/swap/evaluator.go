// Package swap 提供换班（Schichttausch）评估与推荐
package swap

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint/builtin"
	"github.com/paiban/schichtplan/pkg/stats"
	"github.com/paiban/schichtplan/pkg/validator"
)

// Type 换班方式
type Type string

const (
	TypeTakeOver Type = "take_over" // 对方接替班次
	TypeExchange Type = "exchange"  // 双方互换班次
)

// Request 换班请求：From 在 Date 的班次交给 To；
// ExchangeDate 非空时 To 在该日的班次交给 From
type Request struct {
	Date         string `json:"date"`
	From         string `json:"from"`
	To           string `json:"to"`
	ExchangeDate string `json:"exchange_date,omitempty"`
}

// Type 返回换班方式
func (r Request) Type() Type {
	if r.ExchangeDate != "" {
		return TypeExchange
	}
	return TypeTakeOver
}

// EmployeeImpact 单个员工受到的影响
type EmployeeImpact struct {
	Kennung              string          `json:"kennung"`
	HoursChange          decimal.Decimal `json:"hours_change"`
	WeekendChange        int             `json:"weekend_change"`
	DeviationBefore      int             `json:"deviation_before"`
	DeviationAfter       int             `json:"deviation_after"`
	WishViolationsChange int             `json:"wish_violations_change"`
}

// Evaluation 换班评估结果
type Evaluation struct {
	Request           Request              `json:"request"`
	Type              Type                 `json:"type"`
	Feasible          bool                 `json:"feasible"`
	Score             float64              `json:"score"` // 0-100
	Conflicts         []validator.Conflict `json:"conflicts"`
	From              EmployeeImpact       `json:"from"`
	To                EmployeeImpact       `json:"to"`
	WishPenaltyChange int64                `json:"wish_penalty_change"`
	Recommendation    string               `json:"recommendation"`

	plan *model.Plan
}

// Plan 换班后的计划
func (ev *Evaluation) Plan() *model.Plan {
	return ev.plan
}

// Evaluator 换班评估器
type Evaluator struct {
	weights  builtin.Weights
	detector *validator.ConflictDetector
}

// NewEvaluator 创建换班评估器，config 为 nil 时使用默认检测配置
func NewEvaluator(weights builtin.Weights, config *validator.DetectorConfig) *Evaluator {
	return &Evaluator{
		weights:  weights,
		detector: validator.NewConflictDetector(config),
	}
}

// resolved 请求解析后的下标
type resolved struct {
	from, to     int
	date, xdate  int
	kind, xkind  model.Kind
	exchangeMode bool
}

func employeeIndex(p *model.Problem, kennung string) (int, error) {
	for e, emp := range p.Employees {
		if emp.Kennung == kennung {
			return e, nil
		}
	}
	return 0, apperrors.NotFound("mitarbeiter", kennung)
}

func dayIndex(p *model.Problem, field, key string) (int, error) {
	d, ok := p.Horizon.IndexOf(key)
	if !ok {
		return 0, apperrors.InvalidInput(field, fmt.Sprintf("%s 不在计划周期内", key))
	}
	return d, nil
}

func (e *Evaluator) resolve(p *model.Problem, plan *model.Plan, req Request) (resolved, error) {
	var r resolved
	var err error
	if r.from, err = employeeIndex(p, req.From); err != nil {
		return r, err
	}
	if r.to, err = employeeIndex(p, req.To); err != nil {
		return r, err
	}
	if r.from == r.to {
		return r, apperrors.InvalidInput("to", "不能与自己换班")
	}
	if r.date, err = dayIndex(p, "date", req.Date); err != nil {
		return r, err
	}
	r.kind = plan.Get(r.from, r.date)
	if !r.kind.IsWork() {
		return r, apperrors.InvalidInput("date", fmt.Sprintf("%s 在 %s 没有班次", req.From, req.Date))
	}
	if plan.Get(r.to, r.date) != model.KindFree {
		return r, apperrors.InvalidInput("to", fmt.Sprintf("%s 在 %s 已有班次", req.To, req.Date))
	}

	if req.ExchangeDate == "" {
		return r, nil
	}
	r.exchangeMode = true
	if r.xdate, err = dayIndex(p, "exchange_date", req.ExchangeDate); err != nil {
		return r, err
	}
	if r.xdate == r.date {
		return r, apperrors.InvalidInput("exchange_date", "互换日期不能与原日期相同")
	}
	r.xkind = plan.Get(r.to, r.xdate)
	if !r.xkind.IsWork() {
		return r, apperrors.InvalidInput("exchange_date", fmt.Sprintf("%s 在 %s 没有班次", req.To, req.ExchangeDate))
	}
	if plan.Get(r.from, r.xdate) != model.KindFree {
		return r, apperrors.InvalidInput("exchange_date", fmt.Sprintf("%s 在 %s 已有班次", req.From, req.ExchangeDate))
	}
	return r, nil
}

// simulate 返回换班后的计划副本，每日覆盖人数不变
func (r resolved) simulate(plan *model.Plan) *model.Plan {
	sim := plan.Clone()
	sim.Set(r.from, r.date, model.KindFree)
	sim.Set(r.to, r.date, r.kind)
	if r.exchangeMode {
		sim.Set(r.to, r.xdate, model.KindFree)
		sim.Set(r.from, r.xdate, r.xkind)
	}
	return sim
}

// Evaluate 评估换班：只有换班后新出现的冲突才使其不可行
func (e *Evaluator) Evaluate(p *model.Problem, plan *model.Plan, req Request) (*Evaluation, error) {
	r, err := e.resolve(p, plan, req)
	if err != nil {
		return nil, err
	}
	sim := r.simulate(plan)

	result := &Evaluation{
		Request:   req,
		Type:      req.Type(),
		Conflicts: newConflicts(e.detector.DetectAll(p, plan), e.detector.DetectAll(p, sim)),
		plan:      sim,
	}
	result.Feasible = len(result.Conflicts) == 0

	before := stats.Compute(p, plan, e.weights)
	after := stats.Compute(p, sim, e.weights)
	result.From = impact(before.Employees[r.from], after.Employees[r.from])
	result.To = impact(before.Employees[r.to], after.Employees[r.to])
	result.WishPenaltyChange = after.WishPenalty - before.WishPenalty

	result.Score = score(result)
	result.Recommendation = recommendation(result)
	return result, nil
}

func conflictKey(c validator.Conflict) string {
	return string(c.Type) + "|" + c.Kennung + "|" + c.Date + "|" + c.Message
}

// newConflicts 只在 after 中出现的冲突
func newConflicts(before, after []validator.Conflict) []validator.Conflict {
	seen := make(map[string]int, len(before))
	for _, c := range before {
		seen[conflictKey(c)]++
	}
	fresh := []validator.Conflict{}
	for _, c := range after {
		k := conflictKey(c)
		if seen[k] > 0 {
			seen[k]--
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh
}

func impact(before, after stats.EmployeeStat) EmployeeImpact {
	return EmployeeImpact{
		Kennung:              before.Kennung,
		HoursChange:          after.Hours.Sub(before.Hours),
		WeekendChange:        after.Weekend - before.Weekend,
		DeviationBefore:      before.Deviation,
		DeviationAfter:       after.Deviation,
		WishViolationsChange: len(after.WishesViolated) - len(before.WishesViolated),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// score 100 分起：每多违反一个愿望扣 15 分，
// 目标偏差每远离一格扣 5 分、每接近一格加 5 分
func score(ev *Evaluation) float64 {
	if !ev.Feasible {
		return 0
	}
	s := 100.0
	for _, im := range []EmployeeImpact{ev.From, ev.To} {
		s -= 15 * float64(im.WishViolationsChange)
		s -= 5 * float64(abs(im.DeviationAfter)-abs(im.DeviationBefore))
	}
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return s
}

func recommendation(ev *Evaluation) string {
	switch {
	case !ev.Feasible:
		return "不建议进行此换班，存在硬性规则冲突"
	case ev.Score >= 90:
		return "推荐，换班对双方几乎没有影响"
	case ev.Score >= 70:
		return "可以进行，但会影响愿望或目标班次"
	case ev.Score >= 50:
		return "谨慎进行，明显偏离愿望或目标班次"
	default:
		return "不推荐，虽然可行但显著降低计划质量"
	}
}

// CanSwap 快速检查是否可换班
func (e *Evaluator) CanSwap(p *model.Problem, plan *model.Plan, req Request) (bool, string) {
	result, err := e.Evaluate(p, plan, req)
	if err != nil {
		return false, err.Error()
	}
	if !result.Feasible {
		return false, result.Conflicts[0].Message
	}
	return true, ""
}
