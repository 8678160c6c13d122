package constraint

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/paiban/schichtplan/pkg/model"
)

// 决策变量的种类下标
const (
	slotDay = iota
	slotNight
	slotFree
	slotCount
)

// Model CP-SAT 模型：x[e,d,k] 对 k ∈ {T, N, Free} 的布尔变量与加权目标
type Model struct {
	Problem *model.Problem
	Builder *cpmodel.Builder

	x         [][][slotCount]cpmodel.BoolVar
	objective *cpmodel.LinearExpr
	terms     int
	auxVars   int
}

// NewModel 为问题创建决策变量
func NewModel(p *model.Problem) *Model {
	b := cpmodel.NewCpModelBuilder()
	m := &Model{
		Problem:   p,
		Builder:   b,
		x:         make([][][slotCount]cpmodel.BoolVar, len(p.Employees)),
		objective: cpmodel.NewLinearExpr(),
	}
	for e := range p.Employees {
		m.x[e] = make([][slotCount]cpmodel.BoolVar, p.Horizon.Len())
		for d := range m.x[e] {
			for s := 0; s < slotCount; s++ {
				m.x[e][d][s] = b.NewBoolVar()
			}
		}
	}
	return m
}

func slotOf(k model.Kind) int {
	switch k {
	case model.KindDay:
		return slotDay
	case model.KindNight:
		return slotNight
	}
	return slotFree
}

// X 决策变量 x[e,d,k]
func (m *Model) X(e, d int, k model.Kind) cpmodel.BoolVar {
	return m.x[e][d][slotOf(k)]
}

// Slots 某员工某日的 T/N/Free 三个变量
func (m *Model) Slots(e, d int) []cpmodel.BoolVar {
	s := m.x[e][d]
	return []cpmodel.BoolVar{s[slotDay], s[slotNight], s[slotFree]}
}

// Variables 决策变量与辅助变量总数
func (m *Model) Variables() int {
	return len(m.Problem.Employees)*m.Problem.Horizon.Len()*slotCount + m.auxVars
}

// Terms 目标项数量
func (m *Model) Terms() int {
	return m.terms
}

// Forbid 禁止某员工某日某种类
func (m *Model) Forbid(e, d int, k model.Kind) {
	m.Builder.AddEquality(m.X(e, d, k), cpmodel.NewConstant(0))
}

// Force 强制某员工某日为某种类
func (m *Model) Force(e, d int, k model.Kind) {
	m.Builder.AddEquality(m.X(e, d, k), cpmodel.NewConstant(1))
}

// Count 某员工在给定日期上某些种类的数量表达式
func (m *Model) Count(e int, days []int, kinds ...model.Kind) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for _, d := range days {
		for _, k := range kinds {
			expr.AddTerm(m.X(e, d, k), 1)
		}
	}
	return expr
}

// CountAll 某员工在整个周期内某些种类的数量表达式
func (m *Model) CountAll(e int, kinds ...model.Kind) *cpmodel.LinearExpr {
	return m.Count(e, m.AllDays(), kinds...)
}

// AllDays 全部日期下标
func (m *Model) AllDays() []int {
	days := make([]int, m.Problem.Horizon.Len())
	for i := range days {
		days[i] = i
	}
	return days
}

// AtMost expr ≤ n
func (m *Model) AtMost(expr cpmodel.LinearArgument, n int) {
	m.Builder.AddLessOrEqual(expr, cpmodel.NewConstant(int64(n)))
}

// AtLeast expr ≥ n
func (m *Model) AtLeast(expr cpmodel.LinearArgument, n int) {
	m.Builder.AddGreaterOrEqual(expr, cpmodel.NewConstant(int64(n)))
}

// Exactly expr = n
func (m *Model) Exactly(expr cpmodel.LinearArgument, n int) {
	m.Builder.AddEquality(expr, cpmodel.NewConstant(int64(n)))
}

// NewIntVar 新建 [0, ub] 的整数辅助变量
func (m *Model) NewIntVar(ub int) cpmodel.IntVar {
	m.auxVars++
	return m.Builder.NewIntVarFromDomain(cpmodel.NewDomain(0, int64(ub)))
}

// AbsDiff 返回 v ≥ |a - b| 的辅助变量，需以正权重进入目标
func (m *Model) AbsDiff(a, b *cpmodel.LinearExpr, ub int) cpmodel.IntVar {
	v := m.NewIntVar(ub)
	m.Builder.AddGreaterOrEqual(v, cpmodel.NewLinearExpr().AddTerm(a, 1).AddTerm(b, -1))
	m.Builder.AddGreaterOrEqual(v, cpmodel.NewLinearExpr().AddTerm(b, 1).AddTerm(a, -1))
	return v
}

// AbsDiffConst 返回 v ≥ |a - c|
func (m *Model) AbsDiffConst(a *cpmodel.LinearExpr, c, ub int) cpmodel.IntVar {
	return m.AbsDiff(a, cpmodel.NewConstant(int64(c)), ub)
}

// Excess 返回 v ≥ max(0, a - threshold)
func (m *Model) Excess(a *cpmodel.LinearExpr, threshold, ub int) cpmodel.IntVar {
	v := m.NewIntVar(ub)
	m.Builder.AddGreaterOrEqual(v, cpmodel.NewLinearExpr().AddTerm(a, 1).AddTerm(cpmodel.NewConstant(int64(threshold)), -1))
	return v
}

// Penalize 目标 += weight × arg（weight 为负时即奖励）
func (m *Model) Penalize(arg cpmodel.LinearArgument, weight int64) {
	if weight == 0 {
		return
	}
	m.objective.AddTerm(arg, weight)
	m.terms++
}

// Objective 加权目标表达式
func (m *Model) Objective() *cpmodel.LinearExpr {
	return m.objective
}

// Finalize 设置最小化目标
func (m *Model) Finalize() {
	m.Builder.Minimize(m.objective)
}
