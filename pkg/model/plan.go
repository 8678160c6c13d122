package model

import (
	"fmt"
)

// Plan 员工 × 日期 的班次网格
type Plan struct {
	Horizon Horizon  `json:"-"`
	Grid    [][]Kind `json:"grid"`
}

// NewPlan 创建全部休息的空计划
func NewPlan(p *Problem) *Plan {
	grid := make([][]Kind, len(p.Employees))
	for e := range grid {
		grid[e] = make([]Kind, p.Horizon.Len())
		for d := range grid[e] {
			grid[e][d] = KindFree
		}
	}
	return &Plan{Horizon: p.Horizon, Grid: grid}
}

// Get 获取某员工某日的班次
func (pl *Plan) Get(e, d int) Kind {
	if e < 0 || e >= len(pl.Grid) || d < 0 || d >= len(pl.Grid[e]) {
		return KindFree
	}
	return pl.Grid[e][d]
}

// Set 设置某员工某日的班次
func (pl *Plan) Set(e, d int, k Kind) {
	pl.Grid[e][d] = k
}

// Count 某员工的班次数
func (pl *Plan) Count(e int, kinds ...Kind) int {
	n := 0
	for _, k := range pl.Grid[e] {
		for _, want := range kinds {
			if k == want {
				n++
				break
			}
		}
	}
	return n
}

// CountOn 某日某种类的人数
func (pl *Plan) CountOn(d int, k Kind) int {
	n := 0
	for e := range pl.Grid {
		if pl.Grid[e][d] == k {
			n++
		}
	}
	return n
}

// Clone 深拷贝
func (pl *Plan) Clone() *Plan {
	grid := make([][]Kind, len(pl.Grid))
	for e := range pl.Grid {
		grid[e] = append([]Kind(nil), pl.Grid[e]...)
	}
	return &Plan{Horizon: pl.Horizon, Grid: grid}
}

// Assignments 按日期、再按名册顺序输出工作班次三元组
func (pl *Plan) Assignments(p *Problem) []Assignment {
	var out []Assignment
	for d, day := range pl.Horizon.Days {
		for e, emp := range p.Employees {
			k := pl.Grid[e][d]
			if !k.IsWork() {
				continue
			}
			out = append(out, Assignment{
				EmployeeID: emp.ID,
				Kennung:    emp.Kennung,
				Date:       day.Key,
				Kind:       k,
			})
		}
	}
	return out
}

// PlanFromAssignments 由三元组重建计划
func PlanFromAssignments(p *Problem, assignments []Assignment) (*Plan, error) {
	pl := NewPlan(p)
	byKennung := make(map[string]int, len(p.Employees))
	for i, e := range p.Employees {
		byKennung[e.Kennung] = i
	}

	for _, a := range assignments {
		e, ok := byKennung[a.Kennung]
		if !ok {
			return nil, fmt.Errorf("未知员工 %s", a.Kennung)
		}
		d, ok := p.Horizon.IndexOf(a.Date)
		if !ok {
			return nil, fmt.Errorf("日期 %s 不在计划周期内", a.Date)
		}
		if pl.Grid[e][d] != KindFree {
			return nil, fmt.Errorf("员工 %s 在 %s 有多个班次", a.Kennung, a.Date)
		}
		pl.Grid[e][d] = a.Kind
	}
	return pl, nil
}
