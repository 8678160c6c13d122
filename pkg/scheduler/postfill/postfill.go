// Package postfill 在主求解之后为未达目标的员工贪心补排 Z 班
package postfill

import (
	"sort"

	"github.com/paiban/schichtplan/pkg/model"
)

// DefaultMaxPerDay 每天最多 Z 班数
const DefaultMaxPerDay = 2

// Options 补排参数
type Options struct {
	MaxPerDay int
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{MaxPerDay: DefaultMaxPerDay}
}

// Shortfall 补排后仍未达到目标的员工
type Shortfall struct {
	Kennung string `json:"kennung"`
	Missing int    `json:"missing"`
}

// Summary 补排结果
type Summary struct {
	Placed int         `json:"placed"`
	Unmet  []Shortfall `json:"unmet,omitempty"`
}

// Filler Z 班补排器
type Filler struct {
	opts Options
}

// NewFiller 创建补排器
func NewFiller(opts Options) *Filler {
	if opts.MaxPerDay <= 0 {
		opts.MaxPerDay = DefaultMaxPerDay
	}
	return &Filler{opts: opts}
}

// Fill 在计划副本上补排 Z 班；目录中没有 Z 时原样返回副本
func (f *Filler) Fill(p *model.Problem, plan *model.Plan) (*model.Plan, Summary) {
	out := plan.Clone()
	var summary Summary
	if p.Catalog.Extra == nil {
		return out, summary
	}
	nightLike := p.Catalog.ExtraNightLike()

	// 按缺口降序，缺口相同保持名册顺序
	type candidate struct {
		e       int
		deficit int
	}
	var candidates []candidate
	for e, emp := range p.Employees {
		if emp.Prefs.NoExtraDuty || emp.Prefs.Category == model.CategoryLongSick {
			continue
		}
		deficit := emp.TargetShifts - out.Count(e, model.KindDay, model.KindNight)
		if deficit > 0 {
			candidates = append(candidates, candidate{e: e, deficit: deficit})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].deficit > candidates[j].deficit
	})

	for _, c := range candidates {
		remaining := c.deficit
		for remaining > 0 {
			d, ok := f.bestDay(p, out, c.e, nightLike)
			if !ok {
				break
			}
			out.Set(c.e, d, model.KindExtra)
			summary.Placed++
			remaining--
		}
		if remaining > 0 {
			summary.Unmet = append(summary.Unmet, Shortfall{Kennung: p.Employees[c.e].Kennung, Missing: remaining})
		}
	}
	return out, summary
}

// bestDay 合法日期中：愿意加班的日期优先，其次当天 Z 较少，再次日期较早
func (f *Filler) bestDay(p *model.Problem, plan *model.Plan, e int, nightLike bool) (int, bool) {
	emp := p.Employees[e]
	best, bestScore := -1, [2]int{}
	for _, day := range p.Horizon.Days {
		if !f.Legal(p, plan, e, day.Index, nightLike) {
			continue
		}
		preferred := 1
		if w, ok := emp.Wish(day.Index); ok && w.Kind == model.WishPreferExtra {
			preferred = 0
		}
		score := [2]int{preferred, plan.CountOn(day.Index, model.KindExtra)}
		if best < 0 || score[0] < bestScore[0] || (score[0] == bestScore[0] && score[1] < bestScore[1]) {
			best, bestScore = day.Index, score
		}
	}
	return best, best >= 0
}

// Legal 某员工某日能否补排 Z
func (f *Filler) Legal(p *model.Problem, plan *model.Plan, e, d int, nightLike bool) bool {
	emp := p.Employees[e]
	day := p.Horizon.Days[d]

	if plan.Get(e, d) != model.KindFree {
		return false
	}
	if !emp.AllowsExtra(day, nightLike) {
		return false
	}
	if plan.CountOn(d, model.KindExtra) >= f.opts.MaxPerDay {
		return false
	}

	prev := p.LastShift(emp.Kennung)
	if d > 0 {
		prev = plan.Get(e, d-1)
	}
	if prev == model.KindNight {
		return false
	}
	if nightLike && d+1 < p.Horizon.Len() && plan.Get(e, d+1) == model.KindDay {
		return false
	}

	if limit := emp.Prefs.MaxShifts; limit != nil {
		if plan.Count(e, model.KindDay, model.KindNight, model.KindExtra)+1 > *limit {
			return false
		}
	}
	if limit := emp.Prefs.MaxConsecutive; limit != nil {
		if runThrough(plan, e, d) > *limit {
			return false
		}
	}
	return true
}

// runThrough 假设第 d 天上班时包含 d 的连续工作天数
func runThrough(plan *model.Plan, e, d int) int {
	run := 1
	for i := d - 1; i >= 0 && plan.Get(e, i).IsWork(); i-- {
		run++
	}
	for i := d + 1; i < len(plan.Grid[e]) && plan.Get(e, i).IsWork(); i++ {
		run++
	}
	return run
}
