package builtin

import (
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// HistoryKey 历史偏好键：员工、星期 (0=周一)、班次
type HistoryKey struct {
	Kennung string
	Weekday int
	Kind    model.Kind
}

// HistoryScores 统计计划开始前的历史班次；35 天内权重 3，90 天内 2，更早 1；Z 计作 T
func HistoryScores(p *model.Problem) map[HistoryKey]int {
	scores := make(map[HistoryKey]int)
	if p.Horizon.Len() == 0 {
		return scores
	}
	start := p.Horizon.Start()
	for _, h := range p.History {
		date, err := model.ParseDate(h.Date)
		if err != nil || !date.Before(start) {
			continue
		}
		kind := h.Kind
		switch kind {
		case model.KindExtra:
			kind = model.KindDay
		case model.KindDay, model.KindNight:
		default:
			continue
		}
		age := int(start.Sub(date).Hours() / 24)
		weight := 1
		switch {
		case age < 35:
			weight = 3
		case age < 90:
			weight = 2
		}
		scores[HistoryKey{Kennung: h.Kennung, Weekday: model.Weekday(date), Kind: kind}] += weight
	}
	return scores
}

// HistoryAffinityConstraint 按历史习惯奖励相同星期的相同班次
type HistoryAffinityConstraint struct {
	*BaseConstraint
	w Weights
}

// NewHistoryAffinityConstraint 创建历史偏好目标项
func NewHistoryAffinityConstraint(w Weights) *HistoryAffinityConstraint {
	return &HistoryAffinityConstraint{
		BaseConstraint: newSoft("历史习惯", constraint.TypeHistoryAffinity, w.History),
		w:              w,
	}
}

// Post 写入模型
func (c *HistoryAffinityConstraint) Post(m *constraint.Model) error {
	scores := HistoryScores(m.Problem)
	if len(scores) == 0 {
		return nil
	}
	for e, emp := range m.Problem.Employees {
		mult := c.w.HistoryMultiplier(emp.Prefs.Priority)
		for _, day := range m.Problem.Horizon.Days {
			for _, k := range regularKinds {
				score := scores[HistoryKey{Kennung: emp.Kennung, Weekday: day.Weekday, Kind: k}]
				if score == 0 {
					continue
				}
				m.Penalize(m.X(e, day.Index, k), -scale(int64(c.weight)*int64(score), mult))
			}
		}
	}
	return nil
}
