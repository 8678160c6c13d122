package swap

import (
	"fmt"
	"sort"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/model"
)

// Recommendation 换班推荐
type Recommendation struct {
	Rank       int         `json:"rank"`
	Evaluation *Evaluation `json:"evaluation"`
	Reason     string      `json:"reason"`
}

// RecommendOptions 推荐选项
type RecommendOptions struct {
	MaxResults    int      `json:"max_results"`
	AllowExchange bool     `json:"allow_exchange"`
	MinScore      float64  `json:"min_score"`
	Exclude       []string `json:"exclude,omitempty"` // 排除的员工编号
}

// DefaultRecommendOptions 返回默认选项
func DefaultRecommendOptions() RecommendOptions {
	return RecommendOptions{
		MaxResults:    5,
		AllowExchange: true,
		MinScore:      60,
	}
}

// Recommender 换班推荐器
type Recommender struct {
	evaluator *Evaluator
}

// NewRecommender 创建换班推荐器
func NewRecommender(e *Evaluator) *Recommender {
	return &Recommender{evaluator: e}
}

// Recommend 为 from 在 date 的班次寻找可行的接替或互换对象，按得分降序
func (r *Recommender) Recommend(p *model.Problem, plan *model.Plan, from, date string, opts RecommendOptions) ([]Recommendation, error) {
	f, err := employeeIndex(p, from)
	if err != nil {
		return nil, err
	}
	d, err := dayIndex(p, "date", date)
	if err != nil {
		return nil, err
	}
	if !plan.Get(f, d).IsWork() {
		return nil, apperrors.InvalidInput("date", fmt.Sprintf("%s 在 %s 没有班次", from, date))
	}

	exclude := make(map[string]bool, len(opts.Exclude))
	for _, k := range opts.Exclude {
		exclude[k] = true
	}

	var out []Recommendation
	consider := func(req Request) {
		ev, err := r.evaluator.Evaluate(p, plan, req)
		if err != nil || !ev.Feasible || ev.Score < opts.MinScore {
			return
		}
		out = append(out, Recommendation{Evaluation: ev, Reason: reason(ev)})
	}

	for t, emp := range p.Employees {
		if t == f || exclude[emp.Kennung] || plan.Get(t, d) != model.KindFree {
			continue
		}
		consider(Request{Date: date, From: from, To: emp.Kennung})
		if !opts.AllowExchange {
			continue
		}
		for _, day := range p.Horizon.Days {
			if day.Index == d || !plan.Get(t, day.Index).IsWork() || plan.Get(f, day.Index) != model.KindFree {
				continue
			}
			consider(Request{Date: date, From: from, To: emp.Kennung, ExchangeDate: day.Key})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Evaluation.Score > out[j].Evaluation.Score
	})
	if opts.MaxResults > 0 && len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// reason 生成推荐原因
func reason(ev *Evaluation) string {
	to := ev.To
	switch {
	case to.WishViolationsChange == 0 && abs(to.DeviationAfter) < abs(to.DeviationBefore):
		return "接替后更接近目标班次"
	case ev.Type == TypeExchange && to.DeviationAfter == to.DeviationBefore:
		return "互换班次，双方班次数不变"
	case to.WishViolationsChange == 0:
		return "不违反任何愿望"
	default:
		return "可行，但违反对方的愿望"
	}
}

// FindReplacement 为某员工某日的班次找到得分最高的接替者
func (r *Recommender) FindReplacement(p *model.Problem, plan *model.Plan, from, date string) (*Recommendation, error) {
	recs, err := r.Recommend(p, plan, from, date, RecommendOptions{MaxResults: 1, MinScore: 50})
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return &recs[0], nil
}
