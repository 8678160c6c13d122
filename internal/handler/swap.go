package handler

import (
	"context"
	"net/http"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/swap"
)

// SwapRequest 换班评估请求
type SwapRequest struct {
	ProblemInput
	Assignments []model.Assignment `json:"assignments"`
	Swap        swap.Request       `json:"swap"`
}

// SwapResponse 换班评估响应，Assignments 为换班后的班次
type SwapResponse struct {
	Evaluation  *swap.Evaluation   `json:"evaluation"`
	Assignments []model.Assignment `json:"assignments"`
}

// RecommendRequest 换班推荐请求
type RecommendRequest struct {
	ProblemInput
	Assignments []model.Assignment     `json:"assignments"`
	Kennung     string                 `json:"kennung"`
	Date        string                 `json:"date"`
	Options     *swap.RecommendOptions `json:"options,omitempty"`
}

// RecommendResponse 换班推荐响应
type RecommendResponse struct {
	Recommendations []swap.Recommendation `json:"recommendations"`
}

func (h *SchichtplanHandler) existingPlan(ctx context.Context, in ProblemInput, assignments []model.Assignment) (*model.Problem, *model.Plan, error) {
	p, err := in.problem(ctx, h.opts.Defaults)
	if err != nil {
		return nil, nil, err
	}
	plan, err := model.PlanFromAssignments(p, assignments)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, "班次列表无效")
	}
	return p, plan, nil
}

func (h *SchichtplanHandler) swapEvaluator() *swap.Evaluator {
	return swap.NewEvaluator(h.generator.Weights(), nil)
}

// Swap 评估一次接替或互换是否违反硬性规则及其对双方的影响
func (h *SchichtplanHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var req SwapRequest
	if err := decode(w, r, h.opts.MaxBodySize, &req); err != nil {
		respondError(w, err)
		return
	}
	p, plan, err := h.existingPlan(r.Context(), req.ProblemInput, req.Assignments)
	if err != nil {
		respondError(w, err)
		return
	}

	ev, err := h.swapEvaluator().Evaluate(p, plan, req.Swap)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SwapResponse{
		Evaluation:  ev,
		Assignments: ev.Plan().Assignments(p),
	})
}

// Recommend 为某员工某日的班次推荐接替或互换对象
func (h *SchichtplanHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decode(w, r, h.opts.MaxBodySize, &req); err != nil {
		respondError(w, err)
		return
	}
	p, plan, err := h.existingPlan(r.Context(), req.ProblemInput, req.Assignments)
	if err != nil {
		respondError(w, err)
		return
	}

	opts := swap.DefaultRecommendOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	recs, err := swap.NewRecommender(h.swapEvaluator()).Recommend(p, plan, req.Kennung, req.Date, opts)
	if err != nil {
		respondError(w, err)
		return
	}
	if recs == nil {
		recs = []swap.Recommendation{}
	}
	respondJSON(w, http.StatusOK, RecommendResponse{Recommendations: recs})
}
