// Package handler 提供HTTP请求处理器
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/logger"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/input"
	"github.com/paiban/schichtplan/pkg/scheduler/preference"
	"github.com/paiban/schichtplan/pkg/scheduler/target"
)

// ProblemInput 计划周期、名册与班次目录
type ProblemInput struct {
	StartDate     string                     `json:"start_date"`
	EndDate       string                     `json:"end_date"`
	Employees     []*model.Employee          `json:"employees"`
	ShiftTypes    []model.ShiftType          `json:"shift_types"`
	TargetHours   map[string]decimal.Decimal `json:"target_hours,omitempty"` // 按员工标识
	FallbackHours *decimal.Decimal           `json:"fallback_hours,omitempty"`
	Coverage      *model.Coverage            `json:"coverage,omitempty"`
	LastShifts    map[string]string          `json:"last_shifts,omitempty"` // 计划前一天的班次代码
	History       []model.HistoricShift      `json:"history,omitempty"`
}

// Defaults 请求未给出时使用的配置
type Defaults struct {
	Preferences   preference.Config
	FallbackHours *decimal.Decimal
	Coverage      model.Coverage
}

// problem 组装排班问题，输入错误在调用求解器之前返回
func (in ProblemInput) problem(ctx context.Context, d Defaults) (*model.Problem, error) {
	start, err := model.ParseDate(in.StartDate)
	if err != nil {
		return nil, apperrors.InvalidInput("start_date", "日期格式应为 YYYY-MM-DD")
	}
	end, err := model.ParseDate(in.EndDate)
	if err != nil {
		return nil, apperrors.InvalidInput("end_date", "日期格式应为 YYYY-MM-DD")
	}

	lastShifts := make(map[string]model.Kind, len(in.LastShifts))
	for kennung, code := range in.LastShifts {
		k, ok := model.ParseKind(code)
		if !ok {
			return nil, apperrors.InvalidInput("last_shifts", fmt.Sprintf("%s 的班次代码 %q 无效", kennung, code))
		}
		lastShifts[kennung] = k
	}

	fallback := d.FallbackHours
	if in.FallbackHours != nil {
		fallback = in.FallbackHours
	}
	coverage := d.Coverage
	if in.Coverage != nil {
		coverage = *in.Coverage
	}
	prefs := d.Preferences

	return input.Assemble(ctx, input.Request{
		Employees:     in.Employees,
		Start:         start,
		End:           end,
		ShiftTypes:    in.ShiftTypes,
		Targets:       target.StaticSource(in.TargetHours),
		FallbackHours: fallback,
		Coverage:      &coverage,
		LastShifts:    lastShifts,
		History:       in.History,
		Preferences:   &prefs,
	})
}

// decode 解析 JSON 请求体
func decode(w http.ResponseWriter, r *http.Request, limit int64, v interface{}) *apperrors.AppError {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败")
	}
	return nil
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn().Err(err).Msg("写入响应失败")
	}
}

// toAppError 非 AppError 视为内部错误
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(err, apperrors.CodeInternal, "内部错误")
}

// respondError 返回错误响应；无可行解时诊断文本放在 diagnostic 字段
func respondError(w http.ResponseWriter, err error) {
	appErr := toAppError(err)
	body := map[string]interface{}{
		"error":   true,
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Code == apperrors.CodeNoFeasibleSolution {
		body["diagnostic"] = appErr.Details
	} else if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error().Err(appErr).Msg("请求处理失败")
	}
	respondJSON(w, appErr.HTTPStatus, body)
}
