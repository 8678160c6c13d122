// Package modeltest 提供测试用的排班问题构造工具
package modeltest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paiban/schichtplan/pkg/model"
)

// ShiftTypes T 07:00 12h、N 19:00 12h、Z 08:00 8h
func ShiftTypes() []model.ShiftType {
	return []model.ShiftType{
		{Code: "T", Name: "Tagdienst", Hours: decimal.NewFromInt(12), Start: model.TimeOfDay{Hour: 7}},
		{Code: "N", Name: "Nachtdienst", Hours: decimal.NewFromInt(12), Start: model.TimeOfDay{Hour: 19}},
		{Code: "Z", Name: "Zusatzdienst", Hours: decimal.NewFromInt(8), Start: model.TimeOfDay{Hour: 8}},
	}
}

// CorePrefs 核心团队、白班夜班皆可、计入两种覆盖
func CorePrefs() model.Preferences {
	return model.Preferences{
		CanDay:                 true,
		CanNight:               true,
		Category:               model.CategoryCore,
		Availability:           model.AvailabilityFull,
		CountsForDayCoverage:   true,
		CountsForNightCoverage: true,
		ShiftPattern:           model.PatternA,
		Priority:               model.PriorityNormal,
	}
}

// Employee 创建核心团队员工
func Employee(kennung string, targetShifts int) *model.PlannedEmployee {
	return &model.PlannedEmployee{
		ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte(kennung)),
		Kennung:      kennung,
		Name:         kennung,
		Prefs:        CorePrefs(),
		TargetHours:  decimal.NewFromInt(int64(targetShifts * 12)),
		TargetShifts: targetShifts,
		Wishes:       make(map[int]model.Wish),
	}
}

// Roster 创建 MA1..MAn
func Roster(n, targetShifts int) []*model.PlannedEmployee {
	emps := make([]*model.PlannedEmployee, n)
	for i := range emps {
		emps[i] = Employee(fmt.Sprintf("MA%d", i+1), targetShifts)
	}
	return emps
}

// AddWish 为员工在第 d 天加一个愿望
func AddWish(p *model.Problem, e *model.PlannedEmployee, d int, kind model.WishKind, approved bool) {
	e.Wishes[d] = model.Wish{Date: p.Horizon.Days[d].Key, Kind: kind, Approved: approved}
	e.WishCount = len(e.Wishes)
}

// Problem 从 start (YYYY-MM-DD) 起 days 天的问题
func Problem(start string, days int, emps ...*model.PlannedEmployee) *model.Problem {
	s, err := time.Parse(model.DateLayout, start)
	if err != nil {
		panic(err)
	}
	catalog, _ := model.NewCatalog(ShiftTypes())
	return &model.Problem{
		Horizon:    model.NewHorizon(s, s.AddDate(0, 0, days-1)),
		Employees:  emps,
		Catalog:    catalog,
		Coverage:   model.DefaultCoverage(),
		LastShifts: make(map[string]model.Kind),
	}
}
