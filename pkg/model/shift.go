package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind 单日排班种类
type Kind string

const (
	KindDay   Kind = "T" // 白班 (Tagdienst)
	KindNight Kind = "N" // 夜班 (Nachtdienst)
	KindExtra Kind = "Z" // 补班 (Zusatzdienst)
	KindFree  Kind = "F" // 休息
)

// IsWork 是否为工作班次
func (k Kind) IsWork() bool {
	return k == KindDay || k == KindNight || k == KindExtra
}

// IsRegular 是否为求解器排出的常规班次 (T/N)
func (k Kind) IsRegular() bool {
	return k == KindDay || k == KindNight
}

// ParseKind 解析班次代码，Z1/Z2 等变体归为 Z
func ParseKind(code string) (Kind, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	switch {
	case c == "T":
		return KindDay, true
	case c == "N":
		return KindNight, true
	case strings.HasPrefix(c, "Z"):
		return KindExtra, true
	case c == "F", c == "":
		return KindFree, true
	}
	return KindFree, false
}

// TimeOfDay 一天中的时刻
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay 解析 HH:MM 或 HH:MM:SS
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("无效时刻: %q", s)
}

// String 返回 HH:MM
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes 返回自零点起的分钟数
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// MarshalText 实现 encoding.TextMarshaler
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ShiftType 班次类型目录条目
type ShiftType struct {
	Code  string          `json:"code"`
	Name  string          `json:"name,omitempty"`
	Hours decimal.Decimal `json:"hours"`
	Start TimeOfDay       `json:"start"`
}

// NightLike 开始时间在 18:00 之后或 06:00 之前视为夜间性质
func (s ShiftType) NightLike() bool {
	return s.Start.Hour >= 18 || s.Start.Hour < 6
}

// Catalog 本次生成使用的班次类型
type Catalog struct {
	Day   *ShiftType `json:"T"`
	Night *ShiftType `json:"N"`
	Extra *ShiftType `json:"Z,omitempty"`
}

// NewCatalog 从班次类型列表构建目录，返回缺失的必需代码
func NewCatalog(types []ShiftType) (Catalog, []string) {
	var c Catalog
	for i := range types {
		st := types[i]
		k, ok := ParseKind(st.Code)
		if !ok {
			continue
		}
		switch k {
		case KindDay:
			c.Day = &st
		case KindNight:
			c.Night = &st
		case KindExtra:
			if c.Extra == nil {
				c.Extra = &st
			}
		}
	}

	var missing []string
	if c.Day == nil {
		missing = append(missing, string(KindDay))
	}
	if c.Night == nil {
		missing = append(missing, string(KindNight))
	}
	return c, missing
}

// Get 获取某种类的班次类型
func (c Catalog) Get(k Kind) *ShiftType {
	switch k {
	case KindDay:
		return c.Day
	case KindNight:
		return c.Night
	case KindExtra:
		return c.Extra
	}
	return nil
}

// AverageHours 白班与夜班工时的平均值
func (c Catalog) AverageHours() decimal.Decimal {
	if c.Day == nil || c.Night == nil {
		return decimal.Zero
	}
	return c.Day.Hours.Add(c.Night.Hours).Div(decimal.NewFromInt(2))
}

// Code 某种类在目录中的实际代码（如 Z1），缺失时返回种类本身
func (c Catalog) Code(k Kind) string {
	if st := c.Get(k); st != nil {
		return st.Code
	}
	return string(k)
}

// ExtraNightLike 补班是否为夜间性质
func (c Catalog) ExtraNightLike() bool {
	return c.Extra != nil && c.Extra.NightLike()
}

// Assignment 排班分配三元组
type Assignment struct {
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`
	Kennung    string    `json:"kennung" db:"kennung"`
	Date       string    `json:"date" db:"date"`
	Kind       Kind      `json:"kind" db:"kind"`
}

// Schichtplan 持久化的月度排班计划
type Schichtplan struct {
	BaseModel
	StartDate   string       `json:"start_date" db:"start_datum"`
	EndDate     string       `json:"end_date" db:"end_datum"`
	Status      string       `json:"status" db:"status"` // 求解状态
	Objective   float64      `json:"objective" db:"objective"`
	BestBound   float64      `json:"best_bound" db:"best_bound"`
	Warnings    []string     `json:"warnings,omitempty" db:"warnings"`
	Assignments []Assignment `json:"assignments,omitempty" db:"-"`
}
