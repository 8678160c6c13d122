// Package preference 将原始员工偏好规范化为类型化的偏好
package preference

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/model"
)

// 每个字段接受的键（英文键在前，德语原始字段名作为别名）
var aliases = map[string][]string{
	"can_day":                   {"can_day", "kann_tagschicht"},
	"can_night":                 {"can_night", "kann_nachtschicht"},
	"category":                  {"category", "kategorie"},
	"availability":              {"availability", "verfuegbarkeit"},
	"counts_for_day_coverage":   {"counts_for_day_coverage", "zaehlt_zur_tagbesetzung"},
	"counts_for_night_coverage": {"counts_for_night_coverage", "zaehlt_zur_nachtbesetzung"},
	"fixed_day_weekdays":        {"fixed_day_weekdays", "fixe_tag_wochentage"},
	"allowed_weekdays":          {"allowed_weekdays", "erlaubte_wochentage"},
	"night_only_weekend":        {"night_only_weekend", "nachtschicht_nur_wochenende"},
	"weekday_only_extras":       {"weekday_only_extras", "nur_zusatzdienste_wochentags"},
	"max_weekends":              {"max_weekends", "max_wochenenden_pro_monat"},
	"max_shifts":                {"max_shifts", "max_shifts_per_month", "max_schichten_pro_monat"},
	"max_consecutive":           {"max_consecutive", "max_consecutive_days", "max_aufeinanderfolgende_tage"},
	"weekend_night_block":       {"weekend_night_block", "wochenend_nachtdienst_block"},
	"no_extra_duty":             {"no_extra_duty", "keine_zusatzdienste"},
	"shift_type":                {"shift_type", "schicht_typ"},
	"min_day":                   {"min_day", "min_tagschichten_pro_monat"},
	"min_night":                 {"min_night", "min_nachtschichten_pro_monat"},
	"target_day":                {"target_day", "target_tagschichten_pro_monat"},
	"target_night":              {"target_night", "target_nachtschichten_pro_monat"},
	"priority":                  {"priority", "planungs_prioritaet"},
	"day_only_weekday":          {"day_only_weekday", "nur_tagdienst_wochentags"},
	"weekend_nights_only":       {"weekend_nights_only", "wochenende_nur_nacht"},
	"min_weekend_nights":        {"min_weekend_nights", "min_wochenend_naechte"},
	"weekend_night_target":      {"weekend_night_target", "ziel_wochenend_naechte"},
}

// Config 规范化配置
type Config struct {
	// LegacyPolicies 为 MA6/MA7 补充历史策略标志（仅当原始偏好未显式设置时）
	LegacyPolicies        bool `yaml:"legacy_policies"`
	TypeBMinDay           int  `yaml:"type_b_min_day"`
	TypeBMinNight         int  `yaml:"type_b_min_night"`
	DefaultMaxWeekends    int  `yaml:"default_max_weekends"`
	DefaultMaxConsecutive int  `yaml:"default_max_consecutive"`
	WeekendNightTarget    int  `yaml:"weekend_night_target"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		LegacyPolicies:        true,
		TypeBMinDay:           4,
		TypeBMinNight:         4,
		DefaultMaxWeekends:    4,
		DefaultMaxConsecutive: 5,
		WeekendNightTarget:    4,
	}
}

// Normalizer 偏好规范化器
type Normalizer struct {
	cfg Config
}

// NewNormalizer 创建规范化器
func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize 使用默认配置规范化
func Normalize(kennung string, raw model.RawPreferences) model.Preferences {
	return NewNormalizer(DefaultConfig()).Normalize(kennung, raw)
}

// ParseRaw 解析 JSON/JSONB 偏好；二次编码的字符串会再解一次，失败时返回空偏好
func ParseRaw(data []byte) model.RawPreferences {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return model.RawPreferences{}
	}
	if s, ok := v.(string); ok {
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return model.RawPreferences{}
		}
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return model.RawPreferences{}
	}
	return model.RawPreferences(m)
}

// lookup 按别名查找原始值，null 视为缺失
func lookup(raw model.RawPreferences, field string) (interface{}, bool) {
	for _, key := range aliases[field] {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (n *Normalizer) boolField(raw model.RawPreferences, field string, def bool) (bool, bool) {
	v, ok := lookup(raw, field)
	if !ok {
		return def, false
	}
	b, ok := toBool(v)
	if !ok {
		return def, false
	}
	return b, true
}

func (n *Normalizer) intField(raw model.RawPreferences, field string) *int {
	v, ok := lookup(raw, field)
	if !ok {
		return nil
	}
	i, ok := toInt(v)
	if !ok || i < 0 {
		return nil
	}
	return &i
}

func (n *Normalizer) weekdaysField(raw model.RawPreferences, field string) ([]int, bool) {
	v, ok := lookup(raw, field)
	if !ok {
		return nil, false
	}
	return toWeekdays(v)
}

// Normalize 规范化原始偏好，未知值回退到默认值，从不失败
func (n *Normalizer) Normalize(kennung string, raw model.RawPreferences) model.Preferences {
	if raw == nil {
		raw = model.RawPreferences{}
	}

	p := model.Preferences{
		Category:     parseCategory(raw),
		Availability: parseAvailability(raw),
		ShiftPattern: parsePattern(raw),
		Priority:     parsePriority(raw),
	}
	if a, ok := lookup(raw, "availability"); ok && strings.EqualFold(toString(a), "dauerkrank") {
		p.Category = model.CategoryLongSick
	}

	p.CanDay, _ = n.boolField(raw, "can_day", true)
	p.CanNight, _ = n.boolField(raw, "can_night", true)

	dayDefault, nightDefault := coverageDefaults(p.Category)
	p.CountsForDayCoverage, _ = n.boolField(raw, "counts_for_day_coverage", dayDefault)
	p.CountsForNightCoverage, _ = n.boolField(raw, "counts_for_night_coverage", nightDefault)
	if p.Category == model.CategoryExtra || p.Category == model.CategoryLongSick {
		p.CountsForDayCoverage = false
		p.CountsForNightCoverage = false
	}

	if wds, ok := n.weekdaysField(raw, "fixed_day_weekdays"); ok {
		p.FixedDayWeekdays = wds
	}
	if wds, ok := n.weekdaysField(raw, "allowed_weekdays"); ok && len(wds) > 0 {
		p.AllowedWeekdays = wds
	}

	p.NightOnlyWeekend, _ = n.boolField(raw, "night_only_weekend", false)
	p.WeekdayOnlyExtras, _ = n.boolField(raw, "weekday_only_extras", false)
	p.WeekendNightBlock, _ = n.boolField(raw, "weekend_night_block", false)
	p.NoExtraDuty, _ = n.boolField(raw, "no_extra_duty", false)
	p.DayOnlyWeekday, _ = n.boolField(raw, "day_only_weekday", false)
	p.WeekendNightsOnly, _ = n.boolField(raw, "weekend_nights_only", false)

	p.MaxWeekends = n.intField(raw, "max_weekends")
	if p.MaxWeekends == nil {
		p.MaxWeekends = model.IntPtr(n.cfg.DefaultMaxWeekends)
	}
	p.MaxConsecutive = n.intField(raw, "max_consecutive")
	if p.MaxConsecutive == nil || *p.MaxConsecutive == 0 {
		p.MaxConsecutive = model.IntPtr(n.cfg.DefaultMaxConsecutive)
	}
	p.MaxShifts = n.intField(raw, "max_shifts")
	p.MinDay = n.intField(raw, "min_day")
	p.MinNight = n.intField(raw, "min_night")
	p.TargetDay = n.intField(raw, "target_day")
	p.TargetNight = n.intField(raw, "target_night")

	if p.ShiftPattern == model.PatternB {
		if p.MinDay == nil {
			p.MinDay = model.IntPtr(n.cfg.TypeBMinDay)
		}
		if p.MinNight == nil {
			p.MinNight = model.IntPtr(n.cfg.TypeBMinNight)
		}
	}

	if v := n.intField(raw, "min_weekend_nights"); v != nil {
		p.MinWeekendNights = *v
	}
	if v := n.intField(raw, "weekend_night_target"); v != nil {
		p.WeekendNightTarget = *v
	}

	if n.cfg.LegacyPolicies {
		n.applyLegacyPolicies(kennung, raw, &p)
	}

	if p.WeekendNightBlock && p.WeekendNightTarget == 0 {
		p.WeekendNightTarget = n.cfg.WeekendNightTarget
	}

	return p
}

// applyLegacyPolicies 按员工标识补充历史策略标志
func (n *Normalizer) applyLegacyPolicies(kennung string, raw model.RawPreferences, p *model.Preferences) {
	set := func(field string, target *bool) {
		if _, explicit := lookup(raw, field); !explicit {
			*target = true
		}
	}

	switch strings.ToUpper(strings.TrimSpace(kennung)) {
	case "MA6":
		set("day_only_weekday", &p.DayOnlyWeekday)
	case "MA7":
		set("weekday_only_extras", &p.WeekdayOnlyExtras)
		set("night_only_weekend", &p.NightOnlyWeekend)
		set("weekend_nights_only", &p.WeekendNightsOnly)
		set("weekend_night_block", &p.WeekendNightBlock)
		if _, explicit := lookup(raw, "min_weekend_nights"); !explicit {
			p.MinWeekendNights = 2
		}
	}
}

func coverageDefaults(c model.Category) (day, night bool) {
	switch c {
	case model.CategoryCore:
		return true, true
	case model.CategoryHybrid:
		return false, true
	}
	return false, false
}

func parseCategory(raw model.RawPreferences) model.Category {
	v, _ := lookup(raw, "category")
	switch strings.ToLower(toString(v)) {
	case "hybrid":
		return model.CategoryHybrid
	case "zusatz", "extra", "zusatzkraft":
		return model.CategoryExtra
	case "dauerkrank", "long_sick", "langzeitkrank":
		return model.CategoryLongSick
	}
	return model.CategoryCore
}

func parseAvailability(raw model.RawPreferences) model.Availability {
	v, _ := lookup(raw, "availability")
	switch strings.ToLower(toString(v)) {
	case "teilzeit", "part_time":
		return model.AvailabilityPartTime
	case "wochenende_only", "weekend_only":
		return model.AvailabilityWeekendOnly
	case "wochentags_only", "weekdays_only":
		return model.AvailabilityWeekdaysOnly
	}
	return model.AvailabilityFull
}

func parsePattern(raw model.RawPreferences) model.ShiftPattern {
	v, _ := lookup(raw, "shift_type")
	switch strings.ToLower(toString(v)) {
	case "b", "typ_b", "type_b":
		return model.PatternB
	}
	return model.PatternA
}

func parsePriority(raw model.RawPreferences) model.Priority {
	v, _ := lookup(raw, "priority")
	switch strings.ToLower(toString(v)) {
	case "hoch", "high":
		return model.PriorityHigh
	case "niedrig", "low":
		return model.PriorityLow
	}
	return model.PriorityNormal
}

// Validate 检查结构上不可能满足的偏好组合
func Validate(kennung string, p model.Preferences) error {
	if p.Category == model.CategoryLongSick || p.Category == model.CategoryExtra {
		return nil
	}
	if p.ShiftPattern == model.PatternB && (!p.CanDay || !p.CanNight) {
		return apperrors.InvalidPreference(kennung, "B 模式需要同时具备白班和夜班能力")
	}
	if p.MinDay != nil && *p.MinDay > 0 && !p.CanDay {
		return apperrors.InvalidPreference(kennung, "要求最少白班数但不能上白班")
	}
	if p.MinNight != nil && *p.MinNight > 0 && !p.CanNight {
		return apperrors.InvalidPreference(kennung, "要求最少夜班数但不能上夜班")
	}
	if p.MaxShifts != nil {
		minTotal := 0
		if p.MinDay != nil {
			minTotal += *p.MinDay
		}
		if p.MinNight != nil {
			minTotal += *p.MinNight
		}
		if minTotal > *p.MaxShifts {
			return apperrors.InvalidPreference(kennung,
				fmt.Sprintf("最少班次 %d 超过每月最多班次 %d", minTotal, *p.MaxShifts))
		}
	}
	if p.DayOnlyWeekday && !p.CanDay {
		return apperrors.InvalidPreference(kennung, "只上工作日白班但不能上白班")
	}
	if p.DayOnlyWeekday && p.MinNight != nil && *p.MinNight > 0 {
		return apperrors.InvalidPreference(kennung, "只上工作日白班但要求最少夜班数")
	}
	if p.WeekdayOnlyExtras && p.WeekendNightsOnly && p.MinDay != nil && *p.MinDay > 0 {
		return apperrors.InvalidPreference(kennung, "不会被排白班但要求最少白班数")
	}
	if p.MinWeekendNights > 0 && (!p.CanNight || p.DayOnlyWeekday) {
		return apperrors.InvalidPreference(kennung, "要求周末夜班但不能上夜班")
	}
	return nil
}
