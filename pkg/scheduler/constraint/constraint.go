// Package constraint 定义约束接口、约束管理器和 CP-SAT 模型
package constraint

// Type 约束类型标识
type Type string

const (
	// 硬约束类型
	TypeExclusivity        Type = "exclusivity"
	TypeNightRest          Type = "night_rest"
	TypeCapability         Type = "capability"
	TypeCategory           Type = "category"
	TypeWeekdayPolicy      Type = "weekday_policy"
	TypeAvailability       Type = "availability"
	TypeOffDays            Type = "off_days"
	TypeMaxWeekends        Type = "max_weekends"
	TypeMaxShifts          Type = "max_shifts_per_month"
	TypeMaxConsecutiveDays Type = "max_consecutive_days"
	TypeMinShifts          Type = "min_shifts"
	TypeMinWeekendNights   Type = "min_weekend_nights"
	TypeCoverage           Type = "coverage"

	// 软约束类型
	TypeTargetDeviation   Type = "target_deviation"
	TypeTypeBExcess       Type = "type_b_excess"
	TypeFairnessDay       Type = "fairness_day"
	TypeFairnessNight     Type = "fairness_night"
	TypeFairnessWeekend   Type = "fairness_weekend"
	TypeWishes            Type = "wishes"
	TypeFewWishesBonus    Type = "few_wishes_bonus"
	TypeFixedWeekday      Type = "fixed_weekday"
	TypeWeekendNightBlock Type = "weekend_night_block"
	TypeDayBlocks         Type = "day_blocks"
	TypeHistoryAffinity   Type = "history_affinity"
)

// Category 约束类别
type Category string

const (
	CategoryHard Category = "hard" // 硬约束（必须满足）
	CategorySoft Category = "soft" // 软约束（尽量满足）
)

// Constraint 约束接口
type Constraint interface {
	// Name 返回约束名称
	Name() string

	// Type 返回约束类型
	Type() Type

	// Category 返回约束类别
	Category() Category

	// Weight 返回约束权重，硬约束为 100
	Weight() int

	// Post 将约束或目标项写入模型
	Post(m *Model) error
}

// Info 约束描述（用于接口输出）
type Info struct {
	Name     string   `json:"name"`
	Type     Type     `json:"type"`
	Category Category `json:"category"`
	Weight   int      `json:"weight"`
}
