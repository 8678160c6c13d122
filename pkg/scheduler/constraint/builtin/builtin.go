package builtin

import (
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// RegisterDefaultConstraints 注册全部硬约束与软目标项
func RegisterDefaultConstraints(manager *constraint.Manager, w Weights) {
	RegisterHardConstraints(manager)
	RegisterSoftConstraints(manager, w)
}

// RegisterHardConstraints 注册硬约束
func RegisterHardConstraints(manager *constraint.Manager) {
	manager.Register(NewExclusivityConstraint())
	manager.Register(NewNightRestConstraint())
	manager.Register(NewCapabilityConstraint())
	manager.Register(NewCategoryConstraint())
	manager.Register(NewWeekdayPolicyConstraint())
	manager.Register(NewAvailabilityConstraint())
	manager.Register(NewOffDaysConstraint())
	manager.Register(NewMaxWeekendsConstraint())
	manager.Register(NewMaxShiftsPerMonthConstraint())
	manager.Register(NewMaxConsecutiveDaysConstraint())
	manager.Register(NewMinShiftsConstraint())
	manager.Register(NewMinWeekendNightsConstraint())
	manager.Register(NewCoverageConstraint())
}

// RegisterSoftConstraints 注册软目标项
func RegisterSoftConstraints(manager *constraint.Manager, w Weights) {
	manager.Register(NewTargetDeviationConstraint(w))
	manager.Register(NewTypeBExcessConstraint(w))
	manager.Register(NewDayFairnessConstraint(w))
	manager.Register(NewNightFairnessConstraint(w))
	manager.Register(NewWeekendFairnessConstraint(w))
	manager.Register(NewWishConstraint(w))
	manager.Register(NewFewWishesBonusConstraint(w))
	manager.Register(NewFixedWeekdayConstraint(w))
	manager.Register(NewWeekendNightBlockConstraint(w))
	manager.Register(NewDayBlocksConstraint(w))
	manager.Register(NewHistoryAffinityConstraint(w))
}
