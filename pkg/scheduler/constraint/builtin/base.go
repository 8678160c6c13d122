// Package builtin 提供月度排班的内置约束和目标项
package builtin

import (
	"github.com/shopspring/decimal"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// BaseConstraint 约束基类
type BaseConstraint struct {
	name     string
	typ      constraint.Type
	category constraint.Category
	weight   int
}

// NewBaseConstraint 创建基础约束
func NewBaseConstraint(name string, typ constraint.Type, cat constraint.Category, weight int) *BaseConstraint {
	return &BaseConstraint{
		name:     name,
		typ:      typ,
		category: cat,
		weight:   weight,
	}
}

// Name 返回约束名称
func (c *BaseConstraint) Name() string { return c.name }

// Type 返回约束类型
func (c *BaseConstraint) Type() constraint.Type { return c.typ }

// Category 返回约束类别
func (c *BaseConstraint) Category() constraint.Category { return c.category }

// Weight 返回约束权重
func (c *BaseConstraint) Weight() int { return c.weight }

// newHard 创建硬约束基类
func newHard(name string, typ constraint.Type) *BaseConstraint {
	return NewBaseConstraint(name, typ, constraint.CategoryHard, 100)
}

// newSoft 创建软约束基类
func newSoft(name string, typ constraint.Type, weight int64) *BaseConstraint {
	return NewBaseConstraint(name, typ, constraint.CategorySoft, int(weight))
}

// regularKinds 求解器负责的两种班次
var regularKinds = []model.Kind{model.KindDay, model.KindNight}

// forbidWhere 对每个 (e, d, k∈{T,N}) 在 allowed 为 false 时禁止
func forbidWhere(m *constraint.Model, allowed func(e *model.PlannedEmployee, day model.Day, k model.Kind) bool) {
	for ei, emp := range m.Problem.Employees {
		for _, day := range m.Problem.Horizon.Days {
			for _, k := range regularKinds {
				if !allowed(emp, day, k) {
					m.Forbid(ei, day.Index, k)
				}
			}
		}
	}
}

// scale 权重乘以倍率并四舍五入为整数
func scale(weight int64, multiplier decimal.Decimal) int64 {
	return decimal.NewFromInt(weight).Mul(multiplier).Round(0).IntPart()
}

// solverManaged 是否由求解器排 T/N（长期病假与仅补班员工除外）
func solverManaged(e *model.PlannedEmployee) bool {
	return e.SolverManaged()
}
