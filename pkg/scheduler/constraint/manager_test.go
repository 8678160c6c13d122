package constraint

import (
	"errors"
	"testing"
	"time"

	"github.com/paiban/schichtplan/pkg/model"
)

func TestManager_Register(t *testing.T) {
	manager := NewManager()

	c := &MockConstraint{
		name:     "test",
		typ:      Type("test_type"),
		category: CategoryHard,
	}
	manager.Register(c)

	constraints := manager.GetAll()
	if len(constraints) != 1 {
		t.Errorf("Expected 1 constraint, got %d", len(constraints))
	}

	// 同类型约束被替换
	manager.Register(&MockConstraint{name: "test2", typ: Type("test_type"), category: CategoryHard})
	if manager.Count() != 1 {
		t.Errorf("Expected replacement, got %d constraints", manager.Count())
	}
	if manager.GetConstraint(Type("test_type")).Name() != "test2" {
		t.Error("Expected replaced constraint")
	}
}

func TestManager_Order(t *testing.T) {
	manager := NewManager()

	manager.Register(&MockConstraint{name: "soft_low", typ: Type("s1"), category: CategorySoft, weight: 10})
	manager.Register(&MockConstraint{name: "hard", typ: Type("h1"), category: CategoryHard})
	manager.Register(&MockConstraint{name: "soft_high", typ: Type("s2"), category: CategorySoft, weight: 90})

	all := manager.GetAll()
	want := []string{"hard", "soft_high", "soft_low"}
	for i, name := range want {
		if all[i].Name() != name {
			t.Errorf("position %d: expected %s, got %s", i, name, all[i].Name())
		}
	}
}

func TestManager_GetByCategory(t *testing.T) {
	manager := NewManager()

	hard := &MockConstraint{name: "hard1", typ: Type("hard1"), category: CategoryHard}
	soft := &MockConstraint{name: "soft1", typ: Type("soft1"), category: CategorySoft}
	manager.Register(hard)
	manager.Register(soft)

	hardConstraints := manager.GetByCategory(CategoryHard)
	if len(hardConstraints) != 1 {
		t.Errorf("Expected 1 hard constraint, got %d", len(hardConstraints))
	}

	softConstraints := manager.GetByCategory(CategorySoft)
	if len(softConstraints) != 1 {
		t.Errorf("Expected 1 soft constraint, got %d", len(softConstraints))
	}
}

func TestManager_PostAll(t *testing.T) {
	manager := NewManager()

	pass := &MockConstraint{name: "pass", typ: Type("pass_type"), category: CategoryHard}
	manager.Register(pass)

	m := NewModel(newProblem())
	if err := manager.PostAll(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pass.posted != 1 {
		t.Errorf("Expected constraint posted once, got %d", pass.posted)
	}

	manager.Register(&MockConstraint{name: "fail", typ: Type("fail_type"), category: CategorySoft, err: errors.New("boom")})
	if err := manager.PostAll(NewModel(newProblem())); err == nil {
		t.Error("Expected error from failing constraint")
	}
}

func TestManager_Unregister(t *testing.T) {
	manager := NewManager()

	manager.Register(&MockConstraint{name: "test", typ: Type("test"), category: CategoryHard})
	manager.Unregister(Type("test"))

	if manager.GetConstraint(Type("test")) != nil {
		t.Error("Expected constraint to be removed")
	}
}

func TestManager_Summary(t *testing.T) {
	manager := NewManager()

	if manager.Summary()["total"] != 0 {
		t.Error("Expected 0 total for empty manager")
	}

	manager.Register(&MockConstraint{name: "c1", typ: Type("c1"), category: CategoryHard})
	manager.Register(&MockConstraint{name: "c2", typ: Type("c2"), category: CategorySoft})

	summary := manager.Summary()
	if summary["hard"] != 1 || summary["soft"] != 1 || summary["total"] != 2 {
		t.Errorf("unexpected summary %v", summary)
	}
	if len(manager.Describe()) != 2 {
		t.Error("Expected 2 descriptions")
	}
}

func TestModel_Variables(t *testing.T) {
	m := NewModel(newProblem())

	if got := m.Variables(); got != 2*3*3 {
		t.Errorf("Expected 18 decision variables, got %d", got)
	}

	m.NewIntVar(5)
	if got := m.Variables(); got != 19 {
		t.Errorf("Expected 19 variables, got %d", got)
	}

	m.Penalize(m.X(0, 0, model.KindDay), 10)
	m.Penalize(m.X(0, 0, model.KindNight), 0)
	if m.Terms() != 1 {
		t.Errorf("Expected 1 objective term, got %d", m.Terms())
	}
}

// MockConstraint 用于测试的模拟约束
type MockConstraint struct {
	name     string
	typ      Type
	category Category
	weight   int
	err      error
	posted   int
}

func (m *MockConstraint) Name() string       { return m.name }
func (m *MockConstraint) Type() Type         { return m.typ }
func (m *MockConstraint) Category() Category { return m.category }
func (m *MockConstraint) Weight() int {
	if m.weight == 0 {
		return 100
	}
	return m.weight
}

func (m *MockConstraint) Post(_ *Model) error {
	m.posted++
	return m.err
}

func newProblem() *model.Problem {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return &model.Problem{
		Horizon: model.NewHorizon(start, start.AddDate(0, 0, 2)),
		Employees: []*model.PlannedEmployee{
			{Kennung: "MA1"},
			{Kennung: "MA2"},
		},
		Coverage: model.DefaultCoverage(),
	}
}
