package analytics

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"costline/internal/core/apperror"
	"costline/internal/core/id"
)

// Rule is a user-definable alert condition over an annotated ledger
// row, written as a CEL boolean expression, e.g.
//
//	variance_value < -100.0 || (velocity == "dead" && current_stock > 0.0)
type Rule struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// Alert is one rule firing on one item.
type Alert struct {
	Rule     string `json:"rule"`
	ItemID   id.ID  `json:"itemId"`
	ItemName string `json:"itemName"`
	Category string `json:"category"`
}

// DefaultRules cover the discrepancies the dashboard highlights out of
// the box.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "large-negative-variance", Expression: "variance_value < -100.0"},
		{Name: "dead-stock-on-hand", Expression: `velocity == "dead" && current_stock > 0.0`},
		{Name: "low-runway", Expression: "days_of_inventory > 0.0 && days_of_inventory < 3.0"},
	}
}

// RuleSet holds compiled rules ready for evaluation.
type RuleSet struct {
	rules    []Rule
	programs []cel.Program
}

func newRuleEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item_name", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("unit", cel.StringType),
		cel.Variable("abc_class", cel.StringType),
		cel.Variable("velocity", cel.StringType),
		cel.Variable("consumption_qty", cel.DoubleType),
		cel.Variable("usage_value", cel.DoubleType),
		cel.Variable("current_stock", cel.DoubleType),
		cel.Variable("variance_qty", cel.DoubleType),
		cel.Variable("variance_value", cel.DoubleType),
		cel.Variable("turnover_ratio", cel.DoubleType),
		cel.Variable("days_of_inventory", cel.DoubleType),
	)
}

// CompileRules compiles CEL expressions into a reusable rule set.
// Expressions that do not compile or do not evaluate to bool are
// rejected as validation errors.
func CompileRules(rules []Rule) (*RuleSet, error) {
	env, err := newRuleEnv()
	if err != nil {
		return nil, fmt.Errorf("create rule env: %w", err)
	}

	rs := &RuleSet{rules: rules, programs: make([]cel.Program, 0, len(rules))}
	for _, r := range rules {
		ast, iss := env.Compile(r.Expression)
		if iss != nil && iss.Err() != nil {
			return nil, apperror.NewBadRule(r.Name, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, apperror.NewBadRule(r.Name, fmt.Errorf("expression must evaluate to bool, got %s", ast.OutputType()))
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, apperror.NewBadRule(r.Name, err)
		}
		rs.programs = append(rs.programs, prg)
	}
	return rs, nil
}

// Evaluate runs every rule against every row. Rows that fail to
// evaluate are skipped; a bad row never aborts the report.
func (rs *RuleSet) Evaluate(rows []Row) []Alert {
	var alerts []Alert
	for _, row := range rows {
		activation := map[string]any{
			"item_name":         row.ItemName,
			"category":          row.Category,
			"unit":              row.Unit,
			"abc_class":         string(row.Class),
			"velocity":          string(row.Velocity),
			"consumption_qty":   row.ConsumptionQty,
			"usage_value":       row.UsageValue,
			"current_stock":     row.CurrentStock,
			"variance_qty":      row.VarianceQty,
			"variance_value":    row.VarianceValue,
			"turnover_ratio":    row.TurnoverRatio,
			"days_of_inventory": row.DaysOfInventory,
		}

		for i, prg := range rs.programs {
			out, _, err := prg.Eval(activation)
			if err != nil {
				continue
			}
			if fired, ok := out.Value().(bool); ok && fired {
				alerts = append(alerts, Alert{
					Rule:     rs.rules[i].Name,
					ItemID:   row.ItemID,
					ItemName: row.ItemName,
					Category: row.Category,
				})
			}
		}
	}
	return alerts
}
