package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costline/internal/core/apperror"
	"costline/internal/core/id"
)

func TestCompileAndEvaluateRules(t *testing.T) {
	rs, err := CompileRules([]Rule{
		{Name: "big-loss", Expression: "variance_value < -50.0"},
		{Name: "dead-a-class", Expression: `velocity == "dead" && abc_class == "A"`},
	})
	require.NoError(t, err)

	rows := []Row{
		{ItemID: id.New(), ItemName: "Beef", Category: "Proteins", VarianceValue: -120, Velocity: VelocitySlow, Class: ClassA},
		{ItemID: id.New(), ItemName: "Saffron", Category: "Spices", VarianceValue: 0, Velocity: VelocityDead, Class: ClassA},
		{ItemID: id.New(), ItemName: "Napkins", Category: "Supplies", VarianceValue: -10, Velocity: VelocityDead, Class: ClassC},
	}

	alerts := rs.Evaluate(rows)
	require.Len(t, alerts, 2)
	assert.Equal(t, "big-loss", alerts[0].Rule)
	assert.Equal(t, "Beef", alerts[0].ItemName)
	assert.Equal(t, "dead-a-class", alerts[1].Rule)
	assert.Equal(t, "Saffron", alerts[1].ItemName)
}

func TestCompileRulesRejectsBadExpression(t *testing.T) {
	_, err := CompileRules([]Rule{{Name: "broken", Expression: "variance_value <"}})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBadRule, appErr.Code)
	assert.Equal(t, "broken", appErr.Details["rule"])
}

func TestCompileRulesRejectsNonBool(t *testing.T) {
	_, err := CompileRules([]Rule{{Name: "numeric", Expression: "usage_value + 1.0"}})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBadRule, appErr.Code)
}

func TestCompileRulesRejectsUnknownVariable(t *testing.T) {
	_, err := CompileRules([]Rule{{Name: "unknown", Expression: "no_such_field > 1.0"}})
	require.Error(t, err)
	assert.True(t, apperror.IsAppError(err))
}

func TestDefaultRulesCompile(t *testing.T) {
	rs, err := CompileRules(DefaultRules())
	require.NoError(t, err)

	// A dead item sitting on stock trips the default set.
	alerts := rs.Evaluate([]Row{{
		ItemID:       id.New(),
		ItemName:     "Truffle Oil",
		Velocity:     VelocityDead,
		CurrentStock: 4,
	}})
	require.Len(t, alerts, 1)
	assert.Equal(t, "dead-stock-on-hand", alerts[0].Rule)
}

func TestEvaluateEmptyRuleSet(t *testing.T) {
	rs, err := CompileRules(nil)
	require.NoError(t, err)
	assert.Empty(t, rs.Evaluate([]Row{{ItemName: "x"}}))
}
