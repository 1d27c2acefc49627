package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nightjar-sec/nightjar/pkg/types"
)

func validRule(textID, pattern string) *types.Rule {
	return &types.Rule{
		Name:   "Rule " + textID,
		TextID: textID,
		Syntax: types.RuleSyntax{Pattern: pattern},
	}
}

func TestValidateRule(t *testing.T) {
	assert.NoError(t, ValidateRule(validRule("np.ok.1", `secret-[0-9]+`)))

	assert.Error(t, ValidateRule(nil))
	assert.Error(t, ValidateRule(&types.Rule{Name: "n", Syntax: types.RuleSyntax{Pattern: "p"}}))
	assert.Error(t, ValidateRule(&types.Rule{TextID: "np.x.1", Syntax: types.RuleSyntax{Pattern: "p"}}))
	assert.Error(t, ValidateRule(&types.Rule{TextID: "np.x.1", Name: "n"}))

	// Unparseable regex
	assert.Error(t, ValidateRule(validRule("np.bad.1", `secret-[0-9`)))
}

func TestValidateRules(t *testing.T) {
	assert.NoError(t, ValidateRules([]*types.Rule{
		validRule("np.a.1", `aaa-[0-9]+`),
		validRule("np.b.1", `bbb-[0-9]+`),
	}))
}

func TestValidateRules_DuplicateTextID(t *testing.T) {
	err := ValidateRules([]*types.Rule{
		validRule("np.a.1", `aaa-[0-9]+`),
		validRule("np.a.1", `bbb-[0-9]+`),
	})
	assert.ErrorContains(t, err, "duplicate rule text ID")
}

func TestValidateRules_DuplicatePattern(t *testing.T) {
	err := ValidateRules([]*types.Rule{
		validRule("np.a.1", `same-[0-9]+`),
		validRule("np.b.1", `same-[0-9]+`),
	})
	assert.ErrorContains(t, err, "identical patterns")
}
