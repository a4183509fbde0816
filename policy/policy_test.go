package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canadian-helper/model"
)

type fakePriors map[string]int

func (f fakePriors) PunishmentCount(guildID, userID string) int {
	return f[userID]
}

func TestExtractRuleNumber(t *testing.T) {
	assert.Equal(t, "8", ExtractRuleNumber("§8 - No penalty evasion or multiple accounts"))
	assert.Equal(t, "13", ExtractRuleNumber("§ 13 - No trolling"))
	assert.Equal(t, "", ExtractRuleNumber("Other"))
}

func TestAutomaticDurationEscalates(t *testing.T) {
	policy := model.PunishmentPolicy{
		BaseTimes:       map[string]string{"default": "2h"},
		PerPriorOffense: map[string]string{"default": "2h"},
	}
	priors := fakePriors{"repeat": 2}
	e := NewEngine(policy, priors)

	assert.Equal(t, "2h", e.AutomaticDuration("g", "fresh", "§4 - No spam"))
	assert.Equal(t, "6h", e.AutomaticDuration("g", "repeat", "§4 - No spam"))
}

func TestAutomaticDurationPerRuleOverride(t *testing.T) {
	policy := model.PunishmentPolicy{
		BaseTimes:       map[string]string{"default": "2h", "7": "1w"},
		PerPriorOffense: map[string]string{"default": "2h", "7": "1d"},
	}
	priors := fakePriors{"hacker": 1}
	e := NewEngine(policy, priors)

	// 1w + 1d truncates to the largest whole unit.
	assert.Equal(t, "1w", e.AutomaticDuration("g", "hacker", "§7 - No hacking server or users"))
}

func TestAutomaticDurationIncrementFallsBack(t *testing.T) {
	policy := model.PunishmentPolicy{
		BaseTimes:       map[string]string{"default": "2h"},
		PerPriorOffense: map[string]string{"7": "1d"},
	}
	e := NewEngine(policy, fakePriors{"repeat": 2})

	// No "default" increment configured: repeat offenses still escalate.
	assert.Equal(t, "6h", e.AutomaticDuration("g", "repeat", "§4 - No spam"))
}

func TestAutomaticDurationIndefiniteShortCircuits(t *testing.T) {
	policy := model.PunishmentPolicy{
		BaseTimes:       map[string]string{"default": "2h", "8": "indefinite"},
		PerPriorOffense: map[string]string{"default": "2h"},
	}
	priors := fakePriors{"evader": 5}
	e := NewEngine(policy, priors)

	assert.Equal(t, Indefinite, e.AutomaticDuration("g", "evader", "§8 - No penalty evasion"))
}

func TestAutomaticDurationUnknownRuleFallsBack(t *testing.T) {
	e := NewEngine(model.PunishmentPolicy{}, fakePriors{})
	assert.Equal(t, "2h", e.AutomaticDuration("g", "u", "Other"))
}

func TestTempBanSuggestionDirectRule(t *testing.T) {
	policy := model.PunishmentPolicy{
		TempBanRules: map[string]model.TempBanRule{
			"7": {Description: "Hacking", Duration: "12mo", Trigger: "first_offense"},
		},
	}
	e := NewEngine(policy, fakePriors{})

	sug := e.TempBanSuggestion("g", "u", "§7 - No hacking server or users")
	require.NotNil(t, sug)
	assert.Equal(t, "7", sug.RuleKey)
	assert.Equal(t, "12mo", sug.Duration)
	assert.Equal(t, "first_offense", sug.Trigger)
}

func TestTempBanSuggestionDirectRuleDefaults(t *testing.T) {
	policy := model.PunishmentPolicy{
		TempBanRules: map[string]model.TempBanRule{"7": {}},
	}
	e := NewEngine(policy, fakePriors{})

	sug := e.TempBanSuggestion("g", "u", "§7 - No hacking")
	require.NotNil(t, sug)
	assert.Equal(t, "6mo", sug.Duration)
	assert.Equal(t, "first_offense", sug.Trigger)
}

func TestTempBanSuggestionContinuedRequiresPriors(t *testing.T) {
	policy := model.PunishmentPolicy{
		TempBanRules: map[string]model.TempBanRule{
			"4_continued": {Description: "Continued spamming", Duration: "1mo"},
		},
	}
	e := NewEngine(policy, fakePriors{"repeat": 3})

	assert.Nil(t, e.TempBanSuggestion("g", "fresh", "§4 - No spam"))

	sug := e.TempBanSuggestion("g", "repeat", "§4 - No spam")
	require.NotNil(t, sug)
	assert.Equal(t, "4_continued", sug.RuleKey)
	assert.Equal(t, "continued", sug.Trigger)
	assert.Equal(t, 3, sug.PriorOffenses)
}

func TestTempBanSuggestionNoRuleNumber(t *testing.T) {
	e := NewEngine(model.PunishmentPolicy{
		TempBanRules: map[string]model.TempBanRule{"7": {}},
	}, fakePriors{"u": 9})
	assert.Nil(t, e.TempBanSuggestion("g", "u", "Other"))
}
