package policy

import (
	"regexp"

	"canadian-helper/model"
)

// fallbackDuration is used when the policy file is absent or has no entry for
// a rule. The policy file has no enforced schema; a missing file degrades to
// this default rather than failing the command.
const fallbackDuration = "2h"

var ruleNumberPattern = regexp.MustCompile(`§+\s*(\d+)`)

// ExtractRuleNumber pulls the first rule number out of a violation string like
// "§2" or "§§ 2 and 3". Returns "" when none is found.
func ExtractRuleNumber(ruleViolation string) string {
	m := ruleNumberPattern.FindStringSubmatch(ruleViolation)
	if m == nil {
		return ""
	}
	return m[1]
}

// PriorCounter supplies the number of prior non-retracted sanctions for a
// subject. The storage package implements it.
type PriorCounter interface {
	PunishmentCount(guildID, userID string) int
}

// Engine computes automatic punishment durations and temp-ban suggestions
// from the configured policy table.
type Engine struct {
	policy model.PunishmentPolicy
	priors PriorCounter
}

// NewEngine creates an Engine over the given policy and prior-offense source.
func NewEngine(policy model.PunishmentPolicy, priors PriorCounter) *Engine {
	return &Engine{policy: policy, priors: priors}
}

func ruleEntry(table map[string]string, rule string) string {
	if table == nil {
		return ""
	}
	if v, ok := table[rule]; ok {
		return v
	}
	return table["default"]
}

// AutomaticDuration computes the duration label for a new sanction:
// base(rule) + priorOffenses * perOffense(rule). Unknown rules fall back to
// the "default" entry, and an indefinite base short-circuits regardless of
// prior count. The record being created must not be in the store yet, since
// the prior count would otherwise include it.
func (e *Engine) AutomaticDuration(guildID, userID, ruleViolation string) string {
	rule := ExtractRuleNumber(ruleViolation)
	if rule == "" {
		rule = "default"
	}

	base := ruleEntry(e.policy.BaseTimes, rule)
	if base == "" {
		base = fallbackDuration
	}
	baseSeconds, indefinite, err := ParseDuration(base)
	if indefinite {
		return Indefinite
	}
	if err != nil {
		baseSeconds, _, _ = ParseDuration(fallbackDuration)
	}

	// A policy file with per-rule increments but no "default" entry still
	// escalates by the built-in step.
	perOffense := ruleEntry(e.policy.PerPriorOffense, rule)
	if perOffense == "" {
		perOffense = fallbackDuration
	}
	perSeconds := int64(0)
	if parsed, indef, err := ParseDuration(perOffense); err == nil && !indef {
		perSeconds = parsed
	}

	priors := e.priors.PunishmentCount(guildID, userID)
	return FormatDuration(baseSeconds + int64(priors)*perSeconds)
}

// Suggestion is a proposed temp-ban escalation. It is advice only; applying
// the ban requires an explicit confirmation by a moderator.
type Suggestion struct {
	RuleKey       string
	Description   string
	Duration      string
	Trigger       string
	PriorOffenses int
}

// TempBanSuggestion checks the escalation table for the violated rule. A rule
// with its own entry always yields the base suggestion; otherwise, when the
// subject has at least one prior offense and a "<rule>_continued" entry
// exists, the continued-offense suggestion is returned. Nil means no
// escalation applies.
func (e *Engine) TempBanSuggestion(guildID, userID, ruleViolation string) *Suggestion {
	rule := ExtractRuleNumber(ruleViolation)
	if rule == "" {
		return nil
	}

	if entry, ok := e.policy.TempBanRules[rule]; ok {
		sug := &Suggestion{
			RuleKey:     rule,
			Description: entry.Description,
			Duration:    entry.Duration,
			Trigger:     entry.Trigger,
		}
		if sug.Description == "" {
			sug.Description = "§" + rule + " violation"
		}
		if sug.Duration == "" {
			sug.Duration = "6mo"
		}
		if sug.Trigger == "" {
			sug.Trigger = "first_offense"
		}
		return sug
	}

	priors := e.priors.PunishmentCount(guildID, userID)
	if priors == 0 {
		return nil
	}
	continuedKey := rule + "_continued"
	entry, ok := e.policy.TempBanRules[continuedKey]
	if !ok {
		return nil
	}
	return &Suggestion{
		RuleKey:       continuedKey,
		Description:   entry.Description,
		Duration:      entry.Duration,
		Trigger:       "continued",
		PriorOffenses: priors,
	}
}
