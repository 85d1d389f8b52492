// Package advisor derives configuration tuning suggestions from a
// completed evaluation report.
package advisor

import (
	"fmt"

	"github.com/hepqca/qca/internal/evaluate"
)

// Suggestion is a single tuning recommendation.
type Suggestion struct {
	Rule     string
	Message  string
	Severity string
}

// Advisor generates tuning suggestions from an evaluation report.
type Advisor struct {
	rules []Rule
}

// Rule represents a suggestion rule.
type Rule struct {
	Type        string
	Name        string
	Description string
	Threshold   float64
	Check       RuleCheckFunc
}

// RuleCheckFunc is a function that checks if a rule applies.
type RuleCheckFunc func(ctx *RuleContext) []Suggestion

// RuleContext provides context for rule checking.
type RuleContext struct {
	Report *evaluate.Report
}

// NewAdvisor creates a new Advisor with default rules.
func NewAdvisor() *Advisor {
	return &Advisor{rules: defaultRules()}
}

// NewAdvisorWithRules creates a new Advisor with custom rules.
func NewAdvisorWithRules(rules []Rule) *Advisor {
	return &Advisor{rules: rules}
}

// Advise runs every rule against the report and collects their suggestions.
func (a *Advisor) Advise(ctx *RuleContext) []Suggestion {
	suggestions := make([]Suggestion, 0)

	for _, rule := range a.rules {
		if rule.Check != nil {
			suggestions = append(suggestions, rule.Check(ctx)...)
		}
	}

	return suggestions
}

// defaultRules returns the default set of tuning rules.
func defaultRules() []Rule {
	return []Rule{
		{
			Type:        "cells",
			Name:        "cells_low_efficiency_high_purity",
			Description: "Cells efficiency is low but purity is high, suggesting the cone is too narrow",
			Threshold:   0.5,
			Check:       checkCellsLowEfficiencyHighPurity,
		},
		{
			Type:        "cells",
			Name:        "cells_low_purity",
			Description: "Cells purity is low, suggesting the cone is too wide",
			Threshold:   0.5,
			Check:       checkCellsLowPurity,
		},
		{
			Type:        "neighbours",
			Name:        "neighbours_low_efficiency",
			Description: "Neighbour efficiency is low, suggesting the angle gate is too tight",
			Threshold:   0.5,
			Check:       checkNeighboursLowEfficiency,
		},
		{
			Type:        "tracks",
			Name:        "tracks_low_purity",
			Description: "Track purity is low, suggesting ghost tracks are being accepted",
			Threshold:   0.5,
			Check:       checkTracksLowPurity,
		},
		{
			Type:        "tracks",
			Name:        "tracks_low_efficiency",
			Description: "Track efficiency is low, suggesting true tracks are being missed",
			Threshold:   0.5,
			Check:       checkTracksLowEfficiency,
		},
	}
}

func checkCellsLowEfficiencyHighPurity(ctx *RuleContext) []Suggestion {
	suggestions := make([]Suggestion, 0)
	if ctx.Report == nil {
		return suggestions
	}

	eff := ctx.Report.Cells.Efficiency
	pur := ctx.Report.Cells.Purity
	if eff.Available && pur.Available && eff.Value < 0.5 && pur.Value > 0.9 {
		suggestions = append(suggestions, Suggestion{
			Rule:     "cells_low_efficiency_high_purity",
			Severity: "warning",
			Message:  fmt.Sprintf("cell efficiency is low (%.3f) while purity is high (%.3f); consider widening cell_angle", eff.Value, pur.Value),
		})
	}
	return suggestions
}

func checkCellsLowPurity(ctx *RuleContext) []Suggestion {
	suggestions := make([]Suggestion, 0)
	if ctx.Report == nil {
		return suggestions
	}

	pur := ctx.Report.Cells.Purity
	if pur.Available && pur.Value < 0.5 {
		suggestions = append(suggestions, Suggestion{
			Rule:     "cells_low_purity",
			Severity: "warning",
			Message:  fmt.Sprintf("cell purity is low (%.3f); consider narrowing cell_angle", pur.Value),
		})
	}
	return suggestions
}

func checkNeighboursLowEfficiency(ctx *RuleContext) []Suggestion {
	suggestions := make([]Suggestion, 0)
	if ctx.Report == nil {
		return suggestions
	}

	eff := ctx.Report.Neighbours.Efficiency
	if eff.Available && eff.Value < 0.5 {
		suggestions = append(suggestions, Suggestion{
			Rule:     "neighbours_low_efficiency",
			Severity: "warning",
			Message:  fmt.Sprintf("neighbour efficiency is low (%.3f); consider widening neigh_angle", eff.Value),
		})
	}
	return suggestions
}

func checkTracksLowPurity(ctx *RuleContext) []Suggestion {
	suggestions := make([]Suggestion, 0)
	if ctx.Report == nil {
		return suggestions
	}

	pur := ctx.Report.Tracks.Purity
	if pur.Available && pur.Value < 0.5 {
		suggestions = append(suggestions, Suggestion{
			Rule:     "tracks_low_purity",
			Severity: "warning",
			Message:  fmt.Sprintf("track purity is low (%.3f); consider narrowing neigh_angle or raising min_track_length", pur.Value),
		})
	}
	return suggestions
}

func checkTracksLowEfficiency(ctx *RuleContext) []Suggestion {
	suggestions := make([]Suggestion, 0)
	if ctx.Report == nil {
		return suggestions
	}

	eff := ctx.Report.Tracks.Efficiency
	if eff.Available && eff.Value < 0.5 {
		suggestions = append(suggestions, Suggestion{
			Rule:     "tracks_low_efficiency",
			Severity: "info",
			Message:  fmt.Sprintf("track efficiency is low (%.3f); consider lowering min_track_length", eff.Value),
		})
	}
	return suggestions
}
