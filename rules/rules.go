// Package rules wires the validation checks into pipeline rule configurations.
package rules

import (
	"context"

	pv "github.com/Norbi0801/program-verify"
	"github.com/Norbi0801/program-verify/contract"
	"github.com/Norbi0801/program-verify/pipeline"
	"github.com/Norbi0801/program-verify/schema"
)

// SchemaRuleConfig returns the JSON Schema collaborator rule. It runs first:
// the semantic rules assume the document shape has already been screened.
func SchemaRuleConfig(checker *schema.Checker) *pipeline.RuleConfig {
	rule := pipeline.NewRuleFunc(string(pipeline.RuleIDSchema),
		func(_ context.Context, vctx *pipeline.Context) []pv.Issue {
			if checker == nil || vctx.Doc == nil {
				return nil
			}
			return checker.Check(vctx.Doc)
		})

	return &pipeline.RuleConfig{
		Rule:     rule,
		Priority: pipeline.PriorityFirst,
		Parallel: true,
		Enabled:  true,
	}
}

// TitleRuleConfig returns the meta.title vs algorithm.name consistency rule.
func TitleRuleConfig() *pipeline.RuleConfig {
	rule := pipeline.NewRuleFunc(string(pipeline.RuleIDTitle),
		func(_ context.Context, vctx *pipeline.Context) []pv.Issue {
			if vctx.Doc == nil {
				return nil
			}
			return contract.CheckTitle(vctx.Doc)
		})

	return &pipeline.RuleConfig{
		Rule:     rule,
		Priority: pipeline.PriorityNormal,
		Parallel: true,
		Required: true,
		Enabled:  true,
	}
}

// ContractsRuleConfig returns the phase-contract cross-reference rule.
// The strict-mode gate reads the context's effective spec version, which
// already accounts for any caller override.
func ContractsRuleConfig() *pipeline.RuleConfig {
	rule := pipeline.NewRuleFunc(string(pipeline.RuleIDContracts),
		func(_ context.Context, vctx *pipeline.Context) []pv.Issue {
			if vctx.Doc == nil {
				return nil
			}
			return contract.CheckPhaseContractsVersion(vctx.Doc, vctx.SpecVersion)
		})

	return &pipeline.RuleConfig{
		Rule:     rule,
		Priority: pipeline.PriorityLate,
		Parallel: true,
		Required: true,
		Enabled:  true,
	}
}
