package contract

import (
	"fmt"
	"strings"

	pv "github.com/Norbi0801/program-verify"
	"github.com/Norbi0801/program-verify/document"
)

// RuleTitle is the rule name attached to title-consistency issues.
const RuleTitle = "title"

// CheckTitle verifies that algorithm.name equals the base of meta.title.
// The base is everything before the first '(' in the title, trimmed of
// surrounding whitespace. Both fields are required; a missing field is
// reported and ends this rule without failing the rest of validation.
func CheckTitle(doc *document.Value) []pv.Issue {
	titleVal, ok := doc.Lookup("meta", "title")
	title, isStr := titleVal.Str()
	if !ok || !isStr {
		return []pv.Issue{pv.Error(pv.IssueTypeRequired).
			Diagnostics("missing meta.title").
			At("meta.title").
			Rule(RuleTitle).
			Build()}
	}

	nameVal, ok := doc.Lookup("algorithm", "name")
	name, isStr := nameVal.Str()
	if !ok || !isStr {
		return []pv.Issue{pv.Error(pv.IssueTypeRequired).
			Diagnostics("missing algorithm.name").
			At("algorithm.name").
			Rule(RuleTitle).
			Build()}
	}

	base := BaseName(title)
	if base != name {
		return []pv.Issue{pv.Error(pv.IssueTypeReference).
			Diagnostics(fmt.Sprintf(
				"algorithm.name='%s' does not match the base of meta.title='%s' (detected '%s')",
				name, title, base)).
			At("algorithm.name").
			Rule(RuleTitle).
			Build()}
	}

	return nil
}

// BaseName extracts the canonical base name from a title: everything before
// the first '(' character, trimmed. With no '(' the whole trimmed title is
// the base.
func BaseName(title string) string {
	if i := strings.IndexByte(title, '('); i >= 0 {
		return strings.TrimSpace(title[:i])
	}
	return strings.TrimSpace(title)
}
