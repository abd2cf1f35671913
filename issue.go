package programverify

// IssueSeverity represents the severity of a validation issue.
type IssueSeverity string

const (
	// SeverityFatal indicates the issue is fatal and validation cannot continue.
	SeverityFatal IssueSeverity = "fatal"
	// SeverityError indicates a validation error that makes the document invalid.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a potential problem that should be reviewed.
	SeverityWarning IssueSeverity = "warning"
	// SeverityInformation indicates informational feedback.
	SeverityInformation IssueSeverity = "information"
)

// IssueType represents the type of validation issue.
type IssueType string

const (
	// IssueTypeRequired indicates a required field is missing.
	IssueTypeRequired IssueType = "required"
	// IssueTypeReference indicates a cross-reference that does not resolve
	// (unknown phase, undeclared output, unknown error code, bad fallback).
	IssueTypeReference IssueType = "reference"
	// IssueTypeDuplicate indicates a duplicate name or code within one phase contract.
	IssueTypeDuplicate IssueType = "duplicate"
	// IssueTypePolicy indicates a field required by the spec-version policy is absent.
	IssueTypePolicy IssueType = "policy"
	// IssueTypeSchema indicates a JSON Schema violation reported by the schema collaborator.
	IssueTypeSchema IssueType = "schema"
	// IssueTypeStructure indicates the input could not be decoded into a document tree.
	IssueTypeStructure IssueType = "structure"
	// IssueTypeProcessing indicates an internal processing error.
	IssueTypeProcessing IssueType = "processing"
)

// Issue represents a single validation issue.
type Issue struct {
	// Severity of the issue (error, warning, information)
	Severity IssueSeverity `json:"severity"`

	// Code identifying the type of issue
	Code IssueType `json:"code"`

	// Diagnostics contains the human-readable, self-contained message
	Diagnostics string `json:"diagnostics,omitempty"`

	// Path is the dotted document path of the offending element, when known
	Path string `json:"path,omitempty"`

	// Rule is the validation rule that generated this issue
	Rule string `json:"rule,omitempty"`
}

// IsError returns true if this is an error or fatal issue.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError || i.Severity == SeverityFatal
}

// IsWarning returns true if this is a warning.
func (i Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// String returns a human-readable representation of the issue.
func (i Issue) String() string {
	path := ""
	if i.Path != "" {
		path = " at " + i.Path
	}
	return string(i.Severity) + ": " + i.Diagnostics + path
}

// IssueBuilder provides a fluent API for building issues.
type IssueBuilder struct {
	issue Issue
}

// NewIssue creates a new IssueBuilder.
func NewIssue(severity IssueSeverity, code IssueType) *IssueBuilder {
	return &IssueBuilder{
		issue: Issue{
			Severity: severity,
			Code:     code,
		},
	}
}

// Error creates an error issue.
func Error(code IssueType) *IssueBuilder {
	return NewIssue(SeverityError, code)
}

// Warning creates a warning issue.
func Warning(code IssueType) *IssueBuilder {
	return NewIssue(SeverityWarning, code)
}

// Info creates an informational issue.
func Info(code IssueType) *IssueBuilder {
	return NewIssue(SeverityInformation, code)
}

// Diagnostics sets the diagnostic message.
func (b *IssueBuilder) Diagnostics(msg string) *IssueBuilder {
	b.issue.Diagnostics = msg
	return b
}

// At sets the document path.
func (b *IssueBuilder) At(path string) *IssueBuilder {
	b.issue.Path = path
	return b
}

// Rule sets the validation rule name.
func (b *IssueBuilder) Rule(rule string) *IssueBuilder {
	b.issue.Rule = rule
	return b
}

// Build returns the constructed issue.
func (b *IssueBuilder) Build() Issue {
	return b.issue
}
