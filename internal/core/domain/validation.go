package domain

// ValidationResult accumulates the outcome of every validation pass over a
// journal entry. Checks never stop at the first problem; callers always see
// the complete picture in one round trip.
type ValidationResult struct {
	IsValid          bool     `json:"isValid"`
	IsBalanced       bool     `json:"isBalanced"`
	Errors           []string `json:"errors"`
	Warnings         []string `json:"warnings"`
	ComplianceIssues []string `json:"complianceIssues"`
}

// NewValidationResult returns a result that is valid and balanced until a
// check says otherwise.
func NewValidationResult() ValidationResult {
	return ValidationResult{IsValid: true, IsBalanced: true}
}

// AddError records a blocking problem and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

// AddWarning records a non-blocking observation.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddComplianceIssue records a compliance finding. Compliance issues do not
// block persistence on their own.
func (r *ValidationResult) AddComplianceIssue(msg string) {
	r.ComplianceIssues = append(r.ComplianceIssues, msg)
}

// MarkUnbalanced flags the result as unbalanced and records the difference
// as a blocking error.
func (r *ValidationResult) MarkUnbalanced(msg string) {
	r.IsBalanced = false
	r.AddError(msg)
}
