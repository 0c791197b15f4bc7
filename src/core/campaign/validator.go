package campaign

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Result flags invalid draft fields (true = invalid) so a caller can
// highlight every offending field at once.
type Result map[string]bool

// OK reports whether the draft passed validation.
func (r Result) OK() bool {
	for _, invalid := range r {
		if invalid {
			return false
		}
	}
	return true
}

// Fields returns the offending field names.
func (r Result) Fields() []string {
	var out []string
	for f, invalid := range r {
		if invalid {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks a draft without side effects or network access. Every
// required field must be non-empty, every milestone needs a trimmed
// non-empty name and a target, and milestone targets must not sum past the
// goal, compared numerically on the decimal values.
func Validate(d Draft) Result {
	goal, goalErr := decimal.NewFromString(d.Goal)
	goalValid := d.Goal != "" && goalErr == nil && !goal.IsNegative()

	milestonesValid := len(d.Milestones) > 0
	sum := decimal.Zero
	for _, m := range d.Milestones {
		if strings.TrimSpace(m.Name) == "" || m.Target == "" {
			milestonesValid = false
			continue
		}
		t, err := decimal.NewFromString(m.Target)
		if err != nil || t.IsNegative() {
			milestonesValid = false
			continue
		}
		sum = sum.Add(t)
	}
	if milestonesValid && goalValid && sum.GreaterThan(goal) {
		milestonesValid = false
	}

	return Result{
		"title":         d.Title == "",
		"description":   d.Description == "",
		"goal":          !goalValid,
		"duration":      d.Duration == "",
		"category":      d.Category == "",
		"beneficiaries": d.Beneficiaries == "",
		"proofOfWork":   d.ProofOfWork == "",
		"milestones":    !milestonesValid,
	}
}

// ValidationError carries the field flags of a draft that failed validation.
type ValidationError struct {
	Result Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid draft fields: %s", strings.Join(e.Result.Fields(), ", "))
}
