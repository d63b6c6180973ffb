package analysis

import "fmt"

// Force is one of the five JTBD (Jobs-to-be-Done) classification labels
// used to categorize a survey answer.
type Force string

const (
	ForcePainOfOld    Force = "pain_of_old"
	ForcePullOfNew    Force = "pull_of_new"
	ForceAnchorsToOld Force = "anchors_to_old"
	ForceAnxietyOfNew Force = "anxiety_of_new"
	ForceDemographic  Force = "demographic"
)

// Forces lists every valid label, in canonical order.
func Forces() []Force {
	return []Force{ForcePainOfOld, ForcePullOfNew, ForceAnchorsToOld, ForceAnxietyOfNew, ForceDemographic}
}

// Valid reports membership in the closed label set.
func (f Force) Valid() bool {
	switch f {
	case ForcePainOfOld, ForcePullOfNew, ForceAnchorsToOld, ForceAnxietyOfNew, ForceDemographic:
		return true
	}
	return false
}

// ParseForce validates a raw label.
func ParseForce(s string) (Force, error) {
	f := Force(s)
	if !f.Valid() {
		return "", fmt.Errorf("invalid force label: %q", s)
	}
	return f, nil
}
