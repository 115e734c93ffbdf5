package prompts

import (
	"fmt"
	"strings"
)

// Input carries the business context every builder interpolates.
type Input struct {
	// Company is the client company name.
	Company string

	// Industry is the industry label (validated upstream).
	Industry string

	// CompanySize is the company-size label (validated upstream).
	CompanySize string

	// Challenge is the free-text business challenge.
	Challenge string

	// FocusAreas are optional focus-area tags.
	FocusAreas []string

	// Intel is an optional competitor-page digest to fold into the
	// prompt (competitive and plan kinds).
	Intel string

	// Briefs is an optional digest of supporting documents.
	Briefs string
}

// ForKind returns the user prompt for the plan kind or a detail kind.
// Detail kinds require a non-empty action. The executive summary is not
// dispatched here: it takes the plan digest, so callers build it with
// Summary directly.
func ForKind(kind Kind, in Input, action string) string {
	switch kind {
	case KindPlan:
		return Plan(in)
	case KindImplementation:
		return Implementation(in, action)
	case KindROI:
		return ROI(in, action)
	case KindCompetitive:
		return Competitive(in, action)
	case KindRisk:
		return Risk(in, action)
	case KindFinancial:
		return Financial(in, action)
	case KindKPI:
		return KPI(in, action)
	default:
		return ""
	}
}

// contextBlock renders the shared business-context section.
func contextBlock(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Company:** %s\n", in.Company)
	fmt.Fprintf(&b, "**Industry:** %s\n", in.Industry)
	fmt.Fprintf(&b, "**Company size:** %s\n", in.CompanySize)
	fmt.Fprintf(&b, "**Challenge:** %s\n", in.Challenge)
	if len(in.FocusAreas) > 0 {
		fmt.Fprintf(&b, "**Focus areas:** %s\n", strings.Join(in.FocusAreas, ", "))
	}
	if in.Briefs != "" {
		fmt.Fprintf(&b, "\n## Supporting Documents\n\n%s\n", in.Briefs)
	}
	return b.String()
}

// onlyJSON is the closing instruction shared by object-shaped kinds.
const onlyJSON = "Return ONLY the JSON object above. No surrounding prose, no markdown code fences."
