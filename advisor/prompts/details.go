package prompts

import "fmt"

// Implementation returns the phased implementation-plan prompt for a
// prioritized action.
func Implementation(in Input, action string) string {
	return fmt.Sprintf(`Create a concrete implementation plan for this strategic action:

**Action:** %s

%s
Structure the plan as sequenced phases with durations, key activities, and dependencies. Include the resources required and any quick wins achievable in the first 30 days.

## Output Format:
`+"```json"+`
{
  "phases": [{ "name": "...", "duration": "...", "activities": ["..."], "dependencies": ["..."] }],
  "resources": ["..."],
  "quick_wins": ["..."]
}
`+"```"+`
%s`, action, contextBlock(in), onlyJSON)
}

// ROI returns the monthly ROI projection prompt. Unlike the other
// kinds, its response is mined for a bare numeric array rather than an
// object, so the contract asks for exactly twelve numbers.
func ROI(in Input, action string) string {
	return fmt.Sprintf(`Project the return on investment for this strategic action over the next 12 months:

**Action:** %s

%s
Estimate a cumulative ROI multiple for each month, accounting for ramp-up time and realistic adoption. Briefly state your key assumptions.

## Output Format:
End your answer with a JSON array of exactly 12 numbers, one cumulative ROI multiple per month, for example:
[0.2, 0.5, 0.9, 1.4, 2.0, 2.6, 3.1, 3.7, 4.2, 4.8, 5.3, 5.9]`, action, contextBlock(in))
}

// Competitive returns the competitive-analysis prompt. Fetched market
// intel, when available, is folded in as grounding material.
func Competitive(in Input, action string) string {
	intelSection := ""
	if in.Intel != "" {
		intelSection = fmt.Sprintf("\n## Market Intel (fetched from a competitor page):\n%s\n", in.Intel)
	}

	return fmt.Sprintf(`Analyze the competitive landscape around this strategic action:

**Action:** %s

%s%s
Identify the main competitors, their strengths and weaknesses relative to this move, how we should differentiate, and the resulting market position.

## Output Format:
`+"```json"+`
{
  "competitors": [{ "name": "...", "strengths": ["..."], "weaknesses": ["..."] }],
  "differentiation": ["..."],
  "market_position": "..."
}
`+"```"+`
%s`, action, contextBlock(in), intelSection, onlyJSON)
}

// Risk returns the risk-assessment prompt.
func Risk(in Input, action string) string {
	return fmt.Sprintf(`Assess the risks of executing this strategic action:

**Action:** %s

%s
List the material risks with likelihood and severity scored 1-5, and a concrete mitigation for each.

## Output Format:
`+"```json"+`
{
  "risks": [{ "risk": "...", "likelihood": 3, "severity": 4, "mitigation": "..." }]
}
`+"```"+`
%s`, action, contextBlock(in), onlyJSON)
}

// Financial returns the financial-projection prompt.
func Financial(in Input, action string) string {
	return fmt.Sprintf(`Build a financial projection for this strategic action:

**Action:** %s

%s
Project the revenue impact for years one through three, break down the costs, estimate months to break even, and note what the projection is most sensitive to.

## Output Format:
`+"```json"+`
{
  "revenue_impact": { "year_one": "...", "year_two": "...", "year_three": "..." },
  "cost_breakdown": [{ "item": "...", "amount": "..." }],
  "break_even_months": 9,
  "sensitivity": ["..."]
}
`+"```"+`
%s`, action, contextBlock(in), onlyJSON)
}

// KPI returns the KPI-dashboard prompt.
func KPI(in Input, action string) string {
	return fmt.Sprintf(`Design a KPI dashboard to track this strategic action:

**Action:** %s

%s
Define the KPIs with targets, measurement cadence, and an owning function, separating leading from lagging indicators.

## Output Format:
`+"```json"+`
{
  "kpis": [{ "name": "...", "target": "...", "cadence": "...", "owner": "..." }],
  "leading_indicators": ["..."],
  "lagging_indicators": ["..."]
}
`+"```"+`
%s`, action, contextBlock(in), onlyJSON)
}

// Summary returns the executive-summary prompt. planDigest is a compact
// rendering of the strategy plan and any generated elaborations.
func Summary(in Input, planDigest string) string {
	return fmt.Sprintf(`Write an executive summary of the strategy analysis below for the leadership team:

%s
## Analysis to Summarize:
%s

## Output Format:
`+"```json"+`
{
  "headline": "...",
  "situation": "...",
  "recommendation": "...",
  "next_steps": ["..."]
}
`+"```"+`
%s`, contextBlock(in), planDigest, onlyJSON)
}
