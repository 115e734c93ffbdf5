package prompts

import "fmt"

// strategyModules is the fixed list of reasoning strategies the model
// selects from during the SELECT stage.
const strategyModules = `Break down into sub-tasks; Evaluate unit economics; Use systems thinking; Analyse competitor positioning; Identify pricing inefficiencies; Spot underused growth loops; Model conversion bottlenecks; Explore localisation opportunities; Prioritise by impact x feasibility; Conduct dynamic SWOT analysis`

// Plan returns the legacy SELECT/ADAPT/IMPLEMENT prompt. It is the one
// template sent with an empty system instruction.
func Plan(in Input) string {
	intelSection := ""
	if in.Intel != "" {
		intelSection = fmt.Sprintf("\n## Market Intel:\n%s\n", in.Intel)
	}

	return fmt.Sprintf(`You are a strategic reasoning assistant applying the SELF-DISCOVER framework to complex tasks.
Your role is not just to answer, but to reason first.
## Instructions: Apply the following 3-stage reasoning process to the task:
### 1. SELECT
From a list of reasoning strategies below, select the most relevant modules for solving the problem.
Strategies include: %s
### 2. ADAPT
Rephrase each selected module into a task-specific step, tailored to the problem at hand.
### 3. IMPLEMENT
Output your plan as a structured JSON object, where each key is a reasoning step and each value is a plain-language description of what you will do.
---
## Stage 2 - Execute the Reasoning Plan:
Use your own plan to solve the task:
- Generate actionable insights
- Identify 3-5 untapped strategic levers
- Score each lever on **Impact** and **Feasibility** (scale of 1-5)
- Recommend top 2-3 priorities based on overall score
- Clearly note assumptions, unknowns, or data gaps
---
## Business Context:
%s%s
## Output Format:
`+"```json"+`
{
  "selected_modules": ["..."],
  "adapted_structure": { "Step 1": "...", "Step 2": "..." },
  "opportunity_gaps": ["1. ...", "2. ..."],
  "prioritized_actions": [{ "action": "...", "impact": 4, "feasibility": 3 }]
}
`+"```"+`
%s`, strategyModules, contextBlock(in), intelSection, onlyJSON)
}
