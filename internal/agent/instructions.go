package agent

const (
	webSearchName = "Web Search Agent"
	webSearchRole = "Search the web and return results with detailed sources."

	financialName = "Finance AI Agent"
	financialRole = "Provide financial information grounded in technical analysis."

	integratorName = "Multi AI Agent"
	integratorRole = "Integrate the web search and financial agents, giving complete and uniform answers."
)

var (
	webSearchInstructions = NewInstructionSet(
		"Run thorough searches and return results with the sources explicitly listed.",
		"Standardize news results as a table with the columns 'Date', 'Title', 'Source' and 'Summary'.",
		"Keep the returned structure identical regardless of the instrument searched.",
	)

	financialInstructions = NewInstructionSet(
		"Build a financial analysis from the retrieved data. Use at most 5 lines.",
		"Be direct and technical in the analysis; do not speculate.",
	)

	integratorInstructions = NewInstructionSet(
		"Always include the sources of the data presented.",
		"Be brief, direct and technical in the financial analysis.",
		"Use tables for news results, keeping the same structure for similar queries.",
		"When querying an instrument, return news with the columns 'Date', 'Title', 'Source', 'Link' and 'Summary', no matter which instrument or when it is queried.",
	)
)
