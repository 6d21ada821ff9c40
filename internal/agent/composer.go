package agent

import (
	"github.com/nlpodyssey/openai-agents-go/agents"
	"github.com/nlpodyssey/openai-agents-go/types/optional"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	DefaultSpecialistModel = "deepseek-r1-distill-llama-70b"
	DefaultIntegratorModel = "llama-3.3-70b-versatile"

	webSearchToolName = "transfer_task_to_web_search_agent"
	financialToolName = "transfer_task_to_finance_ai_agent"
)

// Config selects the backend endpoint and the model of each node.
type Config struct {
	BaseURL         string
	WebSearchModel  string
	FinancialModel  string
	IntegratorModel string
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.WebSearchModel == "" {
		c.WebSearchModel = DefaultSpecialistModel
	}
	if c.FinancialModel == "" {
		c.FinancialModel = DefaultSpecialistModel
	}
	if c.IntegratorModel == "" {
		c.IntegratorModel = DefaultIntegratorModel
	}
	return c
}

// Composer builds a fresh agent graph per credential.
type Composer struct {
	Config Config
	Market MarketData
	Web    WebSearcher
}

// NewComposer creates a Composer.
func NewComposer(cfg Config, market MarketData, web WebSearcher) *Composer {
	return &Composer{Config: cfg.withDefaults(), Market: market, Web: web}
}

// Compose builds the three-node graph. It returns false when cred is empty.
func (c *Composer) Compose(cred Credential) (*Graph, bool) {
	if cred.Empty() {
		return nil, false
	}
	cfg := c.Config.withDefaults()
	client := agents.NewOpenaiClient(optional.Value(cfg.BaseURL), option.WithAPIKey(string(cred)))
	tb := toolbox{market: c.Market, web: c.Web}

	webSearch := &Node{
		Role:         RoleWebSearch,
		Name:         webSearchName,
		Model:        cfg.WebSearchModel,
		Instructions: webSearchInstructions,
	}
	webSearch.Agent = agents.New(webSearch.Name).
		WithInstructions(webSearch.Instructions.Text(webSearchRole)).
		WithHandoffDescription(webSearchRole).
		WithModelInstance(agents.NewOpenAIChatCompletionsModel(openai.ChatModel(webSearch.Model), client)).
		WithTools(agents.NewFunctionTool("web_search", "Search the web for up to date information and news.", tb.webSearch))

	financial := &Node{
		Role:         RoleFinancial,
		Name:         financialName,
		Model:        cfg.FinancialModel,
		Instructions: financialInstructions,
	}
	financial.Agent = agents.New(financial.Name).
		WithInstructions(financial.Instructions.Text(financialRole)).
		WithHandoffDescription(financialRole).
		WithModelInstance(agents.NewOpenAIChatCompletionsModel(openai.ChatModel(financial.Model), client)).
		WithTools(
			agents.NewFunctionTool("get_stock_snapshot",
				"Get the latest stock price, moving averages, RSI and trading ranges for a symbol.", tb.stockSnapshot),
			agents.NewFunctionTool("get_company_profile",
				"Get analyst recommendations, stock fundamentals and company news for a symbol.", tb.companyProfile),
		)

	integrator := &Node{
		Role:         RoleIntegrator,
		Name:         integratorName,
		Model:        cfg.IntegratorModel,
		Instructions: integratorInstructions,
	}
	integrator.Agent = agents.New(integrator.Name).
		WithInstructions(integrator.Instructions.Text(integratorRole)).
		WithModelInstance(agents.NewOpenAIChatCompletionsModel(openai.ChatModel(integrator.Model), client)).
		WithTools(
			webSearch.Agent.AsTool(agents.AgentAsToolParams{
				ToolName:        webSearchToolName,
				ToolDescription: "Delegate a web search task to the web search agent.",
			}),
			financial.Agent.AsTool(agents.AgentAsToolParams{
				ToolName:        financialToolName,
				ToolDescription: "Delegate a financial data and technical analysis task to the finance agent.",
			}),
		)

	return &Graph{Integrator: integrator, WebSearch: webSearch, Financial: financial}, true
}
