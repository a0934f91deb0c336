// Package chat drives a single conversation turn: tool selection, tool
// execution, optional web search, prompt assembly, the model call and
// response post-processing.
package chat

import (
	"context"
	"fmt"
	"time"

	"grokchat/config"
	"grokchat/prompt"
	"grokchat/provider"
	"grokchat/search"
	"grokchat/tools"
)

// TurnState names the phase a turn is in. States always advance in order;
// Failed is reachable from any phase.
type TurnState string

const (
	StateIdle           TurnState = "idle"
	StateSelecting      TurnState = "selecting"
	StateExecuting      TurnState = "executing"
	StateAssembling     TurnState = "assembling"
	StateAwaitingModel  TurnState = "awaiting_model"
	StatePostProcessing TurnState = "post_processing"
	StateDone           TurnState = "done"
	StateFailed         TurnState = "failed"
)

// braveSearchTool is the tool identifier that keeps the Brave context
// fetch enabled while tool integrations are active.
const braveSearchTool = "search_brave-search"

// missingKeyMessage is shown instead of a model reply when no xAI key is
// configured.
const missingKeyMessage = "Error: xAI API key not set. Please configure your API key in the settings."

// TurnRequest carries one user query plus the toggles and history that
// shape the turn.
type TurnRequest struct {
	Query            string
	History          []provider.Message // prior conversation, without the new query
	Model            string
	ReasoningEffort  string
	WebSearchEnabled bool
	MCPEnabled       bool
}

// TurnResult is everything a finished turn produced. On failure Content
// holds the user-facing error message and Err the underlying cause.
type TurnResult struct {
	Content     string
	Reasoning   string
	ToolsUsed   []string
	ToolResults []tools.ResultEnvelope
	UsedSearch  bool
	Err         error
}

// StatusFunc receives phase transitions and human-readable progress notes.
type StatusFunc func(state TurnState, detail string)

// Engine orchestrates turns. It owns no conversation state; everything a
// turn needs arrives in the TurnRequest.
type Engine struct {
	provider     provider.Provider
	selector     *tools.Selector
	executor     *tools.Executor
	searchClient *search.Client
	searchOpts   search.Options
	status       StatusFunc
}

// NewEngine wires an engine from its collaborators. status may be nil.
func NewEngine(p provider.Provider, selector *tools.Selector, executor *tools.Executor, searchClient *search.Client, searchOpts search.Options, status StatusFunc) *Engine {
	if status == nil {
		status = func(TurnState, string) {}
	}
	return &Engine{
		provider:     p,
		selector:     selector,
		executor:     executor,
		searchClient: searchClient,
		searchOpts:   searchOpts,
		status:       status,
	}
}

// Run executes one full turn. It never returns a non-nil error alongside a
// usable result: failures are folded into TurnResult with a user-facing
// Content so callers can render them directly.
func (e *Engine) Run(ctx context.Context, req TurnRequest) TurnResult {
	if e.provider == nil {
		e.status(StateFailed, "No provider configured")
		return TurnResult{
			Content: missingKeyMessage,
			Err:     fmt.Errorf("no provider configured"),
		}
	}

	newsQuery := search.TimeSensitive(req.Query)

	// Phase 1: tool selection.
	e.status(StateSelecting, "Selecting tools...")
	selection := &tools.SelectionState{}
	if req.MCPEnabled {
		selected, err := e.selector.Select(req.Query, tools.Toggles{WebSearchEnabled: req.WebSearchEnabled})
		if err != nil {
			if config.Debug {
				config.DebugLog.Printf("[chat] tool selection: %v", err)
			}
		} else {
			selection = selected
		}
	}

	// Phase 2: tool execution.
	var envelopes []tools.ResultEnvelope
	if req.MCPEnabled && len(selection.Tools) > 0 {
		e.status(StateExecuting, "Executing tools...")
		for _, tool := range selection.Tools {
			envelopes = append(envelopes, e.executor.Execute(ctx, tool, req.Query))
		}
	}

	// Brave context stays on while search is enabled unless tool mode took
	// over without selecting the Brave search tool.
	useBrave := req.WebSearchEnabled && (!req.MCPEnabled || selectionHasTool(selection, braveSearchTool))

	var searchContext string
	usedSearch := selection.UsingSearch
	if useBrave {
		e.status(StateExecuting, "Searching the web...")
		results, err := e.searchClient.Search(ctx, req.Query, e.braveOptions(req.Query, newsQuery))
		switch {
		case err != nil:
			if config.Debug {
				config.DebugLog.Printf("[chat] web search: %v", err)
			}
		case len(results) > 0:
			formatted, _ := search.FormatResultsForContext(results, req.Query)
			searchContext = formatted
			usedSearch = true
		}
	}

	// Phase 3: prompt assembly. Only successful envelopes reach the model;
	// failed ones still travel on the result for display.
	e.status(StateAssembling, "Assembling prompt...")
	systemPrompt, userPrompt := prompt.Build(prompt.Input{
		Query:         req.Query,
		Date:          time.Now(),
		SearchContext: searchContext,
		NewsQuery:     newsQuery,
		ToolsUsed:     selection.Tools,
		ToolResults:   successfulEnvelopes(envelopes),
	})

	// Phase 4: the model call.
	e.status(StateAwaitingModel, "Waiting for the model...")
	messages := make([]provider.Message, 0, len(req.History)+2)
	messages = append(messages, provider.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, req.History...)
	messages = append(messages, provider.Message{Role: "user", Content: userPrompt})

	completion, err := e.provider.Complete(ctx, provider.CompletionRequest{
		Model:           req.Model,
		Messages:        messages,
		Temperature:     0.3,
		ReasoningEffort: req.ReasoningEffort,
	})
	if err != nil {
		e.status(StateFailed, "Model call failed")
		return TurnResult{
			Content:     fmt.Sprintf("Sorry, I encountered an error while processing your request: %v", err),
			ToolsUsed:   selection.Tools,
			ToolResults: envelopes,
			UsedSearch:  usedSearch,
			Err:         err,
		}
	}

	// Phase 5: post-processing.
	e.status(StatePostProcessing, "Post-processing response...")
	content := prompt.PostProcess(completion.Content, searchContext, selection.Tools)

	e.status(StateDone, "")
	return TurnResult{
		Content:     content,
		Reasoning:   completion.Reasoning,
		ToolsUsed:   selection.Tools,
		ToolResults: envelopes,
		UsedSearch:  usedSearch,
	}
}

// braveOptions sizes the result count to the query and restricts freshness
// for time-sensitive queries.
func (e *Engine) braveOptions(query string, newsQuery bool) search.Options {
	opts := e.searchOpts
	opts.Count = search.ResultCountForQuery(query)
	if newsQuery {
		opts.Freshness = search.FreshnessDay
	}
	return opts
}

func selectionHasTool(selection *tools.SelectionState, tool string) bool {
	for _, t := range selection.Tools {
		if t == tool {
			return true
		}
	}
	return false
}

func successfulEnvelopes(envelopes []tools.ResultEnvelope) []tools.ResultEnvelope {
	var ok []tools.ResultEnvelope
	for _, env := range envelopes {
		if env.Success {
			ok = append(ok, env)
		}
	}
	return ok
}
