package llm

// PromptRequest is a single system+user prompt sent to a model.
type PromptRequest struct {
	SystemPrompt string
	UserInput    string
	// Model is the provider-specific model id. Empty selects the standard tier.
	Model string
}

// ModelReply is the unmodified text a model returned. A reply is never built
// with empty text; that case is ErrEmptyReply.
type ModelReply struct {
	RawText string
	Model   string
	// Citations lists source URLs when the provider reports them separately.
	Citations []string
}
