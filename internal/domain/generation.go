package domain

// CompletionRequest is what the core asks of a text-generation service.
type CompletionRequest struct {
	SystemPrompt string
	Prompt       string
	JSONMode     bool
	Temperature  float32
	MaxTokens    int
}

// ImageRequest is what the core asks of an image-generation service.
type ImageRequest struct {
	Prompt string
	Size   string
}

// GeneratedImage is one result of an image-generation call. URL may be empty.
type GeneratedImage struct {
	URL string
}
