package driven

import "context"

// Summarizer defines the driven port for the LLM that turns an activity
// report into a prose summary. The first line of the returned text is used
// as the digest title.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
	// Model returns the model identifier, recorded in the digest footer.
	Model() string
}
