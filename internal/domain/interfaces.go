package domain

import "context"

// Classification is the router's categorical verdict on a query.
// The three active values below are the only ones the router produces.
const (
	ClassificationAnswer  = "ANSWER"
	ClassificationClarify = "CLARIFY"
	ClassificationReject  = "REJECT"
)

// Extension vocabulary carried over from the wider semantic-routing surface.
// No component produces these today; front-ends that add conversational or
// attestation handling are expected to claim them.
const (
	ClassificationConversational     = "CONVERSATIONAL"
	ClassificationRequestAttestation = "REQUEST_ATTESTATION"
)

// TaskType hints the embedding backend whether the text is being indexed or
// used as a search query. Some providers encode the two asymmetrically, so
// mixing them up degrades ranking without erroring.
type TaskType string

const (
	TaskDocument TaskType = "RETRIEVAL_DOCUMENT"
	TaskQuery    TaskType = "RETRIEVAL_QUERY"
)

// DocumentRow is one row of the tabular document corpus.
type DocumentRow struct {
	FileName string
	Content  string
	MetaData string
}

// Point is an indexed document in the vector store: a dense integer id,
// the embedding vector, and the non-vector payload stored alongside it.
type Point struct {
	ID      uint64
	Vector  []float32
	Payload map[string]any
}

// ScoredPoint is a raw vector-store hit before result normalization.
type ScoredPoint struct {
	Score   float32
	Payload map[string]any
}

// SearchResult is a normalized retrieval hit. Metadata carries every payload
// field except "text".
type SearchResult struct {
	Text     string
	Score    float32
	Metadata map[string]any
}

// ModelResponse is the provider-agnostic result of a generation call.
type ModelResponse struct {
	Text     string
	Metadata map[string]any
}

// GenerateOptions carries optional structured-output settings for a
// generation call. ResponseSchema is a plain JSON-schema-shaped map so that
// callers stay independent of any provider SDK.
type GenerateOptions struct {
	ResponseMIMEType string
	ResponseSchema   map[string]any
}

// GenerationClient is the single polymorphic generation capability. Generate
// is stateless; SendMessage runs over a persistent multi-turn session, one
// session per conversation.
type GenerationClient interface {
	Generate(ctx context.Context, prompt string, opts *GenerateOptions) (*ModelResponse, error)
	SendMessage(ctx context.Context, text string) (*ModelResponse, error)
}

// EmbeddingClient converts text into a fixed-length vector. Title is only
// meaningful for TaskDocument and may be empty.
type EmbeddingClient interface {
	Embed(ctx context.Context, model, content string, task TaskType, title string) ([]float32, error)
}

// VectorStore is a named collection of points supporting destructive rebuild,
// batch upsert, and top-k cosine similarity search.
type VectorStore interface {
	Recreate(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, points []Point) error
	Search(ctx context.Context, vector []float32, limit int) ([]ScoredPoint, error)
	Count(ctx context.Context) (int, error)
}
