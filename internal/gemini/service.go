package gemini

import (
	"context"
	"iter"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"gemini-chat-backend/internal/types"
)

var (
	// ErrEmptyMessage means the caller supplied no usable text. Checked
	// before any upstream call is made.
	ErrEmptyMessage = goerr.New("message must not be empty")
	// ErrNotConfigured means the service has no Gemini client, i.e. the API
	// key was missing at startup. An operator problem, not a caller problem.
	ErrNotConfigured = goerr.New("gemini api key is not configured")
)

// Result is the normalized outcome of one generation call.
type Result struct {
	// Text is the first candidate's text.
	Text string
	// Citations are the web URIs of the grounding chunks, in the order the
	// model returned them. Nil when grounding produced none.
	Citations []string
	// SearchEntryPoint is the rendered search-suggestions HTML, verbatim.
	// Empty means the model attached none; it is never set to "".
	SearchEntryPoint string
}

// Service orchestrates a single generation round trip: validate input, call
// the model once, normalize the response. It holds no per-request state.
type Service struct {
	gen       Generator
	grounding bool
}

// NewService wires a Generator. gen may be nil when the deployment has no API
// key; every call then fails with ErrNotConfigured.
func NewService(gen Generator, grounding bool) *Service {
	return &Service{gen: gen, grounding: grounding}
}

// Generate runs one generation call for the given conversation and returns
// the normalized result. Upstream failures come back wrapped, never as a
// panic, and no retry is attempted here.
func (s *Service) Generate(ctx context.Context, turns []types.ChatTurn) (*Result, error) {
	contents, err := s.prepare(turns)
	if err != nil {
		return nil, err
	}

	resp, err := s.gen.GenerateContent(ctx, contents, s.requestConfig())
	if err != nil {
		return nil, goerr.Wrap(err, "gemini generate failed")
	}
	return normalize(resp)
}

// GenerateStream yields the response as incremental text chunks. The sequence
// is finite and non-restartable; it stops early when the consumer stops
// taking values or ctx is cancelled.
func (s *Service) GenerateStream(ctx context.Context, turns []types.ChatTurn) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		contents, err := s.prepare(turns)
		if err != nil {
			yield("", err)
			return
		}
		for resp, err := range s.gen.GenerateContentStream(ctx, contents, s.requestConfig()) {
			if err != nil {
				yield("", goerr.Wrap(err, "gemini stream failed"))
				return
			}
			chunk := candidateText(resp)
			if chunk == "" {
				continue
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// prepare validates the conversation and converts it to genai contents. The
// chat API speaks "assistant"; Gemini calls the same role "model".
func (s *Service) prepare(turns []types.ChatTurn) ([]*genai.Content, error) {
	if s.gen == nil {
		return nil, ErrNotConfigured
	}

	contents := make([]*genai.Content, 0, len(turns))
	hasText := false
	for _, turn := range turns {
		role := "user"
		if turn.Role == "assistant" || turn.Role == "model" {
			role = "model"
		}
		if strings.TrimSpace(turn.Text) != "" {
			hasText = true
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	if !hasText {
		return nil, ErrEmptyMessage
	}
	return contents, nil
}

func (s *Service) requestConfig() *genai.GenerateContentConfig {
	if !s.grounding {
		return nil
	}
	return &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
}

// normalize flattens the genai response envelope. Absence at any level of the
// grounding metadata is a normal state, not an error.
func normalize(resp *genai.GenerateContentResponse) (*Result, error) {
	text := candidateText(resp)
	if text == "" {
		return nil, goerr.New("model response contained no text")
	}
	result := &Result{Text: text}

	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return result, nil
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		result.Citations = append(result.Citations, chunk.Web.URI)
	}
	if meta.SearchEntryPoint != nil {
		result.SearchEntryPoint = meta.SearchEntryPoint.RenderedContent
	}
	return result, nil
}

// candidateText concatenates the text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
