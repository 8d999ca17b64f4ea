package gemini

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"gemini-chat-backend/internal/types"
)

type fakeGenerator struct {
	calls    int
	contents []*genai.Content
	config   *genai.GenerateContentConfig

	resp *genai.GenerateContentResponse
	err  error

	stream []*genai.GenerateContentResponse
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func (f *fakeGenerator) GenerateContentStream(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.calls++
	f.contents = contents
	f.config = config
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		for _, resp := range f.stream {
			if !yield(resp, nil) {
				return
			}
		}
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func userTurns(text string) []types.ChatTurn {
	return []types.ChatTurn{{Role: "user", Text: text}}
}

func TestGenerate(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("hello there")}
	svc := NewService(gen, false)

	result, err := svc.Generate(context.Background(), userTurns("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello there", result.Text)
	assert.Empty(t, result.Citations)
	assert.Empty(t, result.SearchEntryPoint)
	assert.Equal(t, 1, gen.calls)
	assert.Nil(t, gen.config)
}

func TestGenerateEmptyMessage(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("unused")}
	svc := NewService(gen, true)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Generate(context.Background(), userTurns(text))
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Equal(t, 0, gen.calls, "empty input must not reach the model")
}

func TestGenerateNotConfigured(t *testing.T) {
	svc := NewService(nil, true)

	_, err := svc.Generate(context.Background(), userTurns("hello"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerateGroundingTool(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("grounded")}
	svc := NewService(gen, true)

	_, err := svc.Generate(context.Background(), userTurns("what happened today"))
	require.NoError(t, err)
	require.NotNil(t, gen.config)
	require.Len(t, gen.config.Tools, 1)
	assert.NotNil(t, gen.config.Tools[0].GoogleSearch)
}

func TestGenerateCitationOrder(t *testing.T) {
	resp := textResponse("with sources")
	resp.Candidates[0].GroundingMetadata = &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{URI: "https://a.example/1"}},
			{}, // chunk without a web URI is skipped, not an error
			{Web: &genai.GroundingChunkWeb{URI: "https://c.example/3"}},
		},
	}
	svc := NewService(&fakeGenerator{resp: resp}, true)

	result, err := svc.Generate(context.Background(), userTurns("sources please"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/1", "https://c.example/3"}, result.Citations)
}

func TestGenerateSearchEntryPoint(t *testing.T) {
	resp := textResponse("with widget")
	resp.Candidates[0].GroundingMetadata = &genai.GroundingMetadata{
		SearchEntryPoint: &genai.SearchEntryPoint{RenderedContent: "<div>search</div>"},
	}
	svc := NewService(&fakeGenerator{resp: resp}, true)

	result, err := svc.Generate(context.Background(), userTurns("widget please"))
	require.NoError(t, err)
	assert.Equal(t, "<div>search</div>", result.SearchEntryPoint)
}

func TestGenerateRoleMapping(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("ok")}
	svc := NewService(gen, false)

	turns := []types.ChatTurn{
		{Role: "user", Text: "first"},
		{Role: "assistant", Text: "second"},
		{Role: "user", Text: "third"},
	}
	_, err := svc.Generate(context.Background(), turns)
	require.NoError(t, err)

	require.Len(t, gen.contents, 3)
	assert.Equal(t, "user", gen.contents[0].Role)
	assert.Equal(t, "model", gen.contents[1].Role)
	assert.Equal(t, "user", gen.contents[2].Role)
	assert.Equal(t, "first", gen.contents[0].Parts[0].Text)
	assert.Equal(t, "second", gen.contents[1].Parts[0].Text)
	assert.Equal(t, "third", gen.contents[2].Parts[0].Text)
}

func TestGenerateUpstreamError(t *testing.T) {
	cause := errors.New("quota exceeded")
	svc := NewService(&fakeGenerator{err: cause}, false)

	_, err := svc.Generate(context.Background(), userTurns("hello"))
	require.Error(t, err)
	assert.ErrorIs(t, err, cause, "original cause must be retained")
	assert.NotErrorIs(t, err, ErrEmptyMessage)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}

func TestGenerateNoCandidates(t *testing.T) {
	svc := NewService(&fakeGenerator{resp: &genai.GenerateContentResponse{}}, false)

	_, err := svc.Generate(context.Background(), userTurns("hello"))
	assert.Error(t, err)
}

func TestGenerateStream(t *testing.T) {
	gen := &fakeGenerator{stream: []*genai.GenerateContentResponse{
		textResponse("Hel"),
		textResponse("lo "),
		{}, // chunk with no text is skipped
		textResponse("world"),
	}}
	svc := NewService(gen, false)

	var got string
	for chunk, err := range svc.GenerateStream(context.Background(), userTurns("hi")) {
		require.NoError(t, err)
		got += chunk
	}
	assert.Equal(t, "Hello world", got)
}

func TestGenerateStreamEmptyMessage(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewService(gen, false)

	var seen []error
	for _, err := range svc.GenerateStream(context.Background(), userTurns("  ")) {
		seen = append(seen, err)
	}
	require.Len(t, seen, 1)
	assert.ErrorIs(t, seen[0], ErrEmptyMessage)
	assert.Equal(t, 0, gen.calls)
}

func TestGenerateStreamUpstreamError(t *testing.T) {
	cause := errors.New("connection reset")
	svc := NewService(&fakeGenerator{err: cause}, false)

	var last error
	for _, err := range svc.GenerateStream(context.Background(), userTurns("hi")) {
		last = err
	}
	assert.ErrorIs(t, last, cause)
}

func TestGenerateStreamConsumerStops(t *testing.T) {
	gen := &fakeGenerator{stream: []*genai.GenerateContentResponse{
		textResponse("one"),
		textResponse("two"),
		textResponse("three"),
	}}
	svc := NewService(gen, false)

	var got []string
	for chunk, err := range svc.GenerateStream(context.Background(), userTurns("hi")) {
		require.NoError(t, err)
		got = append(got, chunk)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"one", "two"}, got)
}
