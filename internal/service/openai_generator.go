package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/model"
)

const (
	openAIBaseURL            = "https://api.openai.com/v1"
	openAIChatCompletionPath = "/chat/completions"

	// MinCompletionTokens is the shortest completion accepted from the model.
	MinCompletionTokens = 50
)

// ErrRejectedCompletion is returned for empty or too short completions.
var ErrRejectedCompletion = errors.New("completion rejected")

// DefaultModels maps quality tiers to chat models.
var DefaultModels = map[model.QualityTier]string{
	model.QualityBasic: "gpt-3.5-turbo-1106",
	model.QualityRich:  "gpt-4-1106-preview",
}

// GenerationRequest is everything the content generator is given.
type GenerationRequest struct {
	Stats         model.MatchStats
	Language      model.Language
	Quality       model.QualityTier
	VoiceStyle    string
	CustomInsults []string
}

// JokeGenerationRequest is what the generator is given for a joke.
type JokeGenerationRequest struct {
	Topic      string
	Language   model.Language
	Quality    model.QualityTier
	VoiceStyle string
}

// ContentGenerator produces the roast and joke texts.
type ContentGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	GenerateJoke(ctx context.Context, req JokeGenerationRequest) (string, error)
}

// NumberSpeller rewrites digits as words so speech engines read them naturally.
type NumberSpeller interface {
	SpellNumbers(ctx context.Context, text string, lang model.Language) (string, error)
}

// OpenAIGenerator is a ContentGenerator and NumberSpeller backed by OpenAI chat completions.
type OpenAIGenerator struct {
	client  *http.Client
	apiKey  string
	baseURL string
	models  map[model.QualityTier]string
}

var (
	_ ContentGenerator = (*OpenAIGenerator)(nil)
	_ NumberSpeller    = (*OpenAIGenerator)(nil)
)

// NewOpenAIGenerator creates an OpenAIGenerator. Empty baseURL and nil models
// select the defaults.
func NewOpenAIGenerator(apiKey, baseURL string, models map[model.QualityTier]string) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = openAIBaseURL
	}
	if models == nil {
		models = DefaultModels
	}
	return &OpenAIGenerator{
		client:  &http.Client{Timeout: 60 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		models:  models,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	return g.complete(ctx, g.model(req.Quality), 0.9, systemPrompt(req), statsPrompt(req.Stats), true)
}

func (g *OpenAIGenerator) GenerateJoke(ctx context.Context, req JokeGenerationRequest) (string, error) {
	return g.complete(ctx, g.model(req.Quality), 0.9, jokePrompt(req), "Topic: "+req.Topic, false)
}

// SpellNumbers always uses the basic model at temperature 0.
func (g *OpenAIGenerator) SpellNumbers(ctx context.Context, text string, lang model.Language) (string, error) {
	system := fmt.Sprintf("Rewrite every number and digit in the user's text as words in %s (%s). "+
		"Read scores like 4/2/6 digit by digit. Round numbers above 1000 to thousands. Return only the rewritten text.",
		lang, lang.Description())
	return g.complete(ctx, g.model(model.QualityBasic), 0, system, text, false)
}

func (g *OpenAIGenerator) model(q model.QualityTier) string {
	if name, ok := g.models[q]; ok {
		return name
	}
	return g.models[model.QualityBasic]
}

// complete runs one chat completion. With minTokens set, completions shorter
// than MinCompletionTokens are rejected.
func (g *OpenAIGenerator) complete(ctx context.Context, modelName string, temperature float64, system, user string, minTokens bool) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       modelName,
		Temperature: temperature,
		MaxTokens:   1024,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+openAIChatCompletionPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading completion: %w", ErrProvider, err)
	}
	var out chatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decoding completion (HTTP %d): %w", ErrProvider, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("%w: completion failed: %s", ErrProvider, out.Error.Message)
		}
		return "", fmt.Errorf("%w: completion failed: HTTP %d", ErrProvider, resp.StatusCode)
	}

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: %w: empty completion", ErrProvider, ErrRejectedCompletion)
	}
	if t := out.Usage.CompletionTokens; minTokens && t > 0 && t < MinCompletionTokens {
		return "", fmt.Errorf("%w: %w: %d completion tokens", ErrProvider, ErrRejectedCompletion, t)
	}
	return out.Choices[0].Message.Content, nil
}

func systemPrompt(req GenerationRequest) string {
	var b strings.Builder
	b.WriteString("You write short, savage and funny messages for a Discord bot roasting a League of Legends player (abusedPlayer) about their last game. ")
	fmt.Fprintf(&b, "Write only in %s (%s).\n", req.Language, req.Language.Description())
	if len(req.CustomInsults) > 0 {
		fmt.Fprintf(&b, "Open the message with this insult and flow naturally into the next sentence: %s\n",
			req.CustomInsults[rand.IntN(len(req.CustomInsults))])
	}
	if req.VoiceStyle != "" {
		fmt.Fprintf(&b, "Write in the speaking style of: %s\n", req.VoiceStyle)
	}
	return b.String()
}

func jokePrompt(req JokeGenerationRequest) string {
	var b strings.Builder
	b.WriteString("You write jokes for a Discord bot. The joke must be about the topic the user gives, simple to understand and nothing held back. Return only the joke. ")
	fmt.Fprintf(&b, "Write only in %s (%s).\n", req.Language, req.Language.Description())
	if req.VoiceStyle != "" {
		fmt.Fprintf(&b, "Write in the speaking style of: %s\n", req.VoiceStyle)
	}
	return b.String()
}

func statsPrompt(s model.MatchStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- abusedPlayer = %s\n", s.Name)
	fmt.Fprintf(&b, "- win = %t\n", s.Win)
	fmt.Fprintf(&b, "- champion = %s\n", s.Champion)
	fmt.Fprintf(&b, "- damage = %d\n", s.Damage)
	fmt.Fprintf(&b, "- kda = %s\n", s.KDA)
	fmt.Fprintf(&b, "- highDamage = %t\n", s.HighDamage)
	fmt.Fprintf(&b, "- lowDamage = %t\n", s.LowDamage)
	fmt.Fprintf(&b, "- highMitigatedDamage = %t\n", s.HighMitigatedDamage)
	// Vision, gold and objectives only mean something on Summoner's Rift.
	if s.GameType == "CLASSIC" {
		fmt.Fprintf(&b, "- position = %s\n", s.Position)
		fmt.Fprintf(&b, "- highVisionScore = %t\n", s.HighVisionScore)
		fmt.Fprintf(&b, "- lowVisionScore = %t\n", s.LowVisionScore)
		fmt.Fprintf(&b, "- highGold = %t\n", s.HighGold)
		fmt.Fprintf(&b, "- highObjectivesDamage = %t\n", s.HighObjectivesDamage)
	}
	fmt.Fprintf(&b, "- bestTeammate = %s\n", s.BestTeammate)
	return b.String()
}
