package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giovassz/inventario/internal/core/domain"
	"github.com/giovassz/inventario/internal/core/logger"
	"github.com/giovassz/inventario/internal/core/port"
	"github.com/giovassz/inventario/internal/core/utils"
)

const (
	maxSuggestions    = 3
	queryProductLimit = 20

	suggestTemperature = 0.7
	rewriteTemperature = 0.7
	queryTemperature   = 0.6

	suggestMaxTokens = 200
	rewriteMaxTokens = 250
	queryMaxTokens   = 400

	defaultTone        = "professional"
	suggestionCacheTTL = 10 * time.Minute
)

// Model output for name suggestions arrives as bullet or numbered lists
// often enough that each line is stripped of leading list punctuation.
var leadingListJunk = regexp.MustCompile(`^[\s\-*\d.|:"']+`)

// AssistantService is the gateway in front of the chat-completion API. It
// is stateless apart from a short-lived suggestion cache; every method
// short-circuits blank input to a benign empty result without an upstream
// call.
type AssistantService struct {
	llm             port.LLMPort
	products        port.ProductPort
	suggestionCache port.CachePort[[]string]
	language        string
}

func NewAssistantService(llm port.LLMPort, products port.ProductPort, suggestionCache port.CachePort[[]string], language string) *AssistantService {
	return &AssistantService{
		llm:             llm,
		products:        products,
		suggestionCache: suggestionCache,
		language:        language,
	}
}

func (s *AssistantService) SuggestNames(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}, nil
	}

	cacheKey := s.suggestionCacheKey(text)
	if cached, err := s.suggestionCache.Get(ctx, cacheKey); err != nil {
		logger.Warn(ctx, "assistant: suggestion cache read failed", map[string]any{"error": err.Error()})
	} else if cached != nil {
		return *cached, nil
	}

	content, err := s.llm.Complete(ctx, port.ChatRequest{
		Temperature: suggestTemperature,
		MaxTokens:   suggestMaxTokens,
		Messages: []port.ChatMessage{
			{Role: port.RoleSystem, Content: fmt.Sprintf(
				"You are a marketing expert. Generate EXACTLY 3 creative, appealing product names in %s for the product described. Return only the names, one per line.",
				s.language)},
			{Role: port.RoleUser, Content: fmt.Sprintf(`Product: """%s"""`, text)},
		},
	})
	if err != nil {
		logger.Error(ctx, "assistant: suggest completion failed", err, map[string]any{"text_len": len(text)})
		return nil, err
	}

	suggestions := parseSuggestions(content)
	if len(suggestions) > 0 {
		if err := s.suggestionCache.Set(ctx, cacheKey, &suggestions, suggestionCacheTTL); err != nil {
			logger.Warn(ctx, "assistant: suggestion cache write failed", map[string]any{"error": err.Error()})
		}
	}
	return suggestions, nil
}

// RewriteNotes returns the rewritten text, or echoes the input when the
// model fails or produces nothing usable.
func (s *AssistantService) RewriteNotes(ctx context.Context, text, tone string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if strings.TrimSpace(tone) == "" {
		tone = defaultTone
	}

	content, err := s.llm.Complete(ctx, port.ChatRequest{
		Temperature: rewriteTemperature,
		MaxTokens:   rewriteMaxTokens,
		Messages: []port.ChatMessage{
			{Role: port.RoleSystem, Content: fmt.Sprintf(
				"You are an expert copywriter. Rewrite the text in %s to make it more appealing, detailed and persuasive. Highlight benefits and build purchase interest. Return only the final text, without explanations.",
				s.language)},
			{Role: port.RoleUser, Content: fmt.Sprintf("Text: \"\"\"%s\"\"\"\nTone: %s", text, tone)},
		},
	})
	if err != nil {
		logger.Error(ctx, "assistant: rewrite completion failed", err, map[string]any{"text_len": len(text)})
		return text, err
	}

	improved := strings.TrimSpace(content)
	if improved == "" {
		return text, nil
	}
	return improved, nil
}

// QueryProducts feeds the most recent products to the model together with
// the caller's question and returns both the model's answer and the exact
// product slice it saw, capped at queryProductLimit.
func (s *AssistantService) QueryProducts(ctx context.Context, query string) (string, []*domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return "", []*domain.Product{}, nil
	}

	products, err := s.products.ListRecent(ctx, queryProductLimit)
	if err != nil {
		logger.Error(ctx, "assistant: listing products for query failed", err, nil)
		return "", nil, err
	}

	listing, err := marshalProductListing(products)
	if err != nil {
		return "", nil, err
	}

	answer, err := s.llm.Complete(ctx, port.ChatRequest{
		Temperature: queryTemperature,
		MaxTokens:   queryMaxTokens,
		Messages: []port.ChatMessage{
			{Role: port.RoleSystem, Content: fmt.Sprintf(
				"You are a data analyst. You receive a product listing as JSON. Answer in %s, interpreting the data according to the user's question. When asked for quantities, prices or summaries, calculate and explain clearly.",
				s.language)},
			{Role: port.RoleUser, Content: fmt.Sprintf("Question: \"\"\"%s\"\"\"\n\nProducts:\n%s", query, listing)},
		},
	})
	if err != nil {
		logger.Error(ctx, "assistant: query completion failed", err, map[string]any{"products": len(products)})
		return "", nil, err
	}

	return strings.TrimSpace(answer), products, nil
}

func (s *AssistantService) suggestionCacheKey(text string) string {
	return utils.HashJSON(struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}{
		Text:     strings.ToLower(text),
		Language: s.language,
	})
}

func parseSuggestions(content string) []string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	suggestions := make([]string, 0, maxSuggestions)
	for _, line := range lines {
		name := strings.TrimSpace(leadingListJunk.ReplaceAllString(line, ""))
		if utf8.RuneCountInString(name) <= 1 {
			continue
		}
		suggestions = append(suggestions, name)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions
}

type productListingEntry struct {
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func marshalProductListing(products []*domain.Product) (string, error) {
	entries := make([]productListingEntry, len(products))
	for i, p := range products {
		entries[i] = productListingEntry{
			Name:      p.Name,
			Quantity:  p.Quantity,
			Price:     p.Price,
			Notes:     p.Notes,
			CreatedAt: p.CreatedAt,
		}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
