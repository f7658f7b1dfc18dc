package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/giovassz/inventario/internal/core/domain"
	"github.com/giovassz/inventario/internal/core/port"
	"github.com/giovassz/inventario/internal/core/port/mock"
	"go.uber.org/mock/gomock"
)

type assistantMocks struct {
	llm         *mock.MockLLMPort
	productRepo *mock.MockProductPort
	cache       *mock.MockCachePort[[]string]
}

func setupAssistantService(t *testing.T) (*AssistantService, *assistantMocks) {
	ctrl := gomock.NewController(t)

	llm := mock.NewMockLLMPort(ctrl)
	productRepo := mock.NewMockProductPort(ctrl)
	cache := mock.NewMockCachePort[[]string](ctrl)

	svc := NewAssistantService(llm, productRepo, cache, "Spanish")
	return svc, &assistantMocks{llm: llm, productRepo: productRepo, cache: cache}
}

func TestAssistantService_SuggestNames(t *testing.T) {
	t.Run("blank input returns empty list without calling the model", func(t *testing.T) {
		svc, _ := setupAssistantService(t)

		suggestions, err := svc.SuggestNames(context.Background(), "   ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if suggestions == nil || len(suggestions) != 0 {
			t.Fatalf("expected empty non-nil list, got %v", suggestions)
		}
	})

	t.Run("parses list output and caps at three", func(t *testing.T) {
		svc, m := setupAssistantService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.llm.EXPECT().
			Complete(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, request port.ChatRequest) (string, error) {
				if request.Temperature != suggestTemperature || request.MaxTokens != suggestMaxTokens {
					t.Fatalf("unexpected sampling parameters: %+v", request)
				}
				if len(request.Messages) != 2 || request.Messages[0].Role != port.RoleSystem {
					t.Fatalf("unexpected messages: %+v", request.Messages)
				}
				return "1. Silla Nube\n- Asiento Real\n\n* Trono Urbano\n4. Extra Name\nx", nil
			})
		m.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), suggestionCacheTTL).Return(nil)

		suggestions, err := svc.SuggestNames(context.Background(), "silla ergonómica")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		expected := []string{"Silla Nube", "Asiento Real", "Trono Urbano"}
		if len(suggestions) != len(expected) {
			t.Fatalf("expected %d suggestions, got %v", len(expected), suggestions)
		}
		for i := range expected {
			if suggestions[i] != expected[i] {
				t.Fatalf("expected %q at %d, got %q", expected[i], i, suggestions[i])
			}
		}
	})

	t.Run("cache hit skips the model", func(t *testing.T) {
		svc, m := setupAssistantService(t)
		cached := []string{"Silla Nube"}

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&cached, nil)

		suggestions, err := svc.SuggestNames(context.Background(), "silla")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(suggestions) != 1 || suggestions[0] != "Silla Nube" {
			t.Fatalf("expected cached suggestions, got %v", suggestions)
		}
	})

	t.Run("cache read error falls through to the model", func(t *testing.T) {
		svc, m := setupAssistantService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis error"))
		m.llm.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("Nombre Uno\nNombre Dos", nil)
		m.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		suggestions, err := svc.SuggestNames(context.Background(), "silla")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(suggestions) != 2 {
			t.Fatalf("expected 2 suggestions, got %v", suggestions)
		}
	})

	t.Run("model failure propagates", func(t *testing.T) {
		svc, m := setupAssistantService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.llm.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", errors.New("upstream 500"))

		if _, err := svc.SuggestNames(context.Background(), "silla"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestAssistantService_RewriteNotes(t *testing.T) {
	t.Run("blank input returns empty without calling the model", func(t *testing.T) {
		svc, _ := setupAssistantService(t)

		improved, err := svc.RewriteNotes(context.Background(), "  ", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if improved != "" {
			t.Fatalf("expected empty result, got %q", improved)
		}
	})

	t.Run("returns trimmed rewrite", func(t *testing.T) {
		svc, m := setupAssistantService(t)

		m.llm.EXPECT().
			Complete(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, request port.ChatRequest) (string, error) {
				if !strings.Contains(request.Messages[1].Content, "Tone: professional") {
					t.Fatalf("expected default tone in prompt, got %q", request.Messages[1].Content)
				}
				return "  Una silla espléndida.  ", nil
			})

		improved, err := svc.RewriteNotes(context.Background(), "silla de madera", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if improved != "Una silla espléndida." {
			t.Fatalf("unexpected rewrite %q", improved)
		}
	})

	t.Run("echoes input on model failure", func(t *testing.T) {
		svc, m := setupAssistantService(t)

		m.llm.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", errors.New("upstream 500"))

		improved, err := svc.RewriteNotes(context.Background(), "silla de madera", "casual")
		if err == nil {
			t.Fatal("expected error")
		}
		if improved != "silla de madera" {
			t.Fatalf("expected input echoed back, got %q", improved)
		}
	})

	t.Run("echoes input on empty completion", func(t *testing.T) {
		svc, m := setupAssistantService(t)

		m.llm.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("   ", nil)

		improved, err := svc.RewriteNotes(context.Background(), "silla de madera", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if improved != "silla de madera" {
			t.Fatalf("expected input echoed back, got %q", improved)
		}
	})
}

func TestAssistantService_QueryProducts(t *testing.T) {
	t.Run("blank query returns empty answer without any calls", func(t *testing.T) {
		svc, _ := setupAssistantService(t)

		answer, raw, err := svc.QueryProducts(context.Background(), " ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if answer != "" || raw == nil || len(raw) != 0 {
			t.Fatalf("expected empty result, got %q %v", answer, raw)
		}
	})

	t.Run("feeds recent products to the model and returns them", func(t *testing.T) {
		svc, m := setupAssistantService(t)
		products := []*domain.Product{
			{Name: "Silla", Quantity: 4, Price: 99.9},
			{Name: "Mesa", Quantity: 1, Price: 250},
		}

		m.productRepo.EXPECT().
			ListRecent(gomock.Any(), int64(queryProductLimit)).
			Return(products, nil)
		m.llm.EXPECT().
			Complete(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, request port.ChatRequest) (string, error) {
				if request.Temperature != queryTemperature || request.MaxTokens != queryMaxTokens {
					t.Fatalf("unexpected sampling parameters: %+v", request)
				}
				prompt := request.Messages[1].Content
				if !strings.Contains(prompt, `"Silla"`) || !strings.Contains(prompt, `"Mesa"`) {
					t.Fatalf("expected product listing in prompt, got %q", prompt)
				}
				return " Hay 5 unidades en total. ", nil
			})

		answer, raw, err := svc.QueryProducts(context.Background(), "¿cuántas unidades hay?")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if answer != "Hay 5 unidades en total." {
			t.Fatalf("unexpected answer %q", answer)
		}
		if len(raw) != 2 {
			t.Fatalf("expected the listed products back, got %v", raw)
		}
	})

	t.Run("listing failure propagates", func(t *testing.T) {
		svc, m := setupAssistantService(t)

		m.productRepo.EXPECT().
			ListRecent(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("mongo down"))

		if _, _, err := svc.QueryProducts(context.Background(), "q"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestParseSuggestions(t *testing.T) {
	content := "1. Primero\r\n2. Segundo\n\n- Tercero\n- Cuarto"
	suggestions := parseSuggestions(content)
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %v", suggestions)
	}
	if suggestions[0] != "Primero" || suggestions[2] != "Tercero" {
		t.Fatalf("unexpected suggestions %v", suggestions)
	}
}
