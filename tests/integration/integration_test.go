package integration_test

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	adaptconfig "github.com/giovassz/inventario/internal/adapters/config"
	"github.com/giovassz/inventario/internal/adapters/llm"
	adaptmongo "github.com/giovassz/inventario/internal/adapters/mongo"
	"github.com/giovassz/inventario/internal/adapters/mongo/repository"
	"github.com/giovassz/inventario/internal/adapters/outbox"
	adaptrabbitmq "github.com/giovassz/inventario/internal/adapters/rabbitmq"
	adaptredis "github.com/giovassz/inventario/internal/adapters/redis"
	"github.com/giovassz/inventario/internal/core/domain"
	"github.com/giovassz/inventario/internal/core/dto"
	"github.com/giovassz/inventario/internal/core/port"
	"github.com/giovassz/inventario/internal/core/service"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcrabbit "github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mongoClient  *mongo.Client
	redisClient  *adaptredis.Client
	broker       *adaptrabbitmq.RabbitMQAdapter
	amqpEndpoint string
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	if err != nil {
		log.Fatalf("mongodb container: %v", err)
	}
	mongoEndpoint, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		log.Fatalf("mongodb connection string: %v", err)
	}
	mongoClient, err = mongo.Connect(ctx, options.Client().
		ApplyURI(mongoEndpoint).
		SetDirect(true).
		SetConnectTimeout(30*time.Second).
		SetServerSelectionTimeout(30*time.Second))
	if err != nil {
		log.Fatalf("mongodb connect: %v", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("mongodb ping: %v", err)
	}

	// --- Redis ---
	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		log.Fatalf("redis container: %v", err)
	}
	redisEndpoint, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		log.Fatalf("redis connection string: %v", err)
	}
	redisClient, err = adaptredis.NewConnection(adaptconfig.RedisConfig{URL: redisEndpoint})
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}

	// --- RabbitMQ ---
	rabbitContainer, err := tcrabbit.Run(ctx, "rabbitmq:3-management-alpine")
	if err != nil {
		log.Fatalf("rabbitmq container: %v", err)
	}
	amqpEndpoint, err = rabbitContainer.AmqpURL(ctx)
	if err != nil {
		log.Fatalf("rabbitmq amqp url: %v", err)
	}
	broker, err = adaptrabbitmq.NewRabbitMQAdapter(adaptconfig.RabbitMQConfig{
		URL:        amqpEndpoint,
		MaxRetries: 2,
		RetryDelay: 100 * time.Millisecond,
		ExchangeConfigs: []adaptconfig.ExchangeConfig{
			{Name: "exchange.product", Type: "direct", Durable: true, AutoDelete: false},
		},
	})
	if err != nil {
		log.Fatalf("rabbitmq adapter: %v", err)
	}

	code := m.Run()

	_ = broker.Close()
	_ = redisClient.Close()
	_ = mongoClient.Disconnect(ctx)
	_ = mongoContainer.Terminate(ctx)
	_ = redisContainer.Terminate(ctx)
	_ = rabbitContainer.Terminate(ctx)

	os.Exit(code)
}

func setupConsumer(t *testing.T, routingKey string) <-chan amqp.Delivery {
	t.Helper()

	conn, err := amqp.Dial(amqpEndpoint)
	if err != nil {
		t.Fatalf("consumer dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	ch, err := conn.Channel()
	if err != nil {
		t.Fatalf("consumer channel: %v", err)
	}
	t.Cleanup(func() { ch.Close() })

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		t.Fatalf("queue declare: %v", err)
	}
	if err := ch.QueueBind(q.Name, routingKey, "exchange.product", false, nil); err != nil {
		t.Fatalf("queue bind: %v", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	return msgs
}

func buildServices(t *testing.T, dbName string) (*service.ProductService, port.ProductPort, *outbox.Handler) {
	t.Helper()
	db := mongoClient.Database(dbName)

	outboxRepo := repository.NewOutboxRepository(db)
	productRepo := repository.NewProductRepository(db, outboxRepo)
	txManager := adaptmongo.NewTransactionManager(mongoClient)

	productService := service.NewProductService(productRepo, txManager)

	outboxHandler := outbox.NewHandler(outboxRepo, broker, adaptconfig.OutboxConfig{
		Interval:  100 * time.Millisecond,
		BatchSize: 50,
	})

	return productService, productRepo, outboxHandler
}

// newChatStub fakes the chat-completion upstream and counts the requests
// it served.
func newChatStub(t *testing.T, content string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		body := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func buildAssistant(t *testing.T, dbName, baseURL string, productRepo port.ProductPort) *service.AssistantService {
	t.Helper()
	suggestionCache := adaptredis.NewCache[[]string](redisClient, dbName+"-suggestions")
	client := llm.NewOpenRouterClient(adaptconfig.LLMConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	})
	return service.NewAssistantService(client, productRepo, suggestionCache, "Spanish")
}

func TestIntegration_CreateProduct_FullCycle(t *testing.T) {
	msgs := setupConsumer(t, "product.created")

	productSvc, _, outboxHandler := buildServices(t, "int_create_cycle")
	ctx := context.Background()

	handlerCtx, cancelHandler := context.WithCancel(ctx)
	defer cancelHandler()
	go outboxHandler.Start(handlerCtx)

	product, err := productSvc.CreateProduct(ctx, &dto.CreateProductRequest{
		Name:     "Integration Widget",
		Quantity: dto.Numeric(3),
		Price:    dto.Numeric(29.99),
		Notes:    "e2e",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.ID == "" {
		t.Fatal("product ID should not be empty")
	}

	select {
	case msg := <-msgs:
		var event domain.ProductCreatedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if event.ProductID != product.ID {
			t.Fatalf("event product_id: expected %s, got %s", product.ID, event.ProductID)
		}
		if event.Name != "Integration Widget" {
			t.Fatalf("event name: expected 'Integration Widget', got %q", event.Name)
		}
		if event.Quantity != 3 || event.Price != 29.99 {
			t.Fatalf("event numbers: expected 3/29.99, got %d/%v", event.Quantity, event.Price)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for product.created event")
	}

	products, err := productSvc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 1 || products[0].ID != product.ID {
		t.Fatalf("expected the created product back, got %+v", products)
	}
}

func TestIntegration_DeleteProduct_FullCycle(t *testing.T) {
	msgs := setupConsumer(t, "product.deleted")

	productSvc, _, outboxHandler := buildServices(t, "int_delete_cycle")
	ctx := context.Background()

	handlerCtx, cancelHandler := context.WithCancel(ctx)
	defer cancelHandler()
	go outboxHandler.Start(handlerCtx)

	product, err := productSvc.CreateProduct(ctx, &dto.CreateProductRequest{
		Name: "Doomed Widget", Quantity: dto.Numeric(1), Price: dto.Numeric(10),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := productSvc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	select {
	case msg := <-msgs:
		var event domain.ProductDeletedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if event.ProductID != product.ID {
			t.Fatalf("event product_id: expected %s, got %s", product.ID, event.ProductID)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for product.deleted event")
	}

	// Deleting again reports success without a second event
	if err := productSvc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("second delete should be reported as success, got %v", err)
	}

	products, err := productSvc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty listing after delete, got %+v", products)
	}
}

func TestIntegration_SuggestNames_CachedAcrossCalls(t *testing.T) {
	var calls atomic.Int32
	stub := newChatStub(t, "Nombre Uno\nNombre Dos\nNombre Tres", &calls)

	_, productRepo, _ := buildServices(t, "int_suggest_cache")
	assistant := buildAssistant(t, "int_suggest_cache", stub.URL, productRepo)
	ctx := context.Background()

	first, err := assistant.SuggestNames(ctx, "silla ergonómica")
	if err != nil {
		t.Fatalf("first suggest: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 suggestions, got %v", first)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls.Load())
	}

	// Second call for the same text is served from the Redis cache
	second, err := assistant.SuggestNames(ctx, "silla ergonómica")
	if err != nil {
		t.Fatalf("second suggest: %v", err)
	}
	if len(second) != 3 {
		t.Fatalf("expected cached suggestions, got %v", second)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected cache hit to skip upstream, got %d calls", calls.Load())
	}
}

func TestIntegration_QueryProducts_FeedsStoredProducts(t *testing.T) {
	var calls atomic.Int32
	stub := newChatStub(t, "Hay 5 unidades en total.", &calls)

	productSvc, productRepo, _ := buildServices(t, "int_query")
	assistant := buildAssistant(t, "int_query", stub.URL, productRepo)
	ctx := context.Background()

	for _, name := range []string{"Silla", "Mesa"} {
		if _, err := productSvc.CreateProduct(ctx, &dto.CreateProductRequest{
			Name: name, Quantity: dto.Numeric(2), Price: dto.Numeric(100),
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	answer, raw, err := assistant.QueryProducts(ctx, "¿cuántas unidades hay?")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if answer != "Hay 5 unidades en total." {
		t.Fatalf("unexpected answer %q", answer)
	}
	if len(raw) != 2 {
		t.Fatalf("expected the stored products back, got %+v", raw)
	}
}
