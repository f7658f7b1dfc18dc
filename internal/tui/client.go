package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a thin REST client for the inventario API. Every call returns
// an explicit error so the UI layer can surface failures instead of
// swallowing them.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type createProductRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes"`
}

type suggestRequest struct {
	Text string `json:"text"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

type rewriteRequest struct {
	Text string `json:"text"`
	Tone string `json:"tone,omitempty"`
}

type rewriteResponse struct {
	Improved string `json:"improved"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Answer string    `json:"answer"`
	Raw    []Product `json:"raw"`
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, name string, quantity, price float64, notes string) (Product, error) {
	var product Product
	err := c.do(ctx, http.MethodPost, "/api/products", createProductRequest{
		Name:     name,
		Quantity: quantity,
		Price:    price,
		Notes:    notes,
	}, &product)
	return product, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil)
}

func (c *Client) SuggestNames(ctx context.Context, text string) ([]string, error) {
	var response suggestResponse
	if err := c.do(ctx, http.MethodPost, "/api/llm/suggest", suggestRequest{Text: text}, &response); err != nil {
		return nil, err
	}
	return response.Suggestions, nil
}

func (c *Client) RewriteNotes(ctx context.Context, text, tone string) (string, error) {
	var response rewriteResponse
	if err := c.do(ctx, http.MethodPost, "/api/llm/rewrite", rewriteRequest{Text: text, Tone: tone}, &response); err != nil {
		return "", err
	}
	return response.Improved, nil
}

func (c *Client) QueryProducts(ctx context.Context, query string) (string, []Product, error) {
	var response queryResponse
	if err := c.do(ctx, http.MethodPost, "/api/llm/query", queryRequest{Query: query}, &response); err != nil {
		return "", nil, err
	}
	return response.Answer, response.Raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s returned status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
