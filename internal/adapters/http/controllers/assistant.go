package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/giovassz/inventario/internal/adapters/http/handlers"
	"github.com/giovassz/inventario/internal/core/dto"
	"github.com/giovassz/inventario/internal/core/service"
	"github.com/giovassz/inventario/internal/core/serviceerrors"
)

// AssistantController exposes the LLM gateway. Upstream failures never
// leak as raw errors: each endpoint degrades to its safe default payload
// alongside a 500 status.
type AssistantController struct {
	assistantService *service.AssistantService
}

type SuggestNamesResponse struct {
	Suggestions []string `json:"suggestions"`
}

type RewriteNotesResponse struct {
	Improved string `json:"improved"`
}

type QueryProductsResponse struct {
	Answer string            `json:"answer"`
	Raw    []ProductResponse `json:"raw"`
}

func NewAssistantController(assistantService *service.AssistantService) *AssistantController {
	return &AssistantController{assistantService: assistantService}
}

// SuggestNames godoc
// @Summary     Suggest product names
// @Description Returns up to three creative name suggestions for a product description
// @Tags        llm
// @Accept      json
// @Produce     json
// @Param       request body     dto.SuggestNamesRequest true "Partial product name or description"
// @Success     200     {object} SuggestNamesResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     500     {object} SuggestNamesResponse
// @Router      /api/llm/suggest [post]
func (ac *AssistantController) SuggestNames(c *gin.Context) {
	var request dto.SuggestNamesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}

	suggestions, err := ac.assistantService.SuggestNames(c.Request.Context(), request.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, SuggestNamesResponse{Suggestions: []string{}})
		return
	}
	c.JSON(http.StatusOK, SuggestNamesResponse{Suggestions: suggestions})
}

// RewriteNotes godoc
// @Summary     Rewrite product notes
// @Description Rewrites free text persuasively in the configured language and tone
// @Tags        llm
// @Accept      json
// @Produce     json
// @Param       request body     dto.RewriteNotesRequest true "Text and optional tone"
// @Success     200     {object} RewriteNotesResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     500     {object} RewriteNotesResponse
// @Router      /api/llm/rewrite [post]
func (ac *AssistantController) RewriteNotes(c *gin.Context) {
	var request dto.RewriteNotesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}

	improved, err := ac.assistantService.RewriteNotes(c.Request.Context(), request.Text, request.Tone)
	if err != nil {
		// improved echoes the original text on failure
		c.JSON(http.StatusInternalServerError, RewriteNotesResponse{Improved: improved})
		return
	}
	c.JSON(http.StatusOK, RewriteNotesResponse{Improved: improved})
}

// QueryProducts godoc
// @Summary     Query the product collection in natural language
// @Description Sends the most recent products with the question to the model and returns its interpretation
// @Tags        llm
// @Accept      json
// @Produce     json
// @Param       request body     dto.QueryProductsRequest true "Free-text question"
// @Success     200     {object} QueryProductsResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     500     {object} QueryProductsResponse
// @Router      /api/llm/query [post]
func (ac *AssistantController) QueryProducts(c *gin.Context) {
	var request dto.QueryProductsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}

	answer, products, err := ac.assistantService.QueryProducts(c.Request.Context(), request.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, QueryProductsResponse{Answer: "", Raw: []ProductResponse{}})
		return
	}

	raw := make([]ProductResponse, len(products))
	for i, product := range products {
		raw[i] = NewProductResponse(product)
	}
	c.JSON(http.StatusOK, QueryProductsResponse{Answer: answer, Raw: raw})
}
