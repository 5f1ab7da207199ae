package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alcyxob/fitcrm/internal/service"
)

// SuggestionHandler holds the suggestion service dependency.
type SuggestionHandler struct {
	suggestionService service.SuggestionService
	defaultSampleSize int
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(suggestionService service.SuggestionService, defaultSampleSize int) *SuggestionHandler {
	if defaultSampleSize <= 0 {
		defaultSampleSize = service.DefaultSampleSize
	}
	return &SuggestionHandler{
		suggestionService: suggestionService,
		defaultSampleSize: defaultSampleSize,
	}
}

// GetSuggestions returns a random sample of exercise suggestions for a
// client's next session. This endpoint never fails: when the catalog is
// unreachable the response carries the fallback list with
// usedFallback=true so the view can render a status note.
func (h *SuggestionHandler) GetSuggestions(c *gin.Context) {
	count := h.defaultSampleSize
	if raw, ok := c.GetQuery("count"); ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			count = n
		}
	}

	result := h.suggestionService.FetchSuggestions(c.Request.Context(), count)
	c.JSON(http.StatusOK, result)
}
