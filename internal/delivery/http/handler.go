package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forkflame/backend/internal/domain"
	"github.com/forkflame/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	full     *usecase.CatalogService
	featured *usecase.CatalogService
}

// NewHandler creates a new HTTP handler over the two catalog facades
func NewHandler(full, featured *usecase.CatalogService) *Handler {
	return &Handler{full: full, featured: featured}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "forkflame-backend",
		"version": "1.0.0",
	})
}

// GetCatalog serves the full-catalog snapshot, driving the pipeline on first
// call. Search/filter/sort query parameters shape the returned data only;
// the counts keep describing the whole pipeline output.
func (h *Handler) GetCatalog(c *gin.Context) {
	snap := h.full.Load(c.Request.Context(), deviceProfileFromRequest(c))
	snap.Data = applyQueryTransforms(c, snap.Data)
	c.JSON(http.StatusOK, snap)
}

// GetFeaturedCatalog serves the featured-subset snapshot. A fetch failure is
// carried in the snapshot's error field, not as an HTTP error.
func (h *Handler) GetFeaturedCatalog(c *gin.Context) {
	snap := h.featured.Load(c.Request.Context(), deviceProfileFromRequest(c))
	c.JSON(http.StatusOK, snap)
}

// RevalidateCatalog busts the full-catalog cache and re-runs validation
func (h *Handler) RevalidateCatalog(c *gin.Context) {
	snap := h.full.Revalidate(c.Request.Context(), deviceProfileFromRequest(c))
	c.JSON(http.StatusOK, snap)
}

// RevalidateFeatured busts the featured cache and re-runs validation
func (h *Handler) RevalidateFeatured(c *gin.Context) {
	snap := h.featured.Revalidate(c.Request.Context(), deviceProfileFromRequest(c))
	c.JSON(http.StatusOK, snap)
}

// cartRequest is the payload for the simulated-checkout cart validation
type cartRequest struct {
	Lines []domain.CartLine `json:"lines" binding:"required"`
}

// ValidateCart checks cart line invariants and returns the order subtotal.
// There is no real order placement behind this; checkout is simulated
// client-side.
func (h *Handler) ValidateCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart payload"})
		return
	}

	var subtotal float64
	for i, line := range req.Lines {
		if err := line.Validate(); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "invalid cart line",
				"line":  i,
			})
			return
		}
		subtotal += line.Item.Price * float64(line.Quantity)
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"lines":    len(req.Lines),
		"subtotal": subtotal,
	})
}

// deviceProfileFromRequest derives the coarse device/network profile from
// client hint headers, defaulting to an unconstrained desktop.
func deviceProfileFromRequest(c *gin.Context) domain.DeviceProfile {
	profile := domain.DeviceProfile{
		Class:         domain.DeviceDesktop,
		SaveData:      c.GetHeader("Save-Data") == "on",
		EffectiveType: c.GetHeader("ECT"),
	}
	if c.GetHeader("X-Device-Class") == string(domain.DeviceMobile) {
		profile.Class = domain.DeviceMobile
	}
	return profile
}

// applyQueryTransforms applies the stateless search/filter/sort helpers
// according to query parameters.
func applyQueryTransforms(c *gin.Context, items []domain.CatalogItem) []domain.CatalogItem {
	if q := c.Query("search"); q != "" {
		items = usecase.SearchItems(items, q)
	}

	minPrice, _ := strconv.ParseFloat(c.DefaultQuery("minPrice", "0"), 64)
	maxPrice, _ := strconv.ParseFloat(c.DefaultQuery("maxPrice", "0"), 64)
	if minPrice > 0 || maxPrice > 0 {
		items = usecase.FilterByPriceRange(items, minPrice, maxPrice)
	}

	if minRating, err := strconv.ParseFloat(c.Query("minRating"), 64); err == nil && minRating > 0 {
		items = usecase.FilterByMinRating(items, minRating)
	}

	if sortBy := c.Query("sortBy"); sortBy != "" {
		order := usecase.SortOrder(c.DefaultQuery("order", string(usecase.SortAsc)))
		items = usecase.SortItems(items, usecase.SortField(sortBy), order)
	}

	return items
}
