package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edukar/edukar-store/internal/server/http/dto"
	"github.com/edukar/edukar-store/internal/usecase"
)

// Query parameters with a fixed meaning; any other parameter filters by attribute.
var reservedProductParams = map[string]struct{}{
	"category":  {},
	"page":      {},
	"page_size": {},
}

// CatalogHandler serves products and categories.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// Products handles GET /store/products/.
func (h *CatalogHandler) Products(c *gin.Context) {
	query := usecase.ProductQuery{
		CategorySlug: c.Query("category"),
		Attributes:   map[string]string{},
	}
	var err error
	if raw := c.Query("page"); raw != "" {
		if query.Page, err = strconv.Atoi(raw); err != nil {
			badRequest(c, "page must be a number")
			return
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		if query.PageSize, err = strconv.Atoi(raw); err != nil {
			badRequest(c, "page_size must be a number")
			return
		}
	}
	for key, values := range c.Request.URL.Query() {
		if _, reserved := reservedProductParams[key]; reserved || len(values) == 0 || values[0] == "" {
			continue
		}
		query.Attributes[key] = values[0]
	}

	listing, err := h.facade.Products(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.ProductListResponse{Count: listing.Count, Results: dto.NewProductsResponse(listing.Products)}
	if listing.NextPage > 0 {
		next := listing.NextPage
		resp.NextPage = &next
	}
	c.JSON(http.StatusOK, resp)
}

// Product handles GET /store/products/:slug/.
func (h *CatalogHandler) Product(c *gin.Context) {
	product, err := h.facade.Product(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(*product))
}

// Recommendations handles GET /store/products/:slug/recommendations/.
func (h *CatalogHandler) Recommendations(c *gin.Context) {
	products, err := h.facade.Recommendations(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductsResponse(products))
}

// Categories handles GET /store/categories/.
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.facade.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, dto.NewCategoryResponse(category))
	}
	c.JSON(http.StatusOK, resp)
}

// CheckPurchase handles POST /store/products/check-purchase/.
func (h *CatalogHandler) CheckPurchase(c *gin.Context) {
	var req dto.CheckPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.facade.CheckPurchase(c.Request.Context(), CurrentUserID(c), req.Identifier); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "OK"})
}

// MyProducts handles GET /store/my-products/.
func (h *CatalogHandler) MyProducts(c *gin.Context) {
	products, err := h.facade.MyProducts(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductsResponse(products))
}

// Download handles GET /store/products/:slug/download/ and streams the PDF.
func (h *CatalogHandler) Download(c *gin.Context) {
	doc, err := h.facade.DownloadDocument(c.Request.Context(), CurrentUserID(c), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer doc.Body.Close()

	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.DataFromReader(http.StatusOK, doc.ContentLength, "application/pdf", doc.Body, nil)
}
