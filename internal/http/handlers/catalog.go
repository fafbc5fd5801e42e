package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lovepattern-backend/internal/domain/catalog"
	"github.com/yungbote/lovepattern-backend/internal/http/response"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler { return &CatalogHandler{} }

// GET /api/catalog/products
func (h *CatalogHandler) Products(c *gin.Context) {
	response.RespondOK(c, gin.H{"products": catalog.Products()})
}

// GET /api/catalog/issues
func (h *CatalogHandler) Issues(c *gin.Context) {
	response.RespondOK(c, gin.H{"issues": catalog.Issues()})
}
