package product

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ListProducts godoc
// @Summary      Membership and class pack catalog
// @Description  Ordered by type, then price ascending.
// @Tags         shop
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Product
// @Failure      500  {object}  gin.H
// @Router       /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// PurchaseProduct godoc
// @Summary      Purchase a product
// @Description  Payment is not integrated; this simulates the purchase and changes nothing.
// @Tags         shop
// @Security     BearerAuth
// @Produce      json
// @Param        productID  path      int  true  "Product ID"
// @Success      200        {object}  PurchaseResponse
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Router       /products/{productID}/purchase [post]
func (h *Handler) PurchaseProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	p, err := h.repo.GetByID(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, PurchaseResponse{
		Message: fmt.Sprintf("Simulating purchase of %s", p.Name),
		Product: *p,
	})
}
