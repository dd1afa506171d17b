// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"gadget_backend/internal/api"
	"gadget_backend/internal/feature/catalog/domain/entity"
	"gadget_backend/internal/feature/catalog/usecase"
	jwtmw "gadget_backend/internal/platform/jwt"
)

// Response messages.
const (
	msgInvalidBody     = "Request body must be a JSON object"
	msgInvalidParam    = "Invalid productId"
	msgProductCreated  = "Product Created Successfully"
	msgBrandCreated    = "Brand Created Successfully"
	msgFetched         = "Successfully fetched"
	msgProductFetched  = "Product fetched successfully"
	msgBrandsFetched   = "Brand fetched Successfully"
	msgProductNotFound = "Product not found"
)

// CatalogUsecase は商品・ブランド操作のユースケースを定義します。
type CatalogUsecase interface {
	CreateProduct(ctx context.Context, doc entity.Document) error
	CreateBrand(ctx context.Context, doc entity.Document) error
	ListProducts(ctx context.Context) ([]entity.Document, error)
	ListBrands(ctx context.Context) ([]entity.Document, error)
	ListPopularProducts(ctx context.Context) ([]entity.Document, error)
	ListFlashSaleProducts(ctx context.Context) ([]entity.Document, error)
	GetProductByID(ctx context.Context, productID string) (entity.Document, error)
}

// CatalogHandler は商品・ブランドのHTTPリクエストを処理します。
type CatalogHandler struct {
	catalog CatalogUsecase
}

// NewCatalogHandler はCatalogHandlerの新しいインスタンスを生成します。
func NewCatalogHandler(catalog CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateProduct は POST /create-product を処理します。本文はそのまま保存されます。
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	h.create(c, "product", h.catalog.CreateProduct, msgProductCreated)
}

// CreateBrand は POST /create-brand を処理します。
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	h.create(c, "brand", h.catalog.CreateBrand, msgBrandCreated)
}

// ListProducts は GET /products を処理します。
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	h.list(c, "products", h.catalog.ListProducts, msgFetched)
}

// ListBrands は GET /brands を処理します。
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	h.list(c, "brands", h.catalog.ListBrands, msgBrandsFetched)
}

// ListPopularProducts は GET /popular-products を処理します（ratingsが文字列"5"の商品）。
func (h *CatalogHandler) ListPopularProducts(c *gin.Context) {
	h.list(c, "popular products", h.catalog.ListPopularProducts, msgFetched)
}

// ListFlashSaleProducts は GET /flash-sale を処理します（flashSaleが文字列"true"の商品）。
func (h *CatalogHandler) ListFlashSaleProducts(c *gin.Context) {
	h.list(c, "flash sale products", h.catalog.ListFlashSaleProducts, msgFetched)
}

// GetProduct は GET /products/:productId を処理します。
// - パスパラメータが不正な場合は400を返却
// - 該当商品がない場合は404を返却
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	// gin has already unescaped path values; re-escape so the binder decodes exactly once.
	raw := url.PathEscape(c.Param("productId"))

	var productID string
	err := runtime.BindStyledParameterWithOptions("simple", "productId", raw, &productID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		slog.Warn("invalid productId", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail(msgInvalidParam))
		return
	}

	doc, err := h.catalog.GetProductByID(c.Request.Context(), productID)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, api.Fail(msgProductNotFound))
		return
	default:
		slog.Error("failed to fetch product", "error", err, "productId", productID)
		c.JSON(http.StatusInternalServerError, api.Fail(api.MsgInternalError))
		return
	}

	c.JSON(http.StatusOK, api.OK(msgProductFetched, doc))
}

func (h *CatalogHandler) create(c *gin.Context, kind string, insert func(context.Context, entity.Document) error, msg string) {
	var doc entity.Document
	if err := c.ShouldBindJSON(&doc); err != nil || doc == nil {
		slog.Warn("create rejected: body is not a JSON object", "kind", kind, "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail(msgInvalidBody))
		return
	}

	if err := insert(c.Request.Context(), doc); err != nil {
		slog.Error("create failed", "kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, api.Fail(api.MsgInternalError))
		return
	}

	attrs := []any{"kind", kind, "remote_addr", c.ClientIP()}
	if claims, ok := jwtmw.ClaimsFrom(c); ok {
		attrs = append(attrs, "created_by", claims.Email)
	}
	slog.Info("catalog document created", attrs...)
	c.JSON(http.StatusCreated, api.OK(msg, nil))
}

func (h *CatalogHandler) list(c *gin.Context, what string, fetch func(context.Context) ([]entity.Document, error), msg string) {
	docs, err := fetch(c.Request.Context())
	if err != nil {
		slog.Error("failed to list "+what, "error", err)
		c.JSON(http.StatusInternalServerError, api.Fail(api.MsgInternalError))
		return
	}
	c.JSON(http.StatusOK, api.OK(msg, docs))
}
