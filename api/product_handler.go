package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/smartfit/smartfit-backend/models"
	"github.com/smartfit/smartfit-backend/storage"
	"github.com/smartfit/smartfit-backend/utils"
)

// CreateProductRequest represents a manually described product.
type CreateProductRequest struct {
	Name         string             `json:"name" validate:"required"`
	Brand        string             `json:"brand,omitempty"`
	ImageURL     string             `json:"imageUrl,omitempty"`
	Description  string             `json:"description,omitempty"`
	Size         string             `json:"size,omitempty"`
	Measurements map[string]float64 `json:"measurements,omitempty" validate:"omitempty,dive,gt=0"`
}

// ImportProductRequest points at a product page to prefill from.
type ImportProductRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// CreateProductHandler stores a product described by the caller. Products are
// immutable after creation.
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Product API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Validation failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Invalid product payload", http.StatusBadRequest)
		return
	}

	product, err := h.store.CreateProduct(r.Context(), &models.Product{
		UserID:       userID,
		Name:         req.Name,
		Brand:        req.Brand,
		ImageURL:     req.ImageURL,
		Description:  req.Description,
		Size:         req.Size,
		Measurements: req.Measurements,
	})
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to create product: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to create product", http.StatusInternalServerError)
		return
	}

	h.recordHistory(r.Context(), userID, "product_created", product.Name, map[string]any{"productId": product.ID})

	utils.AddToLogMessage(&logMessageBuilder, "Product created")
	utils.RespondJSON(w, http.StatusCreated, product)
}

// GetProductHandler fetches a product by id. Any authenticated user can read
// any product; products form a shared catalog.
func (h *Handler) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondError(w, nil, "Product not found", http.StatusNotFound)
		} else {
			utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		}
		return
	}

	product.ImageURL = utils.PresignImageURL(r.Context(), product.ImageURL)
	utils.RespondJSON(w, http.StatusOK, product)
}

// ListProductsHandler returns the caller's products, newest first.
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	products, err := h.store.GetUserProducts(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch products", http.StatusInternalServerError)
		return
	}

	for i := range products {
		products[i].ImageURL = utils.PresignImageURL(r.Context(), products[i].ImageURL)
	}
	utils.RespondJSON(w, http.StatusOK, products)
}

// ImportProductHandler fetches a product page and prefills a product from its
// metadata. Only static HTML is read; pages that render their content with
// scripts import with whatever their meta tags carry.
func (h *Handler) ImportProductHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Import Product API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ImportProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "A valid 'url' is required", http.StatusBadRequest)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Importing product from: %s", req.URL))

	draft, err := fetchProductPage(r, req.URL)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Import failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Could not extract product details from URL", http.StatusBadRequest)
		return
	}
	draft.UserID = userID

	product, err := h.store.CreateProduct(r.Context(), draft)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to create product: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to create product", http.StatusInternalServerError)
		return
	}

	h.recordHistory(r.Context(), userID, "product_imported", product.Name, map[string]any{
		"productId": product.ID,
		"sourceUrl": req.URL,
	})

	utils.AddToLogMessage(&logMessageBuilder, "Product imported")
	utils.RespondJSON(w, http.StatusCreated, product)
}

// fetchProductPage downloads the page and extracts name/brand/image/
// description from its Open Graph tags, falling back to the document title.
func fetchProductPage(r *http.Request, pageURL string) (*models.Product, error) {
	client := &http.Client{Timeout: 15 * time.Second}

	httpReq, err := http.NewRequestWithContext(r.Context(), http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (compatible; SmartFitBot/1.0)")

	res, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	metaContent := func(property string) string {
		value, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
		return strings.TrimSpace(value)
	}

	name := metaContent("og:title")
	if name == "" {
		name = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if name == "" {
		return nil, fmt.Errorf("page has no usable title")
	}

	description := metaContent("og:description")
	if description == "" {
		description, _ = doc.Find(`meta[name="description"]`).First().Attr("content")
		description = strings.TrimSpace(description)
	}

	return &models.Product{
		Name:        name,
		Brand:       metaContent("og:site_name"),
		ImageURL:    metaContent("og:image"),
		Description: description,
	}, nil
}
