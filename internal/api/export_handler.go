package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lapakly/lapak-api/internal/api/shared"
	"github.com/lapakly/lapak-api/internal/store"
)

// ExportHandler streams a user's catalog as CSV.
type ExportHandler struct {
	productStore store.ProductStore
}

// NewExportHandler creates a new ExportHandler with the given dependencies.
func NewExportHandler(productStore store.ProductStore) *ExportHandler {
	return &ExportHandler{productStore: productStore}
}

// ExportProductsCSV handles GET /export/products.csv. Each row is a product
// joined with its latest generated content. An empty catalog returns a JSON
// notice instead of a headers-only CSV file.
func (h *ExportHandler) ExportProductsCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	rows, err := h.productStore.ListForExport(r.Context(), userID, r.URL.Query().Get("search"))
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if len(rows) == 0 {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{
			"message": "No products to export",
			"count":   0,
		})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"title", "price", "category", "attributes", "description", "keywords"}); err != nil {
		slog.Error("failed to write CSV header", "error", err)
		return
	}

	for _, row := range rows {
		record := []string{
			row.Title,
			fmt.Sprintf("%.2f", row.Price),
			row.Category,
			marshalAttributesCSV(row.Attributes),
			row.Description,
			strings.Join(row.Keywords, ", "),
		}
		if err := writer.Write(record); err != nil {
			slog.Error("failed to write CSV record", "error", err)
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Error("failed to flush CSV response", "error", err)
	}
}

// marshalAttributesCSV renders the attribute map as compact JSON for the CSV
// cell, or an empty string when there are no attributes.
func marshalAttributesCSV(attributes map[string]any) string {
	if len(attributes) == 0 {
		return ""
	}
	data, err := json.Marshal(attributes)
	if err != nil {
		return ""
	}
	return string(data)
}
