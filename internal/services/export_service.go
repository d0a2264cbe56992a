package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/query"
	"catalog/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ExportService renders one page of the product listing as a PDF report.
type ExportService struct {
	Products  ProductService
	RequestID string
	Now       func() time.Time
}

// ProductsPDF runs the same validation and listing as ProductService.Page.
func (s ExportService) ProductsPDF(ctx context.Context, p query.ListingParams) ([]byte, string, error) {
	page, err := s.Products.Page(ctx, p)
	if err != nil {
		return nil, "", err
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	data, err := buildProductsPDF(page, now)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "render pdf", Err: err}
	}
	utils.LogEvent(s.RequestID, "export", "products_pdf", fmt.Sprintf("page=%d items=%d", page.Page, len(page.Items)))
	return data, fmt.Sprintf("PRODUCTS_%s_p%d.pdf", now.Format("20060102"), page.Page), nil
}

func buildProductsPDF(page query.PageResult[models.ProductResponse], now time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Products", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "PRODUCTS")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s  |  page %d of %d  |  %d products",
		now.Format("2006-01-02 15:04"), page.Page+1, maxInt(page.TotalPages, 1), page.TotalElements))
	pdf.Ln(9)

	widths := []float64{15, 70, 25, 18, 55, 90}
	headers := []string{"ID", "Name", "Price", "Stock", "Owner", "Categories"}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(page.Items) == 0 {
		pdf.CellFormat(sum(widths), 7, "No products match this listing.", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	for _, p := range page.Items {
		cols := []string{
			fmt.Sprintf("%d", p.ID),
			clip(p.Name, 38),
			fmt.Sprintf("%.2f", p.Price),
			fmt.Sprintf("%d", p.Stock),
			clip(p.User.Name, 30),
			clip(categoryNames(p.Categories), 50),
		}
		for i, v := range cols {
			align := "L"
			if i == 2 || i == 3 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, v, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func categoryNames(cats []models.CategorySummary) string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "~"
	}
	return s
}

func sum(vs []float64) float64 {
	var t float64
	for _, v := range vs {
		t += v
	}
	return t
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
