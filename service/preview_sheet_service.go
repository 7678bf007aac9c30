package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"mascota-mockups/models"
	"mascota-mockups/utils"
)

//go:embed templates/preview_sheet.html
var previewSheetHTML string

var previewSheetTemplate = template.Must(template.New("preview_sheet").Parse(previewSheetHTML))

const (
	sheetThumbSize = 600
	sheetQuality   = 85
)

// SheetCatalog is the catalog view needed to lay out a preview sheet
type SheetCatalog interface {
	Style(id string) (models.ProductStyle, bool)
	CategoryOfStyle(styleID string) (models.ProductCategory, bool)
}

// PreviewSheetService renders every angle of a product style into one
// printable sheet
type PreviewSheetService struct {
	mockups    MockupServiceInterface
	catalog    SheetCatalog
	chromePath string
}

type sheetAngle struct {
	Name        string
	DataURL     template.URL
	Placeholder bool
	Error       string
}

type sheetSize struct {
	Label  string
	Height string
	Price  string
}

// NewPreviewSheetService creates a PreviewSheetService
func NewPreviewSheetService(mockups MockupServiceInterface, catalog SheetCatalog, chromePath string) *PreviewSheetService {
	return &PreviewSheetService{
		mockups:    mockups,
		catalog:    catalog,
		chromePath: chromePath,
	}
}

// detectChromePath checks the configured path first, then common installation paths
func (s *PreviewSheetService) detectChromePath() string {
	if s.chromePath != "" {
		if _, err := os.Stat(s.chromePath); err == nil {
			return s.chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// RenderSheetHTML renders the preview sheet of a style for a design
func (s *PreviewSheetService) RenderSheetHTML(ctx context.Context, design []byte, styleID string) (string, error) {
	style, ok := s.catalog.Style(styleID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrStyleNotFound, styleID)
	}
	category, _ := s.catalog.CategoryOfStyle(styleID)

	ids := make([]string, 0, len(style.Templates))
	names := make(map[string]string, len(style.Templates))
	for _, t := range style.Templates {
		ids = append(ids, t.ID)
		names[t.ID] = t.Name
	}

	batch, err := s.mockups.RenderBatch(ctx, design, ids, RenderOptions{
		Format:  models.FormatJPEG,
		Quality: sheetQuality,
		Thumb:   sheetThumbSize,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to render style %s: %w", styleID, err)
	}

	angles := make([]sheetAngle, 0, len(batch.Items))
	for _, item := range batch.Items {
		name := names[item.TemplateID]
		if name == "" {
			name = item.TemplateID
		}
		angles = append(angles, sheetAngle{
			Name: name,
			// data URLs produced by the encoder are safe to embed
			DataURL:     template.URL(item.DataURL),
			Placeholder: item.Placeholder,
			Error:       item.Error,
		})
	}

	sizes := make([]sheetSize, 0, len(category.Sizes))
	for _, size := range category.Sizes {
		height := ""
		if size.MaxHeightCm > 0 {
			height = fmt.Sprintf("%.0f-%.0f cm", size.MinHeightCm, size.MaxHeightCm)
		}
		sizes = append(sizes, sheetSize{
			Label:  size.Label,
			Height: height,
			Price:  utils.FormatPrice(size.Price, category.Currency),
		})
	}

	data := struct {
		StyleName    string
		Description  string
		CategoryName string
		Angles       []sheetAngle
		Sizes        []sheetSize
	}{
		StyleName:    style.Name,
		Description:  style.Description,
		CategoryName: category.Name,
		Angles:       angles,
		Sizes:        sizes,
	}

	var buf bytes.Buffer
	if err := previewSheetTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF prints the preview sheet of a style to PDF with headless Chrome
func (s *PreviewSheetService) GeneratePDF(ctx context.Context, design []byte, styleID string) ([]byte, error) {
	html, err := s.RenderSheetHTML(ctx, design, styleID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("enable-print-preview", true),
	)
	if chromePath := s.detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	log.Printf("✅ Preview sheet generated: style=%s, %d bytes", styleID, len(pdfBuf))
	return pdfBuf, nil
}
