package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mascota-mockups/mockup"
	"mascota-mockups/models"
	"mascota-mockups/utils"
)

//go:embed default_catalog.json
var defaultCatalog []byte

// Catalog is the read-only product and template catalog. It is built once at
// startup and may be shared by concurrent readers.
type Catalog struct {
	categories    []models.ProductCategory
	templates     map[string]models.MockupTemplate
	templateOrder []string
	styles        map[string]models.ProductStyle
	categoryByID  map[string]int
	styleCategory map[string]string
}

// Load reads the catalog at path (.json, .yaml or .yml). An empty path loads
// the embedded default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		cat, err := Parse(defaultCatalog, "json")
		if err != nil {
			return nil, fmt.Errorf("invalid embedded catalog: %w", err)
		}
		log.Printf("✅ Catalog: Loaded embedded default catalog (%d templates)", len(cat.templateOrder))
		return cat, nil
	}

	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	cat, err := Parse(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Catalog: Successfully loaded %d templates from %s", len(cat.templateOrder), path)
	return cat, nil
}

// Parse decodes and validates a catalog document. format is "json", "yaml" or "yml".
func Parse(data []byte, format string) (*Catalog, error) {
	var file models.CatalogFile
	switch format {
	case "json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	return New(file)
}

// New validates file and indexes it
func New(file models.CatalogFile) (*Catalog, error) {
	c := &Catalog{
		templates:     make(map[string]models.MockupTemplate),
		styles:        make(map[string]models.ProductStyle),
		categoryByID:  make(map[string]int),
		styleCategory: make(map[string]string),
	}

	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("invalid catalog: at least one category is required")
	}

	for ci := range file.Categories {
		category := &file.Categories[ci]
		if category.ID == "" {
			return nil, fmt.Errorf("invalid catalog: category %d has no id", ci)
		}
		if _, dup := c.categoryByID[category.ID]; dup {
			return nil, fmt.Errorf("invalid catalog: duplicate category id %q", category.ID)
		}
		c.categoryByID[category.ID] = ci

		for si := range category.Styles {
			style := &category.Styles[si]
			if style.ID == "" {
				return nil, fmt.Errorf("invalid catalog: style %d of category %s has no id", si, category.ID)
			}
			if _, dup := c.styles[style.ID]; dup {
				return nil, fmt.Errorf("invalid catalog: duplicate style id %q", style.ID)
			}
			if style.ProductID == "" {
				style.ProductID = category.ID
			}

			for ti := range style.Templates {
				tmpl := &style.Templates[ti]
				if err := validateTemplate(tmpl); err != nil {
					return nil, err
				}
				if _, dup := c.templates[tmpl.ID]; dup {
					return nil, fmt.Errorf("invalid catalog: duplicate template id %q", tmpl.ID)
				}
				c.templates[tmpl.ID] = *tmpl
				c.templateOrder = append(c.templateOrder, tmpl.ID)
			}

			c.styles[style.ID] = *style
			c.styleCategory[style.ID] = category.ID
		}
	}

	c.categories = file.Categories
	return c, nil
}

// validateTemplate rejects templates the compositor cannot render and
// normalizes blend mode aliases in place
func validateTemplate(tmpl *models.MockupTemplate) error {
	if tmpl.ID == "" {
		return fmt.Errorf("invalid catalog: template without id")
	}
	if err := tmpl.ValidateGeometry(); err != nil {
		return err
	}
	if !mockup.SupportedBlendMode(tmpl.BlendMode) {
		return fmt.Errorf("invalid catalog: template %s has unsupported blend mode %q", tmpl.ID, tmpl.BlendMode)
	}
	tmpl.BlendMode = tmpl.BlendMode.Normalize()

	switch tmpl.Placement {
	case "", models.PlacementDirect, models.PlacementAffine, models.PlacementCurved:
	default:
		return fmt.Errorf("invalid catalog: template %s has unknown placement %q", tmpl.ID, tmpl.Placement)
	}

	switch tmpl.Category {
	case models.CategoryApparel, models.CategoryFrame, models.CategoryPhone, models.CategoryOther:
	case "":
		tmpl.Category = models.CategoryOther
	default:
		return fmt.Errorf("invalid catalog: template %s has unknown category %q", tmpl.ID, tmpl.Category)
	}

	if tmpl.BackgroundImage == "" {
		return fmt.Errorf("invalid catalog: template %s has no background image", tmpl.ID)
	}
	return nil
}

// Template returns the template with the given id
func (c *Catalog) Template(id string) (models.MockupTemplate, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// Templates returns every template in catalog order
func (c *Catalog) Templates() []models.MockupTemplate {
	out := make([]models.MockupTemplate, 0, len(c.templateOrder))
	for _, id := range c.templateOrder {
		out = append(out, c.templates[id])
	}
	return out
}

// TemplatesByCategory returns the templates of one template category in catalog order
func (c *Catalog) TemplatesByCategory(category models.TemplateCategory) []models.MockupTemplate {
	var out []models.MockupTemplate
	for _, id := range c.templateOrder {
		if t := c.templates[id]; t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Style returns a product style with its templates
func (c *Catalog) Style(id string) (models.ProductStyle, bool) {
	s, ok := c.styles[id]
	return s, ok
}

// StylesByProduct returns the styles of a product sorted by id
func (c *Catalog) StylesByProduct(productID string) []models.ProductStyle {
	var out []models.ProductStyle
	for _, s := range c.styles {
		if s.ProductID == productID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Categories returns every product category in catalog order
func (c *Catalog) Categories() []models.ProductCategory {
	out := make([]models.ProductCategory, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category returns a product category by id
func (c *Catalog) Category(id string) (models.ProductCategory, bool) {
	i, ok := c.categoryByID[id]
	if !ok {
		return models.ProductCategory{}, false
	}
	return c.categories[i], true
}

// CategoryOfStyle returns the category a style belongs to
func (c *Catalog) CategoryOfStyle(styleID string) (models.ProductCategory, bool) {
	id, ok := c.styleCategory[styleID]
	if !ok {
		return models.ProductCategory{}, false
	}
	return c.Category(id)
}

// SizeByLabel finds a size of a category by label or id. Labels are compared
// after size normalization ("Mini" == "MN").
func (c *Catalog) SizeByLabel(categoryID, label string) (models.ProductSize, bool) {
	category, ok := c.Category(categoryID)
	if !ok {
		return models.ProductSize{}, false
	}
	want := utils.NormalizeSize(label)
	for _, s := range category.Sizes {
		if utils.NormalizeSize(s.Label) == want || utils.NormalizeSize(s.ID) == want {
			return s, true
		}
	}
	return models.ProductSize{}, false
}

// RecommendSize picks the size of a category for a pet of the given height
func (c *Catalog) RecommendSize(categoryID string, heightCm float64) (models.ProductSize, bool) {
	category, ok := c.Category(categoryID)
	if !ok {
		return models.ProductSize{}, false
	}
	s, ok := category.SizeForHeight(heightCm)
	if !ok {
		return models.ProductSize{}, false
	}
	return *s, true
}
