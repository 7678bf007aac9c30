package models

// ProductSize is a purchasable size with its price and the pet height it fits
type ProductSize struct {
	ID          string  `json:"id" yaml:"id"`
	Label       string  `json:"label" yaml:"label"`
	Price       int64   `json:"price" yaml:"price"`
	MinHeightCm float64 `json:"minHeightCm" yaml:"minHeightCm"`
	MaxHeightCm float64 `json:"maxHeightCm" yaml:"maxHeightCm"`
}

// ProductStyle groups the templates (one per camera angle) of a product style
type ProductStyle struct {
	ID          string           `json:"id" yaml:"id"`
	ProductID   string           `json:"productId" yaml:"productId"`
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	Templates   []MockupTemplate `json:"templates" yaml:"templates"`
}

// ProductCategory groups styles and the size list shared by them
type ProductCategory struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Currency string         `json:"currency" yaml:"currency"`
	Styles   []ProductStyle `json:"styles" yaml:"styles"`
	Sizes    []ProductSize  `json:"sizes" yaml:"sizes"`
}

// CatalogFile is the on-disk layout of the product catalog
type CatalogFile struct {
	Categories []ProductCategory `json:"categories" yaml:"categories"`
}

// SizeForHeight returns the first size whose recommended range contains heightCm
func (c *ProductCategory) SizeForHeight(heightCm float64) (*ProductSize, bool) {
	for i := range c.Sizes {
		s := &c.Sizes[i]
		if heightCm >= s.MinHeightCm && heightCm <= s.MaxHeightCm {
			return s, true
		}
	}
	return nil, false
}
