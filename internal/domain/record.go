package domain

// Column names shared by the extractor, the table assembler and the exporters.
const (
	FieldProductName   = "product_name"
	FieldCurrency      = "currency"
	FieldCommission    = "commission"
	FieldMaxPrice      = "max_price"
	FieldCommentRating = "comment_rating"
	FieldComments      = "comments"
	FieldTemperature   = "temperature"
	FieldProductURL    = "product_url"
	FieldImgSrc        = "img_src"
)

// ExportColumns is the fixed column order for assembled tables and CSV export.
var ExportColumns = []string{
	FieldProductName,
	FieldCurrency,
	FieldCommission,
	FieldMaxPrice,
	FieldCommentRating,
	FieldComments,
	FieldTemperature,
	FieldProductURL,
	FieldImgSrc,
}

// DefaultCurrency is substituted when a card has no price element at all.
// A price element whose text merely lacks a currency prefix leaves the
// currency unset instead.
const DefaultCurrency = " "

// Record holds one listing card's extracted attributes. Numeric fields always
// carry a value (documented defaults apply when the source element is absent
// or unparseable); the optional text fields are meaningful only when their
// column name appears in Fields. Records are never mutated after extraction.
type Record struct {
	ProductURL    string  `json:"product_url,omitempty"`
	ImgSrc        string  `json:"img_src,omitempty"`
	ProductName   string  `json:"product_name,omitempty"`
	Currency      string  `json:"currency"`
	Commission    float64 `json:"commission"`
	MaxPrice      float64 `json:"max_price"`
	CommentRating float64 `json:"comment_rating"`
	Temperature   int     `json:"temperature"`
	Comments      int     `json:"comments"`

	// Fields lists the columns this record's card populated, in extraction
	// order. The table assembler uses it to decide column presence.
	Fields []string `json:"-"`

	// Defaulted lists fields whose raw text failed numeric parsing and fell
	// back to the documented default.
	Defaulted []string `json:"defaulted,omitempty"`
}

// Has reports whether the card populated the named column.
func (r Record) Has(field string) bool {
	for _, f := range r.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Empty reports whether the card yielded no fields at all.
func (r Record) Empty() bool {
	return len(r.Fields) == 0
}

// Value returns the record's value for the named column, or nil when the
// column was not populated.
func (r Record) Value(field string) any {
	if !r.Has(field) {
		return nil
	}
	switch field {
	case FieldProductName:
		return r.ProductName
	case FieldCurrency:
		return r.Currency
	case FieldCommission:
		return r.Commission
	case FieldMaxPrice:
		return r.MaxPrice
	case FieldCommentRating:
		return r.CommentRating
	case FieldComments:
		return r.Comments
	case FieldTemperature:
		return r.Temperature
	case FieldProductURL:
		return r.ProductURL
	case FieldImgSrc:
		return r.ImgSrc
	}
	return nil
}
