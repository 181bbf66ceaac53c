// Package extract turns saved search-page markup into listing records. The
// markup shape is described by a Locators table so that class or tag changes
// on the target page require configuration edits only.
package extract

import (
	"fmt"
	"net/url"
	"strings"
)

// Selector locates one field inside a listing card by element tag and class
// list. An element matches when it has the tag and carries every listed
// class; extra classes on the element are allowed.
type Selector struct {
	Tag   string `mapstructure:"tag"`
	Class string `mapstructure:"class"`
}

// css renders the selector in goquery's compound form, "p._mb-0._text-1".
func (s Selector) css() string {
	classes := strings.Fields(s.Class)
	if len(classes) == 0 {
		return s.Tag
	}
	return s.Tag + "." + strings.Join(classes, ".")
}

// Locators maps the scanned page's markup to record fields. The zero value
// finds nothing; start from DefaultLocators and override what the target
// markup changed.
type Locators struct {
	// CardClasses is the space-separated class list of a listing-card
	// container. An element is a card only when it carries all of them.
	CardClasses string `mapstructure:"card_classes"`

	// BaseOrigin resolves the relative product links found on the page.
	BaseOrigin string `mapstructure:"base_origin"`

	ProductName  Selector `mapstructure:"product_name"`
	Price        Selector `mapstructure:"price"`
	MaxPrice     Selector `mapstructure:"max_price"`
	Rating       Selector `mapstructure:"rating"`
	CommentCount Selector `mapstructure:"comment_count"`
}

// DefaultLocators returns the locator table for the Hotmart search-result
// markup this tool was built against.
func DefaultLocators() Locators {
	return Locators{
		CardClasses:  "hot-col-xl-3 hot-col-lg-4 hot-col-md-6 hot-col-sm-12 _py-3",
		BaseOrigin:   "https://app.hotmart.com",
		ProductName:  Selector{Tag: "span", Class: "product-name"},
		Price:        Selector{Tag: "p", Class: "_mb-0 _text-3 _text-md-4 _text-green _font-weight-light"},
		MaxPrice:     Selector{Tag: "p", Class: "_mb-0 _text-1 _text-gray-500"},
		Rating:       Selector{Tag: "span", Class: "_mr-1 _text-1 _text-gray-800"},
		CommentCount: Selector{Tag: "span", Class: "_ml-1 _text-1 _text-gray-500 _font-weight _d-none _d-md-inline"},
	}
}

// cardSelector renders the compound class selector matching card containers.
func (l Locators) cardSelector() string {
	classes := strings.Fields(l.CardClasses)
	if len(classes) == 0 {
		return ""
	}
	return "." + strings.Join(classes, ".")
}

// Validate reports the first problem that would make extraction silently
// find nothing.
func (l Locators) Validate() error {
	if strings.TrimSpace(l.CardClasses) == "" {
		return fmt.Errorf("locators: card_classes is empty")
	}
	if strings.TrimSpace(l.BaseOrigin) == "" {
		return fmt.Errorf("locators: base_origin is empty")
	}
	if _, err := url.Parse(l.BaseOrigin); err != nil {
		return fmt.Errorf("locators: base_origin %q: %w", l.BaseOrigin, err)
	}
	selectors := map[string]Selector{
		"product_name":  l.ProductName,
		"price":         l.Price,
		"max_price":     l.MaxPrice,
		"rating":        l.Rating,
		"comment_count": l.CommentCount,
	}
	for name, sel := range selectors {
		if strings.TrimSpace(sel.Tag) == "" {
			return fmt.Errorf("locators: %s selector has no tag", name)
		}
	}
	return nil
}
