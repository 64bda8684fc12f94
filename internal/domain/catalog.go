package domain

// Category identifies one of the fixed menu categories served by the food API.
// The set is closed: every category maps to a known endpoint path, and unknown
// category strings are rejected at construction time via ParseCategory.
type Category string

const (
	CategoryBurgers    Category = "burgers"
	CategoryPizzas     Category = "pizzas"
	CategoryDesserts   Category = "desserts"
	CategoryDrinks     Category = "drinks"
	CategoryBBQs       Category = "bbqs"
	CategorySandwiches Category = "sandwiches"
	CategorySteaks     Category = "steaks"

	// CategoryFeatured is the "best foods" pseudo-category. It is not part of
	// AllCategories; it backs the separate featured catalog.
	CategoryFeatured Category = "best-foods"
)

// AllCategories returns the fixed category set in aggregation order.
func AllCategories() []Category {
	return []Category{
		CategoryBurgers,
		CategoryPizzas,
		CategoryDesserts,
		CategoryDrinks,
		CategoryBBQs,
		CategorySandwiches,
		CategorySteaks,
	}
}

// Path returns the API endpoint path for the category.
func (c Category) Path() string {
	return "/" + string(c)
}

// ParseCategory validates a category string against the closed set.
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories() {
		if string(c) == s {
			return c, nil
		}
	}
	if s == string(CategoryFeatured) {
		return CategoryFeatured, nil
	}
	return "", ErrInvalidCategory
}

// CatalogItem represents one menu dish as surfaced to the UI.
type CatalogItem struct {
	// ID is unique only within the item's source category.
	ID string `json:"id"`
	// UniqueID is ID plus the category discriminator; unique across the whole
	// aggregated catalog and used as the dedup/list key.
	UniqueID    string   `json:"uniqueId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	Country     string   `json:"country"`
	ImageURL    string   `json:"imageUrl"`
	Category    Category `json:"category"`
}

// ValidationRecord is the persisted output of one completed validation pass.
type ValidationRecord struct {
	Items []CatalogItem `json:"items"`
	// ValidCount is how many items the pass confirmed loadable.
	ValidCount int `json:"validCount"`
	// Timestamp is epoch milliseconds at validation completion, not read time.
	Timestamp int64 `json:"timestamp"`
}

// CartLine pairs a catalog item with an ordered quantity. Checkout is
// simulated client-side; the server only validates the shape.
type CartLine struct {
	Item     CatalogItem `json:"item"`
	Quantity int         `json:"quantity"`
}

// Validate checks cart line invariants.
func (l CartLine) Validate() error {
	if l.Item.UniqueID == "" {
		return ErrInvalidRequest
	}
	if l.Quantity < 1 {
		return ErrInvalidRequest
	}
	return nil
}

// DeviceClass is the coarse device classification reported by the client.
type DeviceClass string

const (
	DeviceDesktop DeviceClass = "desktop"
	DeviceMobile  DeviceClass = "mobile"
)

// DeviceProfile carries the client hints used to size the validation window
// and to decide whether image validation should be skipped outright.
type DeviceProfile struct {
	Class    DeviceClass
	SaveData bool
	// EffectiveType is the client's effective connection class, e.g. "4g",
	// "3g", "2g" or "slow-2g".
	EffectiveType string
}

// Constrained reports whether the profile indicates a bandwidth-constrained
// network: an explicit data-saver flag or a detected slow connection.
func (p DeviceProfile) Constrained() bool {
	if p.SaveData {
		return true
	}
	switch p.EffectiveType {
	case "2g", "slow-2g":
		return true
	}
	return false
}
