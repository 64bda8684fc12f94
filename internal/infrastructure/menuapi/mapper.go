package menuapi

import (
	"encoding/json"

	"github.com/forkflame/backend/internal/domain"
)

// flexID decodes an identifier that the food API serves as either a JSON
// number or a string, depending on endpoint.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// rawFood is one record as returned by the food API.
type rawFood struct {
	ID          flexID  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Country     string  `json:"country"`
	ImageURL    string  `json:"imageUrl"`
}

// mapRawFoods converts raw API records to domain catalog items, stamping each
// with its source category and the derived cross-category unique ID.
func mapRawFoods(raw []rawFood, category domain.Category) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, mapRawFood(r, category))
	}
	return items
}

func mapRawFood(r rawFood, category domain.Category) domain.CatalogItem {
	id := string(r.ID)
	return domain.CatalogItem{
		ID:          id,
		UniqueID:    id + "-" + string(category),
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Rating:      r.Rating,
		Country:     r.Country,
		ImageURL:    r.ImageURL,
		Category:    category,
	}
}
