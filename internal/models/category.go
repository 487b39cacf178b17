package models

// Category is an entry in the fixed, externally supplied category catalog.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Categories is the catalog shipped with the client. The store treats ids
// outside this list as opaque passthrough values.
var Categories = []Category{
	{ID: "health", Name: "Health"},
	{ID: "fitness", Name: "Fitness"},
	{ID: "mindfulness", Name: "Mindfulness"},
	{ID: "productivity", Name: "Productivity"},
	{ID: "learning", Name: "Learning"},
	{ID: "finance", Name: "Finance"},
	{ID: "social", Name: "Social"},
	{ID: "creativity", Name: "Creativity"},
}

// CategoryLabel resolves a category id to its display name. Unknown ids are
// returned as-is; empty ids render as "None".
func CategoryLabel(id string) string {
	if id == "" {
		return "None"
	}
	for _, c := range Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}
