package catalog

// AllCategories selects every category in Search and TopWords.
const AllCategories = "All"

// CategoryCount is a category name with the number of poems filed under it.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
