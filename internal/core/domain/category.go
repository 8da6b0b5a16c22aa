package domain

// Category labels expense entries for analysis. Each owner gets a default set
// at registration; the default ("Uncategorized") category absorbs entries of
// deleted categories and can itself never be deleted.
type Category struct {
	CategoryID string `json:"categoryID"` // Primary key (UUID)
	OwnerID    string `json:"ownerID"`
	Name       string `json:"name"`
	Color      string `json:"color"` // Hex color for UI rendering
	IsDefault  bool   `json:"isDefault"`
	IsMonthly  bool   `json:"isMonthly"` // Marks categories tracked against a monthly budget
	AuditFields
}
