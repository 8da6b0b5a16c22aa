package models

// Category is the storage representation of an expense category.
type Category struct {
	CategoryID string `db:"category_id"`
	OwnerID    string `db:"owner_id"`
	Name       string `db:"name"`
	Color      string `db:"color"`
	IsDefault  bool   `db:"is_default"`
	IsMonthly  bool   `db:"is_monthly"`
	AuditFields
}
