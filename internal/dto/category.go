package dto

// CreateCategoryRequest adds an expense category to the owner's registry.
// Color defaults when omitted.
type CreateCategoryRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Color     string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	IsMonthly bool   `json:"isMonthly"`
}

// UpdateCategoryRequest changes a category's name, color or monthly flag.
type UpdateCategoryRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Color     *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	IsMonthly *bool   `json:"isMonthly,omitempty"`
}
