package request

// Category and Genre carry slugs.
type TitleRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=256"`
	Year        int      `json:"year" validate:"required,notfutureyear"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,slug"`
	Genre       []string `json:"genre,omitempty" validate:"dive,slug"`
}

// A nil Genre leaves the links untouched, an empty list clears them.
type TitleUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	Year        *int     `json:"year,omitempty" validate:"omitempty,notfutureyear"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,slug"`
	Genre       []string `json:"genre" validate:"omitempty,dive,slug"`
}
