package request

// TitleRequest references genres and the category by slug.
type TitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required,titleyear"`
	Description *string  `json:"description,omitempty"`
	Genre       []string `json:"genre" validate:"omitempty,dive,slug"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,slug"`
}

// TitleUpdateRequest is a partial update. A missing genre list keeps the
// current genres, an empty one clears them.
type TitleUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=256"`
	Year        *int     `json:"year,omitempty" validate:"omitempty,titleyear"`
	Description *string  `json:"description,omitempty"`
	Genre       []string `json:"genre,omitempty" validate:"omitempty,dive,slug"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,slug"`
}

type TitleFilterRequest struct {
	Category string
	Genre    string
	Name     string
	Year     *int
}
