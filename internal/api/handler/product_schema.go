package handler

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error   string           `json:"error"`
	Details []fieldViolation `json:"details,omitempty"`
}

type fieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type productRequest struct {
	Name        string  `json:"name"        validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=2000"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
}

type messageResponse struct {
	Message string `json:"message"`
}
