package dto

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Service string `json:"service" validate:"required"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}
