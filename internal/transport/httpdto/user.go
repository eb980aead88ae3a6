package httpdto

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type StatusRequest struct {
	IsOnline *bool `json:"isOnline" binding:"required"`
}
