package dto

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
	Password string `json:"password,omitempty"`
}

type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type RegisterResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	User    UserView `json:"user"`
	Token   string   `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool     `json:"success"`
	User    UserView `json:"user"`
	Token   string   `json:"token"`
}
