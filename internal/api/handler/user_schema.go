package handler

import "github.com/michi-labs/catapi/internal/core/ports"

// registerRequest is the body of POST /api/register. Password presence is
// checked by the service so its message reaches the client unchanged.
type registerRequest struct {
	Name           string `json:"name"           validate:"required"`
	Identification string `json:"identification" validate:"required"`
	Email          string `json:"email"          validate:"required"`
	Age            int    `json:"age"            validate:"required"`
	Username       string `json:"username"       validate:"required"`
	Password       string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// updateUserRequest distinguishes absent fields (nil) from supplied ones.
type updateUserRequest struct {
	Name           *string `json:"name,omitempty"`
	Identification *string `json:"identification,omitempty"`
	Email          *string `json:"email,omitempty"`
	Age            *int    `json:"age,omitempty"`
	Username       *string `json:"username,omitempty"`
	Password       *string `json:"password,omitempty"`
}

func (r updateUserRequest) toInput() ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Name:           r.Name,
		Identification: r.Identification,
		Email:          r.Email,
		Age:            r.Age,
		Username:       r.Username,
		Password:       r.Password,
	}
}

// errorBody documents the error envelope for swagger.
type errorBody struct {
	Message string `json:"message" example:"error fetching cat breeds"`
}
