package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/michi-labs/catapi/internal/core/domain"
	"github.com/michi-labs/catapi/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry a registration safely.
const HeaderIdempotencyKey = "Idempotency-Key"

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string           false  "Replays the first response for a repeated key"
// @Param        body             body      registerRequest  true   "User registration details"
// @Success      201              {object}  domain.User
// @Failure      500              {object}  errorBody
// @Router       /api/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userService.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:           req.Name,
		Identification: req.Identification,
		Email:          req.Email,
		Age:            req.Age,
		Username:       req.Username,
		Password:       req.Password,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

// Login verifies a username and password.
//
// @Summary      Login
// @Description  Checks credentials and returns the user. No token is issued.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /api/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userService.ValidateUser(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// List returns every user in insertion order.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      500  {object}  errorBody
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.GetAllUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns a single user.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      500  {object}  errorBody
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update replaces the supplied fields of a user. A new password is hashed.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to replace"
// @Success      200   {object}  domain.User
// @Failure      500   {object}  errorBody
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid payload")
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user and returns the removed record.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      500  {object}  errorBody
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user, err := h.userService.DeleteUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
