package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"user-resource-service/internal/usecase/user"
	apperrors "user-resource-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user.
// Pointer fields distinguish absent values from zero values.
type CreateUserRequest struct {
	Name    string   `json:"name"`
	Age     *float64 `json:"age"`
	Email   string   `json:"email"`
	Address *string  `json:"address"`
}

// UpdateUserRequest represents the HTTP request body for a partial update.
// Every field is optional; absent fields are excluded from the write.
type UpdateUserRequest struct {
	Name    *string  `json:"name"`
	Age     *float64 `json:"age"`
	Email   *string  `json:"email"`
	Address *string  `json:"address"`
}

// UserResponse represents the HTTP response for user data, with store
// bookkeeping fields stripped.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int64     `json:"age"`
	Email     string    `json:"email"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Page       int64          `json:"page"`
	Limit      int64          `json:"limit"`
	Total      int64          `json:"total"`
	TotalPages int64          `json:"totalPages"`
	Data       []UserResponse `json:"data"`
}

// MutationResponse represents the HTTP response for create and update
type MutationResponse struct {
	Message string       `json:"message"`
	Data    UserResponse `json:"data"`
}

// MessageResponse represents a message-only HTTP response
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents a single-error response
type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error"`
}

// ValidationErrorResponse carries the full list of per-field violations
type ValidationErrorResponse struct {
	Message string                 `json:"message"`
	Errors  []apperrors.FieldError `json:"errors"`
}

func toUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Age:       u.Age,
		Email:     u.Email,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func validationFailed(c *gin.Context, fields []apperrors.FieldError) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Message: "invalid input data",
		Errors:  fields,
	})
}

// bindJSON decodes the request body into obj. A type-mismatched field is
// reported as a per-field violation, like any other validation failure;
// only bodies that are not JSON at all get the generic response.
func (h *UserHandler) bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		h.log.Warn("type-mismatched request field",
			zap.String("field", typeErr.Field),
			zap.String("got", typeErr.Value),
		)
		validationFailed(c, []apperrors.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be a %s", typeErr.Field, jsonTypeName(typeErr.Type)),
		}})
		return false
	}

	h.log.Warn("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Message: "invalid input data",
		Error:   "request body must be valid JSON",
	})
	return false
}

// jsonTypeName names an expected Go type the way a JSON client sees it.
func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	default:
		return t.Kind().String()
	}
}

// validateID rejects path parameters that are not syntactically valid store
// identifiers before any storage call is made.
func (h *UserHandler) validateID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !primitive.IsValidObjectID(id) {
		h.log.Warn("invalid user id", zap.String("id", id))
		validationFailed(c, []apperrors.FieldError{{Field: "id", Message: "id must be a valid identifier"}})
		return "", false
	}
	return id, true
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:    req.Name,
		Age:     req.Age,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) {
			validationFailed(c, vErr.Fields)
			return
		}
		var dupErr *apperrors.AlreadyExistsError
		if errors.As(err, &dupErr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "failed to create user",
				Error:   "email already exists",
			})
			return
		}
		// Any other store-side rejection surfaces its reason with a 400.
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "failed to create user",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, MutationResponse{
		Message: "user created successfully",
		Data:    toUserResponse(resp.User),
	})
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.validateID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:      id,
		Name:    req.Name,
		Age:     req.Age,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNothingToUpdate) {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "no fields provided to update"})
			return
		}
		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) {
			validationFailed(c, vErr.Fields)
			return
		}
		var nfErr *apperrors.NotFoundError
		if errors.As(err, &nfErr) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user does not exist"})
			return
		}
		var dupErr *apperrors.AlreadyExistsError
		if errors.As(err, &dupErr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "failed to update user",
				Error:   "email already exists",
			})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MutationResponse{
		Message: "user updated successfully",
		Data:    toUserResponse(resp.User),
	})
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.validateID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id}); err != nil {
		var nfErr *apperrors.NotFoundError
		if errors.As(err, &nfErr) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "server error"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user deleted successfully"})
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var fields []apperrors.FieldError

	page := int64(user.DefaultPage)
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 1 {
			fields = append(fields, apperrors.FieldError{Field: "page", Message: "page must be an integer >= 1"})
		} else {
			page = v
		}
	}

	limit := int64(user.DefaultLimit)
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 1 || v > user.MaxLimit {
			fields = append(fields, apperrors.FieldError{Field: "limit", Message: "limit must be an integer between 1 and 50"})
		} else {
			limit = v
		}
	}

	if len(fields) > 0 {
		validationFailed(c, fields)
		return
	}

	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) {
			validationFailed(c, vErr.Fields)
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error while querying data"})
		return
	}

	data := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		data[i] = toUserResponse(u)
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Page:       resp.Page,
		Limit:      resp.Limit,
		Total:      resp.Total,
		TotalPages: resp.TotalPages,
		Data:       data,
	})
}
