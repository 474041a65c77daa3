package user

import "time"

// CreateUserRequest represents the payload for creating a new user. Age is a
// pointer so a missing value can be told apart from zero; fractional input is
// floored at write time.
type CreateUserRequest struct {
	Name    string
	Age     *float64
	Email   string
	Address *string
}

// CreateUserResponse represents the payload after creating a user.
type CreateUserResponse struct {
	User User
}

// UpdateUserRequest represents a partial update. Every body field is
// optional; a nil field is absent and excluded from the write.
type UpdateUserRequest struct {
	ID      string
	Name    *string
	Age     *float64
	Email   *string
	Address *string
}

// UpdateUserResponse represents the payload after updating a user.
type UpdateUserResponse struct {
	User User
}

// DeleteUserRequest represents the payload for deleting a user.
type DeleteUserRequest struct {
	ID string
}

// ListUsersRequest represents the payload for listing users with pagination
// and optional search.
type ListUsersRequest struct {
	Page   int64
	Limit  int64
	Search string
}

// ListUsersResponse represents one page of users plus pagination metadata.
type ListUsersResponse struct {
	Page       int64
	Limit      int64
	Total      int64
	TotalPages int64
	Users      []User
}

// User represents a user DTO for API responses. Store bookkeeping fields are
// already stripped at this level.
type User struct {
	ID        string
	Name      string
	Age       int64
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
