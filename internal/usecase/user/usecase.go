package user

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "user-resource-service/internal/domain/user"
	apperrors "user-resource-service/pkg/errors"
	"user-resource-service/pkg/security"
)

// Default and maximum page sizes for list requests.
const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 50
)

// Repository defines the interface for user data access operations. It
// mirrors the document store's primitives: each call is independently atomic
// and may fail with a duplicate-key signal or a generic storage error.
type Repository interface {
	Insert(ctx context.Context, u *domain.User) (*domain.User, error)
	Find(ctx context.Context, search string, skip, limit int64) ([]domain.User, error)
	Count(ctx context.Context, search string) (int64, error)
	UpdateByID(ctx context.Context, id string, patch domain.Patch) (*domain.User, error)
	DeleteByID(ctx context.Context, id string) error
}

// userUsecase implements the business logic for user management operations.
type userUsecase struct {
	repo Repository
	log  *zap.Logger
}

// New creates a new user usecase backed by the provided repository.
func New(r Repository, log *zap.Logger) Usecase {
	return &userUsecase{repo: r, log: log}
}

func fromDomain(u *domain.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Age:       u.Age,
		Email:     u.Email,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateUser validates and normalizes the request, then inserts one new user.
// Validation failures never reach storage.
func (uc *userUsecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	in.normalize()
	if errs := in.checkFields(); len(errs) > 0 {
		uc.log.Warn("create user validation failed", zap.Int("violations", len(errs)))
		return nil, apperrors.NewValidationError(errs...)
	}

	u := &domain.User{
		Name:  in.Name,
		Age:   floorAge(*in.Age),
		Email: in.Email,
	}
	if in.Address != nil {
		u.Address = *in.Address
	}

	created, err := uc.repo.Insert(ctx, u)
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	uc.log.Info("user created", zap.String("id", created.ID), zap.String("email", created.Email))
	return &CreateUserResponse{User: fromDomain(created)}, nil
}

// UpdateUser applies a partial update after validating every provided field.
// With zero effective fields the operation fails without touching storage.
func (uc *userUsecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error) {
	in.normalize()
	if errs := in.checkFields(); len(errs) > 0 {
		uc.log.Warn("update user validation failed", zap.String("id", in.ID), zap.Int("violations", len(errs)))
		return nil, apperrors.NewValidationError(errs...)
	}

	patch := domain.Patch{
		Name:    in.Name,
		Email:   in.Email,
		Address: in.Address,
	}
	if in.Age != nil {
		age := floorAge(*in.Age)
		patch.Age = &age
	}

	if patch.IsEmpty() {
		uc.log.Warn("update user with empty field set", zap.String("id", in.ID))
		return nil, apperrors.ErrNothingToUpdate
	}

	updated, err := uc.repo.UpdateByID(ctx, in.ID, patch)
	if err != nil {
		uc.log.Error("failed to update user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	uc.log.Info("user updated", zap.String("id", updated.ID))
	return &UpdateUserResponse{User: fromDomain(updated)}, nil
}

// DeleteUser removes the matching user. Deleting an absent user is reported
// as not found.
func (uc *userUsecase) DeleteUser(ctx context.Context, in DeleteUserRequest) error {
	if err := uc.repo.DeleteByID(ctx, in.ID); err != nil {
		uc.log.Error("failed to delete user", zap.String("id", in.ID), zap.Error(err))
		return err
	}

	uc.log.Info("user deleted", zap.String("id", in.ID))
	return nil
}

// ListUsers returns one page of users matching the optional search string.
// The count and the page query are independent reads and run concurrently;
// if either fails the whole operation fails.
func (uc *userUsecase) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	if in.Page <= 0 {
		in.Page = DefaultPage
	}
	if in.Limit <= 0 {
		in.Limit = DefaultLimit
	}
	if in.Limit > MaxLimit {
		in.Limit = MaxLimit
	}

	search, err := security.ValidateSearchQuery(in.Search)
	if err != nil {
		uc.log.Warn("invalid search query", zap.Error(err))
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "search", Message: err.Error()})
	}

	skip := (in.Page - 1) * in.Limit

	var (
		total int64
		items []domain.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = uc.repo.Count(gctx, search)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = uc.repo.Find(gctx, search, skip, in.Limit)
		return err
	})
	if err := g.Wait(); err != nil {
		uc.log.Error("failed to list users", zap.String("search", search), zap.Int64("page", in.Page), zap.Int64("limit", in.Limit), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to query users", err)
	}

	p := domain.NewPagination(total, in.Page, in.Limit)

	users := make([]User, len(items))
	for i := range items {
		users[i] = fromDomain(&items[i])
	}

	return &ListUsersResponse{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		Users:      users,
	}, nil
}
