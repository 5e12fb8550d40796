// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

// CategoryService handles category business logic.
type CategoryService struct {
	repo   ports.CategoryRepository
	logger *slog.Logger
}

var _ ports.CategoryService = (*CategoryService)(nil)

func NewCategoryService(repo ports.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		logger: logger.With(slog.String("service", "category")),
	}
}

func (s *CategoryService) Create(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	category.PrepareForStorage()

	if err := s.repo.Save(ctx, category); err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}

	s.logger.InfoContext(ctx, "created category",
		slog.String("category_id", category.ID.String()),
		slog.String("name", category.Name))
	return nil
}

func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, domain.NewNotFound("category", id)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, category *domain.Category) (*domain.Category, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if current == nil {
		return nil, domain.NewNotFound("category", id)
	}

	category.ID = id
	category.CreatedAt = current.CreatedAt
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.logger.InfoContext(ctx, "updated category",
		slog.String("category_id", id.String()))
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID, permanent bool) error {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return domain.NewNotFound("category", id)
	}

	if permanent {
		err = s.repo.Delete(ctx, id)
	} else {
		err = s.repo.SoftDelete(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.logger.InfoContext(ctx, "deleted category",
		slog.String("category_id", id.String()),
		slog.Bool("permanent", permanent))
	return nil
}

func (s *CategoryService) List(ctx context.Context, page ports.Page) ([]domain.Category, int64, error) {
	categories, total, err := s.repo.FindAll(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, total, nil
}

// SupplierService handles supplier business logic.
type SupplierService struct {
	repo   ports.SupplierRepository
	logger *slog.Logger
}

var _ ports.SupplierService = (*SupplierService)(nil)

func NewSupplierService(repo ports.SupplierRepository, logger *slog.Logger) *SupplierService {
	return &SupplierService{
		repo:   repo,
		logger: logger.With(slog.String("service", "supplier")),
	}
}

func (s *SupplierService) Create(ctx context.Context, supplier *domain.Supplier) error {
	if err := supplier.Validate(); err != nil {
		return err
	}
	supplier.PrepareForStorage()

	if err := s.repo.Save(ctx, supplier); err != nil {
		return fmt.Errorf("failed to save supplier: %w", err)
	}

	s.logger.InfoContext(ctx, "created supplier",
		slog.String("supplier_id", supplier.ID.String()),
		slog.String("name", supplier.Name))
	return nil
}

func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	if supplier == nil {
		return nil, domain.NewNotFound("supplier", id)
	}
	return supplier, nil
}

func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, supplier *domain.Supplier) (*domain.Supplier, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	if current == nil {
		return nil, domain.NewNotFound("supplier", id)
	}

	supplier.ID = id
	supplier.CreatedAt = current.CreatedAt
	if err := supplier.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	s.logger.InfoContext(ctx, "updated supplier",
		slog.String("supplier_id", id.String()))
	return supplier, nil
}

func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID, permanent bool) error {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get supplier: %w", err)
	}
	if supplier == nil {
		return domain.NewNotFound("supplier", id)
	}

	if permanent {
		err = s.repo.Delete(ctx, id)
	} else {
		err = s.repo.SoftDelete(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	s.logger.InfoContext(ctx, "deleted supplier",
		slog.String("supplier_id", id.String()),
		slog.Bool("permanent", permanent))
	return nil
}

func (s *SupplierService) List(ctx context.Context, page ports.Page) ([]domain.Supplier, int64, error) {
	suppliers, total, err := s.repo.FindAll(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, total, nil
}

// UserService handles attribution user business logic.
type UserService struct {
	repo   ports.UserRepository
	logger *slog.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(repo ports.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger.With(slog.String("service", "user")),
	}
}

func (s *UserService) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.FindByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if existing != nil {
		return &domain.ConflictError{Entity: "user", Reason: fmt.Sprintf("email %q already exists", user.Email)}
	}

	user.PrepareForStorage()

	if err := s.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.InfoContext(ctx, "created user",
		slog.String("user_id", user.ID.String()))
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewNotFound("user", id)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, user *domain.User) (*domain.User, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if current == nil {
		return nil, domain.NewNotFound("user", id)
	}

	user.ID = id
	user.CreatedAt = current.CreatedAt
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if user.Email != current.Email {
		other, err := s.repo.FindByEmail(ctx, user.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, &domain.ConflictError{Entity: "user", Reason: fmt.Sprintf("email %q already exists", user.Email)}
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.InfoContext(ctx, "updated user",
		slog.String("user_id", id.String()))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID, permanent bool) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.NewNotFound("user", id)
	}

	if permanent {
		err = s.repo.Delete(ctx, id)
	} else {
		err = s.repo.SoftDelete(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "deleted user",
		slog.String("user_id", id.String()),
		slog.Bool("permanent", permanent))
	return nil
}

func (s *UserService) List(ctx context.Context, page ports.Page) ([]domain.User, int64, error) {
	users, total, err := s.repo.FindAll(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}
