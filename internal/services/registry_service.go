package services

import (
	"context"

	"scorpiongym/internal/core"
	"scorpiongym/internal/storage"
)

// RegistryService owns the flat, gym-scoped reference data: accounts and
// category groups. Nothing validates ledger rows against this data; it exists
// to feed pickers in clients.
type RegistryService struct {
	repo *storage.SQLiteRepository
}

func NewRegistryService(repo *storage.SQLiteRepository) *RegistryService {
	return &RegistryService{repo: repo}
}

func (s *RegistryService) ListAccounts(ctx context.Context, gymID string) ([]core.Account, error) {
	if gymID == "" {
		return nil, core.NewValidationError("gym_id", "required")
	}
	return s.repo.ListAccounts(ctx, gymID)
}

func (s *RegistryService) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	return s.repo.CreateAccount(ctx, a)
}

func (s *RegistryService) UpdateAccount(ctx context.Context, id int64, gymID, name, kind string) (core.Account, error) {
	if err := (core.Account{GymID: gymID, Name: name, Kind: kind}).Validate(); err != nil {
		return core.Account{}, err
	}
	return s.repo.UpdateAccount(ctx, id, gymID, name, kind)
}

func (s *RegistryService) DeleteAccount(ctx context.Context, id int64, gymID string) error {
	if gymID == "" {
		return core.NewValidationError("gym_id", "required")
	}
	return s.repo.DeleteAccount(ctx, id, gymID)
}

func (s *RegistryService) ListCategoryGroups(ctx context.Context, gymID string) ([]core.CategoryGroup, error) {
	if gymID == "" {
		return nil, core.NewValidationError("gym_id", "required")
	}
	return s.repo.ListCategoryGroups(ctx, gymID)
}

func (s *RegistryService) CreateCategoryGroup(ctx context.Context, g core.CategoryGroup) (core.CategoryGroup, error) {
	if err := g.Validate(); err != nil {
		return core.CategoryGroup{}, err
	}
	return s.repo.CreateCategoryGroup(ctx, g)
}

func (s *RegistryService) UpdateCategoryGroup(ctx context.Context, id int64, gymID, name string) (core.CategoryGroup, error) {
	if err := (core.CategoryGroup{GymID: gymID, Name: name}).Validate(); err != nil {
		return core.CategoryGroup{}, err
	}
	return s.repo.UpdateCategoryGroup(ctx, id, gymID, name)
}

func (s *RegistryService) DeleteCategoryGroup(ctx context.Context, id int64, gymID string) error {
	if gymID == "" {
		return core.NewValidationError("gym_id", "required")
	}
	return s.repo.DeleteCategoryGroup(ctx, id, gymID)
}
