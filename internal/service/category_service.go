package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/goshop/internal/datamodels/category"
	"github.com/example/goshop/internal/errs"
)

// CategoryService owns the category tree. Names are unique and the parent
// chain must stay acyclic.
type CategoryService struct {
	repo category.Repository
}

func NewCategoryService(repo category.Repository) *CategoryService {
	return &CategoryService{repo: repo}
}

// GetByID fetches a category.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("no category found with the id %d", id)
		}
		return nil, err
	}
	return c, nil
}

// ListAll returns every category.
func (s *CategoryService) ListAll(ctx context.Context) ([]*category.Category, error) {
	return s.repo.ListAll(ctx)
}

// Create rejects duplicate names and missing or cyclic parents.
func (s *CategoryService) Create(ctx context.Context, c *category.Category) error {
	if c.Name == "" {
		return errs.Invalidf("category name is required")
	}
	exists, err := s.repo.ExistsByName(ctx, c.Name)
	if err != nil {
		return err
	}
	if exists {
		return errs.Conflictf("a category with the name %q already exists", c.Name)
	}
	if err := s.validateParent(ctx, 0, c.ParentID); err != nil {
		return err
	}
	return s.repo.Create(ctx, c)
}

// Update applies new values; the duplicate-name check excludes the category
// itself and the parent reassignment goes through the cycle guard.
func (s *CategoryService) Update(ctx context.Context, id int64, upd *category.Category) (*category.Category, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != "" && upd.Name != existing.Name {
		dup, err := s.repo.ExistsByNameExcluding(ctx, upd.Name, id)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, errs.Conflictf("a category with the name %q already exists", upd.Name)
		}
		existing.Name = upd.Name
	}
	if upd.Description != "" {
		existing.Description = upd.Description
	}
	if err := s.validateParent(ctx, id, upd.ParentID); err != nil {
		return nil, err
	}
	existing.ParentID = upd.ParentID
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// validateParent walks the proposed parent's ancestor chain and rejects the
// assignment when the chain reaches the category itself. A repeated ancestor
// aborts the walk, so pre-existing bad data cannot loop it forever.
func (s *CategoryService) validateParent(ctx context.Context, categoryID int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	if categoryID != 0 && *parentID == categoryID {
		return errs.Conflictf("a category cannot be its own parent")
	}
	seen := map[int64]bool{}
	cur := *parentID
	for {
		if seen[cur] {
			return errs.Conflictf("category parent chain already contains a cycle")
		}
		seen[cur] = true

		parent, err := s.repo.GetByID(ctx, cur)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFoundf("no parent category found with the id %d", cur)
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		if categoryID != 0 && *parent.ParentID == categoryID {
			return errs.Conflictf("assigning this parent would create a category cycle")
		}
		cur = *parent.ParentID
	}
}
