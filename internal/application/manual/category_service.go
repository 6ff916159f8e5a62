package manual

import (
	"context"

	"github.com/dentalhr/backend/internal/domain/identity"
	"github.com/dentalhr/backend/internal/domain/manual"
	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService handles the manual's category tree
type CategoryService struct {
	categoryRepo manual.CategoryRepository
	articleRepo  manual.ArticleRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo manual.CategoryRepository, articleRepo manual.ArticleRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		articleRepo:  articleRepo,
	}
}

// Create creates a root category, or a child when ParentID is set
func (s *CategoryService) Create(ctx context.Context, tc identity.TenantContext, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := tc.RequireEditor(); err != nil {
		return nil, err
	}

	var (
		category *manual.Category
		err      error
	)
	if req.ParentID != nil {
		parent, ferr := s.categoryRepo.FindByIDForTenant(ctx, tc.TenantID, *req.ParentID)
		if ferr != nil {
			return nil, ferr
		}
		category, err = manual.NewChildCategory(tc.TenantID, req.Name, req.Description, parent)
	} else {
		category, err = manual.NewCategory(tc.TenantID, req.Name, req.Description)
	}
	if err != nil {
		return nil, err
	}
	category.SortOrder = req.SortOrder
	category.CreatedBy = &tc.UserID

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Tree returns every category of the practice as a forest
func (s *CategoryService) Tree(ctx context.Context, tc identity.TenantContext) ([]CategoryTreeNode, error) {
	categories, err := s.categoryRepo.FindAllForTenant(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}
	return toCategoryTree(manual.BuildCategoryTree(categories)), nil
}

// Update renames, reorders or moves a category. Moving under itself or one of
// its descendants is rejected and leaves the tree unchanged.
func (s *CategoryService) Update(ctx context.Context, tc identity.TenantContext, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	if err := tc.RequireEditor(); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return nil, err
	}

	name, description, sortOrder := category.Name, category.Description, category.SortOrder
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	if err := category.Update(name, description, sortOrder); err != nil {
		return nil, err
	}

	move, parent, err := s.resolveMove(ctx, tc, category, req)
	if err != nil {
		return nil, err
	}
	if !move {
		if err := s.categoryRepo.Save(ctx, category); err != nil {
			return nil, err
		}
		resp := ToCategoryResponse(category)
		return &resp, nil
	}

	oldLevel := category.Level
	oldPath, err := category.MoveTo(parent)
	if err != nil {
		return nil, shared.WrapDomainError("VALIDATION_ERROR", err.Error(), err)
	}
	if err := s.categoryRepo.Move(ctx, category, oldPath, category.Level-oldLevel); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// resolveMove reports whether the request re-parents the category and to which parent
func (s *CategoryService) resolveMove(ctx context.Context, tc identity.TenantContext, category *manual.Category, req UpdateCategoryRequest) (bool, *manual.Category, error) {
	if req.MoveToRoot {
		return !category.IsRoot(), nil, nil
	}
	if req.ParentID == nil {
		return false, nil, nil
	}
	if category.ParentID != nil && *category.ParentID == *req.ParentID {
		return false, nil, nil
	}
	parent, err := s.categoryRepo.FindByIDForTenant(ctx, tc.TenantID, *req.ParentID)
	if err != nil {
		return false, nil, err
	}
	return true, parent, nil
}

// Delete removes a category that has neither children nor articles
func (s *CategoryService) Delete(ctx context.Context, tc identity.TenantContext, id uuid.UUID) error {
	if err := tc.RequireEditor(); err != nil {
		return err
	}
	if _, err := s.categoryRepo.FindByIDForTenant(ctx, tc.TenantID, id); err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, tc.TenantID, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("CATEGORY_HAS_CHILDREN", "La categoria contiene sottocategorie")
	}
	articles, err := s.articleRepo.CountByCategory(ctx, tc.TenantID, id)
	if err != nil {
		return err
	}
	if articles > 0 {
		return shared.NewDomainError("CATEGORY_HAS_ARTICLES", "La categoria contiene articoli")
	}
	return s.categoryRepo.DeleteForTenant(ctx, tc.TenantID, id)
}
