package manual

import (
	"sort"
	"strings"
	"time"

	"github.com/dentalhr/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups manual articles. Categories form a tree through ParentID;
// Path is the materialized chain of ancestor ids ending with the category's own id.
type Category struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	ParentID    *uuid.UUID
	Path        string
	Level       int
	SortOrder   int
}

// NewCategory creates a root category
func NewCategory(tenantID uuid.UUID, name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         strings.TrimSpace(description),
	}
	category.Path = category.ID.String()
	return category, nil
}

// NewChildCategory creates a category under parent
func NewChildCategory(tenantID uuid.UUID, name, description string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "La categoria padre è obbligatoria")
	}
	if parent.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}

	category, err := NewCategory(tenantID, name, description)
	if err != nil {
		return nil, err
	}
	category.ParentID = &parent.ID
	category.Level = parent.Level + 1
	category.Path = parent.Path + "/" + category.ID.String()
	return category, nil
}

// Update changes name, description and display order
func (c *Category) Update(name, description string, sortOrder int) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = name
	c.Description = strings.TrimSpace(description)
	c.SortOrder = sortOrder
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// MoveTo re-parents the category. A nil parent makes it a root.
// It returns the previous path so descendants can be rewritten.
func (c *Category) MoveTo(parent *Category) (string, error) {
	oldPath := c.Path
	if parent == nil {
		c.ParentID = nil
		c.Level = 0
		c.Path = c.ID.String()
	} else {
		if parent.ID == c.ID || c.IsAncestorOf(parent) {
			return "", shared.NewDomainError("CATEGORY_CYCLE", "La categoria non può essere spostata sotto se stessa o un suo discendente")
		}
		c.ParentID = &parent.ID
		c.Level = parent.Level + 1
		c.Path = parent.Path + "/" + c.ID.String()
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return oldPath, nil
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// IsAncestorOf returns true if this category is an ancestor of the given category
func (c *Category) IsAncestorOf(other *Category) bool {
	if other == nil || other.Path == "" {
		return false
	}
	return strings.HasPrefix(other.Path, c.Path+"/")
}

// CategoryNode is a category with its children, used to render the tree
type CategoryNode struct {
	Category
	Children []*CategoryNode
}

// BuildCategoryTree assembles flat categories into a forest ordered by sort order then name.
// Categories whose parent is missing from the input are treated as roots.
func BuildCategoryTree(categories []Category) []*CategoryNode {
	nodes := make(map[uuid.UUID]*CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &CategoryNode{Category: categories[i]}
	}

	roots := make([]*CategoryNode, 0)
	for i := range categories {
		node := nodes[categories[i].ID]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].Name < nodes[j].Name
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Il nome della categoria è obbligatorio")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Il nome della categoria non può superare 100 caratteri")
	}
	return nil
}
