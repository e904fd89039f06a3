package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
)

// LoadCategories replaces the category cache with the backend's canonical
// order: sort_order ascending with nulls last, then creation time ascending.
func (c *Controller) LoadCategories(ctx context.Context) error {
	categories, err := c.gw.Categories.List(ctx)
	if err != nil {
		return &ports.GatewayError{Op: "load categories", Err: err}
	}

	c.mu.Lock()
	c.categories = categories
	view := c.viewLocked()
	c.mu.Unlock()

	c.render(view)
	return nil
}

// CreateCategory inserts a new category. The key must be unused; the check
// runs against the local cache before any backend write.
func (c *Controller) CreateCategory(ctx context.Context, in ports.CategoryInput) error {
	if in.IconType == "" {
		in.IconType = domain.IconFontAwesome
		if strings.HasPrefix(in.Icon, "http") {
			in.IconType = domain.IconImage
		}
	}

	c.mu.Lock()
	for _, cat := range c.categories {
		if cat.Key == in.Key {
			c.mu.Unlock()
			return ports.ErrDuplicateCategoryKey
		}
	}
	c.mu.Unlock()

	created, err := c.gw.Categories.Insert(ctx, in)
	if err != nil {
		return &ports.GatewayError{Op: "create category", Err: err}
	}

	c.mu.Lock()
	c.categories = append(c.categories, created)
	view := c.viewLocked()
	c.mu.Unlock()

	c.logger.Info("category created", "key", in.Key)
	c.render(view)
	return nil
}

// UpdateCategory edits name and icon of an existing category in place. The
// key never changes.
func (c *Controller) UpdateCategory(ctx context.Context, key string, patch ports.CategoryPatch) error {
	if patch.IconType == "" {
		patch.IconType = domain.IconFontAwesome
		if strings.HasPrefix(patch.Icon, "http") {
			patch.IconType = domain.IconImage
		}
	}

	c.mu.Lock()
	idx := c.indexOfCategoryLocked(key)
	c.mu.Unlock()
	if idx < 0 {
		return ports.ErrNotFound
	}

	if err := c.gw.Categories.Update(ctx, key, patch); err != nil {
		return &ports.GatewayError{Op: "update category", Err: err}
	}

	c.mu.Lock()
	if idx := c.indexOfCategoryLocked(key); idx >= 0 {
		c.categories[idx].Name = patch.Name
		c.categories[idx].Icon = patch.Icon
		c.categories[idx].IconType = patch.IconType
	}
	view := c.viewLocked()
	c.mu.Unlock()

	c.logger.Info("category updated", "key", key)
	c.render(view)
	return nil
}

// DeleteCategory removes a category that no product references.
func (c *Controller) DeleteCategory(ctx context.Context, key string) error {
	c.mu.Lock()
	inUse := 0
	for _, p := range c.products {
		if p.Category == key {
			inUse++
		}
	}
	c.mu.Unlock()
	if inUse > 0 {
		return fmt.Errorf("%w: %d products", ports.ErrCategoryInUse, inUse)
	}

	if err := c.gw.Categories.Delete(ctx, key); err != nil {
		return &ports.GatewayError{Op: "delete category", Err: err}
	}

	c.mu.Lock()
	if idx := c.indexOfCategoryLocked(key); idx >= 0 {
		c.categories = append(c.categories[:idx], c.categories[idx+1:]...)
	}
	view := c.viewLocked()
	c.mu.Unlock()

	c.logger.Info("category deleted", "key", key)
	c.render(view)
	return nil
}

// positionWrite is one planned sort_order update.
type positionWrite struct {
	key      string
	position int
}

// Reorder moves a category to a new display position and shifts the
// intervening block so stored positions stay a dense permutation of 1..N.
// The whole plan is computed against a snapshot before any write; writes are
// then issued sequentially, so a failure partway leaves positions
// inconsistent until the next successful reorder. The collection is reloaded
// afterwards to adopt the backend's canonical order.
func (c *Controller) Reorder(ctx context.Context, key string, newPosition int) error {
	c.mu.Lock()
	categories := make([]domain.Category, len(c.categories))
	copy(categories, c.categories)
	c.mu.Unlock()

	if newPosition < 1 || newPosition > len(categories) {
		return fmt.Errorf("position %d out of range 1..%d", newPosition, len(categories))
	}

	current := -1
	for i, cat := range categories {
		if cat.Key == key {
			current = cat.Position(i)
			break
		}
	}
	if current < 0 {
		return ports.ErrNotFound
	}

	plan := reorderPlan(categories, key, current, newPosition)
	for _, w := range plan {
		if err := c.gw.Categories.UpdatePosition(ctx, w.key, w.position); err != nil {
			return &ports.GatewayError{Op: "reorder categories", Err: err}
		}
	}

	c.logger.Info("category reordered", "key", key, "position", newPosition)
	return c.LoadCategories(ctx)
}

// reorderPlan computes the block shift for a move. Occupancy is resolved
// against the snapshot, with unset sort orders falling back to array index.
func reorderPlan(categories []domain.Category, key string, current, target int) []positionWrite {
	occupant := func(pos int) (string, bool) {
		for i, cat := range categories {
			if cat.Key != key && cat.Position(i) == pos {
				return cat.Key, true
			}
		}
		return "", false
	}

	var plan []positionWrite
	switch {
	case target < current:
		for i := target; i < current; i++ {
			if k, ok := occupant(i); ok {
				plan = append(plan, positionWrite{key: k, position: i + 1})
			}
		}
	case target > current:
		for i := current + 1; i <= target; i++ {
			if k, ok := occupant(i); ok {
				plan = append(plan, positionWrite{key: k, position: i - 1})
			}
		}
	}
	return append(plan, positionWrite{key: key, position: target})
}

func (c *Controller) indexOfCategoryLocked(key string) int {
	for i, cat := range c.categories {
		if cat.Key == key {
			return i
		}
	}
	return -1
}
