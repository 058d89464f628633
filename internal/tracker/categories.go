package tracker

import (
	"context"

	"cha-ching/internal/auth"
	"cha-ching/internal/models"
	"cha-ching/internal/validate"
)

// CreateCategory adds a category named name. IDs are max + 1, so the ID of
// a deleted highest category is handed out again.
func (t *Tracker) CreateCategory(ctx context.Context, sess *auth.Session, name string) (*models.Category, error) {
	admin, err := requireAdmin(sess)
	if err != nil {
		return nil, err
	}
	name, err = validate.Name("name", name)
	if err != nil {
		return nil, err
	}

	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	if _, exists := doc.CategoryByName(name); exists {
		return nil, validate.Invalid("name", "category %q already exists", name)
	}

	c := models.Category{ID: doc.NextCategoryID(), Name: name, OwnerID: admin.ID}
	doc.Categories[c.ID] = c
	if err := t.save(ctx, doc); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCategory removes the category with id. Unknown IDs are ignored.
// Expenses keep the category name they were saved with.
func (t *Tracker) DeleteCategory(ctx context.Context, sess *auth.Session, id int64) error {
	if _, err := requireAdmin(sess); err != nil {
		return err
	}

	doc, err := t.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := doc.Categories[id]; !ok {
		return nil
	}
	delete(doc.Categories, id)
	return t.save(ctx, doc)
}

// ListCategories returns all categories ordered by ID. Any logged-in user
// may list them.
func (t *Tracker) ListCategories(ctx context.Context, sess *auth.Session) ([]models.Category, error) {
	if _, err := requireUser(sess); err != nil {
		return nil, err
	}
	doc, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.SortedCategories(), nil
}
