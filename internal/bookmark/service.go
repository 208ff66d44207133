package bookmark

import (
	"context"
	"fmt"
)

// Service layers ownership authorisation over bookmark persistence.
type Service struct {
	repo Repository
}

// NewService creates a bookmark service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authorize confirms that the bookmark exists and is owned by userID.
//
// Precedence is fixed: existence is decided first, so a missing
// bookmark returns ErrNotFound no matter who asks; only then is the
// owner compared, returning ErrNotOwner on mismatch. Resource existence
// is not considered sensitive in this design.
func (s *Service) Authorize(ctx context.Context, userID, bookmarkID string) error {
	bm, err := s.repo.GetByID(ctx, bookmarkID)
	if err != nil {
		return err
	}

	if bm.OwnerID != userID {
		return ErrNotOwner
	}

	return nil
}

// Create saves a new bookmark owned by userID.
func (s *Service) Create(ctx context.Context, userID, title, link, description string) (*Bookmark, error) {
	bm := &Bookmark{
		OwnerID:     userID,
		Title:       title,
		Link:        link,
		Description: description,
	}

	if err := s.repo.Create(ctx, bm); err != nil {
		return nil, err
	}

	return bm, nil
}

// List returns the user's own bookmarks.
func (s *Service) List(ctx context.Context, userID string) ([]Bookmark, error) {
	return s.repo.ListByOwner(ctx, userID)
}

// Get returns a bookmark by ID. No ownership check is applied to reads.
func (s *Service) Get(ctx context.Context, bookmarkID string) (*Bookmark, error) {
	return s.repo.GetByID(ctx, bookmarkID)
}

// BookmarkEdit carries optional field updates; nil fields are unchanged.
type BookmarkEdit struct {
	Title       *string
	Link        *string
	Description *string
}

// Update edits a bookmark after confirming ownership.
func (s *Service) Update(ctx context.Context, userID, bookmarkID string, edit BookmarkEdit) (*Bookmark, error) {
	if err := s.Authorize(ctx, userID, bookmarkID); err != nil {
		return nil, err
	}

	bm, err := s.repo.GetByID(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}

	if edit.Title != nil {
		bm.Title = *edit.Title
	}
	if edit.Link != nil {
		bm.Link = *edit.Link
	}
	if edit.Description != nil {
		bm.Description = *edit.Description
	}

	if err := s.repo.Update(ctx, bm); err != nil {
		return nil, fmt.Errorf("updating bookmark %s: %w", bookmarkID, err)
	}

	return bm, nil
}

// Delete removes a bookmark after confirming ownership.
func (s *Service) Delete(ctx context.Context, userID, bookmarkID string) error {
	if err := s.Authorize(ctx, userID, bookmarkID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, bookmarkID); err != nil {
		return fmt.Errorf("deleting bookmark %s: %w", bookmarkID, err)
	}

	return nil
}
