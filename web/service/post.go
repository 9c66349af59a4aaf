package service

import (
	"time"

	"github.com/noyan-alimov/lireddit-server/database"
	"github.com/noyan-alimov/lireddit-server/database/model"
	"github.com/noyan-alimov/lireddit-server/logger"
)

// maxPostsPageSize caps a single page regardless of what the client asks for.
const maxPostsPageSize = 50

// PostService implements post listing and CRUD over the entity store.
type PostService struct{}

// ListPosts returns up to limit posts, newest first. When cursor is non-nil
// only posts created strictly before it are returned, so pages stay stable
// while new posts arrive.
func (s *PostService) ListPosts(limit int, cursor *time.Time) ([]*model.Post, error) {
	db := database.GetDB()

	if limit > maxPostsPageSize {
		limit = maxPostsPageSize
	}
	if limit < 1 {
		limit = 1
	}

	query := db.Model(model.Post{}).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("created_at < ?", *cursor)
	}

	var posts []*model.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a post by id. A missing post is (nil, nil).
func (s *PostService) GetPost(id int) (*model.Post, error) {
	db := database.GetDB()

	post := &model.Post{}
	err := db.Model(model.Post{}).
		Where("id = ?", id).
		First(post).
		Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePost persists a new post. The creator id always comes from the
// session, never from client input.
func (s *PostService) CreatePost(title string, text string, creatorId int) (*model.Post, error) {
	db := database.GetDB()

	post := &model.Post{
		Title:     title,
		Text:      text,
		CreatorId: creatorId,
	}
	if err := db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePostTitle sets the title of an existing post and returns the updated
// post, or (nil, nil) when the post does not exist.
func (s *PostService) UpdatePostTitle(id int, title string) (*model.Post, error) {
	post, err := s.GetPost(id)
	if err != nil || post == nil {
		return nil, err
	}

	db := database.GetDB()
	err = db.Model(model.Post{}).
		Where("id = ?", id).
		Update("title", title).
		Error
	if err != nil {
		return nil, err
	}

	post.Title = title
	return post, nil
}

// DeletePost removes a post by id. Store failures are logged and reported as
// false; deleting an id that does not exist still succeeds.
func (s *PostService) DeletePost(id int) bool {
	db := database.GetDB()

	if err := db.Delete(&model.Post{}, id).Error; err != nil {
		logger.Errorf("delete post %d err: %v", id, err)
		return false
	}
	return true
}
