package service

import (
	"testing"
	"time"

	"github.com/noyan-alimov/lireddit-server/database"
	"github.com/noyan-alimov/lireddit-server/database/model"

	"github.com/stretchr/testify/assert"
)

func TestCreateAndGetPost(t *testing.T) {
	setup(t)
	defer teardown()

	user := mustCreateUser(t)
	service := PostService{}

	post, err := service.CreatePost("first post", "hello world", user.Id)
	assert.NoError(t, err)
	assert.NotZero(t, post.Id)

	found, err := service.GetPost(post.Id)
	assert.NoError(t, err)
	assert.Equal(t, "first post", found.Title)
	assert.Equal(t, "hello world", found.Text)
	assert.Equal(t, user.Id, found.CreatorId)

	missing, err := service.GetPost(post.Id + 1000)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListPostsKeysetPagination(t *testing.T) {
	setup(t)
	defer teardown()

	user := mustCreateUser(t)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		post := &model.Post{
			Title:     "post",
			Text:      "text",
			CreatorId: user.Id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		assert.NoError(t, database.GetDB().Create(post).Error)
	}

	service := PostService{}

	posts, err := service.ListPosts(3, nil)
	assert.NoError(t, err)
	assert.Len(t, posts, 3)
	// newest first
	assert.True(t, posts[0].CreatedAt.After(posts[1].CreatedAt))
	assert.True(t, posts[1].CreatedAt.After(posts[2].CreatedAt))

	// next page: strictly older than the last seen post
	cursor := posts[2].CreatedAt
	next, err := service.ListPosts(3, &cursor)
	assert.NoError(t, err)
	assert.Len(t, next, 2)
	for _, p := range next {
		assert.True(t, p.CreatedAt.Before(cursor))
	}
}

func TestListPostsLimitCap(t *testing.T) {
	setup(t)
	defer teardown()

	user := mustCreateUser(t)
	service := PostService{}
	for i := 0; i < 60; i++ {
		_, err := service.CreatePost("post", "text", user.Id)
		assert.NoError(t, err)
	}

	posts, err := service.ListPosts(100, nil)
	assert.NoError(t, err)
	assert.Len(t, posts, 50)
}

func TestUpdatePostTitle(t *testing.T) {
	setup(t)
	defer teardown()

	user := mustCreateUser(t)
	service := PostService{}

	post, err := service.CreatePost("old title", "text", user.Id)
	assert.NoError(t, err)

	updated, err := service.UpdatePostTitle(post.Id, "new title")
	assert.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)

	found, err := service.GetPost(post.Id)
	assert.NoError(t, err)
	assert.Equal(t, "new title", found.Title)

	missing, err := service.UpdatePostTitle(post.Id+1000, "whatever")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeletePost(t *testing.T) {
	setup(t)
	defer teardown()

	user := mustCreateUser(t)
	service := PostService{}

	post, err := service.CreatePost("doomed", "text", user.Id)
	assert.NoError(t, err)

	assert.True(t, service.DeletePost(post.Id))
	found, err := service.GetPost(post.Id)
	assert.NoError(t, err)
	assert.Nil(t, found)

	// idempotent: a missing id is not an error
	assert.True(t, service.DeletePost(post.Id))
}
