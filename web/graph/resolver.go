// Package graph defines the GraphQL schema and resolvers. Resolvers are thin:
// they pull the session off the request, call a service, and map the result
// to a GraphQL value.
package graph

import (
	"errors"
	"strconv"
	"time"

	"github.com/noyan-alimov/lireddit-server/logger"
	"github.com/noyan-alimov/lireddit-server/web/email"
	"github.com/noyan-alimov/lireddit-server/web/entity"
	"github.com/noyan-alimov/lireddit-server/web/service"
	"github.com/noyan-alimov/lireddit-server/web/session"

	"github.com/graphql-go/graphql"
)

// ErrNotAuthenticated is raised by mutations that require a session identity.
var ErrNotAuthenticated = errors.New("not authenticated")

// Resolver bundles the services behind the GraphQL operations.
type Resolver struct {
	users service.UserService
	posts service.PostService
}

// NewResolver wires the resolver with its collaborators.
func NewResolver(mailer email.Mailer) *Resolver {
	return &Resolver{
		users: service.UserService{Mailer: mailer},
	}
}

func (r *Resolver) resolveHello(p graphql.ResolveParams) (any, error) {
	return "bye", nil
}

func (r *Resolver) resolveMe(p graphql.ResolveParams) (any, error) {
	c, err := GinContext(p.Context)
	if err != nil {
		return nil, err
	}

	userId, ok := session.GetUserId(c)
	if !ok {
		return nil, nil
	}

	user, err := r.users.GetUser(userId)
	if err != nil || user == nil {
		return nil, err
	}
	return user, nil
}

func (r *Resolver) resolveRegister(p graphql.ResolveParams) (any, error) {
	c, err := GinContext(p.Context)
	if err != nil {
		return nil, err
	}

	options := p.Args["options"].(map[string]any)
	input := service.RegisterInput{
		Username: options["username"].(string),
		Email:    options["email"].(string),
		Password: options["password"].(string),
	}

	user, fieldErrs, err := r.users.Register(input)
	if err != nil {
		return nil, err
	}
	if fieldErrs != nil {
		return &entity.UserResponse{Errors: fieldErrs}, nil
	}

	if err := session.SetUserId(c, user.Id); err != nil {
		logger.Warning("failed to save session after register:", err)
	}
	return &entity.UserResponse{User: user}, nil
}

func (r *Resolver) resolveLogin(p graphql.ResolveParams) (any, error) {
	c, err := GinContext(p.Context)
	if err != nil {
		return nil, err
	}

	user, fieldErrs, err := r.users.Login(
		p.Args["usernameOrEmail"].(string),
		p.Args["password"].(string),
	)
	if err != nil {
		return nil, err
	}
	if fieldErrs != nil {
		return &entity.UserResponse{Errors: fieldErrs}, nil
	}

	if err := session.SetUserId(c, user.Id); err != nil {
		logger.Warning("failed to save session after login:", err)
	}
	return &entity.UserResponse{User: user}, nil
}

// resolveLogout destroys the session. Store errors are logged and swallowed;
// from the caller's perspective logout always succeeds.
func (r *Resolver) resolveLogout(p graphql.ResolveParams) (any, error) {
	c, err := GinContext(p.Context)
	if err != nil {
		return nil, err
	}

	if err := session.Destroy(c); err != nil {
		logger.Warning("failed to destroy session:", err)
	}
	return true, nil
}

func (r *Resolver) resolveForgotPassword(p graphql.ResolveParams) (any, error) {
	return r.users.ForgotPassword(p.Args["email"].(string))
}

func (r *Resolver) resolveChangePassword(p graphql.ResolveParams) (any, error) {
	c, err := GinContext(p.Context)
	if err != nil {
		return nil, err
	}

	user, fieldErrs, err := r.users.ChangePassword(
		p.Args["token"].(string),
		p.Args["newPassword"].(string),
	)
	if err != nil {
		return nil, err
	}
	if fieldErrs != nil {
		return &entity.UserResponse{Errors: fieldErrs}, nil
	}

	// A successful reset logs the user in.
	if err := session.SetUserId(c, user.Id); err != nil {
		logger.Warning("failed to save session after password change:", err)
	}
	return &entity.UserResponse{User: user}, nil
}

func (r *Resolver) resolvePosts(p graphql.ResolveParams) (any, error) {
	limit := p.Args["limit"].(int)

	var cursor *time.Time
	if raw, ok := p.Args["cursor"].(string); ok && raw != "" {
		millis, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("invalid cursor")
		}
		t := time.UnixMilli(millis)
		cursor = &t
	}

	return r.posts.ListPosts(limit, cursor)
}

func (r *Resolver) resolvePost(p graphql.ResolveParams) (any, error) {
	post, err := r.posts.GetPost(p.Args["id"].(int))
	if err != nil || post == nil {
		return nil, err
	}
	return post, nil
}

func (r *Resolver) resolveCreatePost(p graphql.ResolveParams) (any, error) {
	c, err := GinContext(p.Context)
	if err != nil {
		return nil, err
	}

	// Authorization happens before the store is touched.
	userId, ok := session.GetUserId(c)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	input := p.Args["input"].(map[string]any)
	return r.posts.CreatePost(
		input["title"].(string),
		input["text"].(string),
		userId,
	)
}

func (r *Resolver) resolveUpdatePost(p graphql.ResolveParams) (any, error) {
	post, err := r.posts.UpdatePostTitle(
		p.Args["id"].(int),
		p.Args["title"].(string),
	)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}
	return post, nil
}

func (r *Resolver) resolveDeletePost(p graphql.ResolveParams) (any, error) {
	return r.posts.DeletePost(p.Args["id"].(int)), nil
}
