package service

import (
	"fmt"
	"strings"

	"github.com/noyan-alimov/lireddit-server/config"
	"github.com/noyan-alimov/lireddit-server/database"
	"github.com/noyan-alimov/lireddit-server/database/model"
	"github.com/noyan-alimov/lireddit-server/logger"
	"github.com/noyan-alimov/lireddit-server/util/crypto"
	"github.com/noyan-alimov/lireddit-server/web/cache"
	"github.com/noyan-alimov/lireddit-server/web/email"
	"github.com/noyan-alimov/lireddit-server/web/entity"
)

// UserService implements registration, login and the password-reset workflow.
type UserService struct {
	Mailer email.Mailer
}

// Register validates the input, hashes the password and persists the user.
// Validation failures come back as field errors; the error return is for
// store failures only.
func (s *UserService) Register(input RegisterInput) (*model.User, []entity.FieldError, error) {
	db := database.GetDB()

	if errs, err := validateRegister(db, input); err != nil {
		return nil, nil, err
	} else if errs != nil {
		return nil, errs, nil
	}

	hashedPassword, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
	}
	// The check in validateRegister and this insert are not atomic; the
	// unique index on username/email is what actually wins the race.
	if err := db.Create(user).Error; err != nil {
		return nil, nil, err
	}

	return user, nil, nil
}

// Login verifies credentials. An identifier containing "@" is looked up as
// an email, otherwise as a username.
func (s *UserService) Login(usernameOrEmail string, password string) (*model.User, []entity.FieldError, error) {
	db := database.GetDB()

	column := "username"
	if strings.Contains(usernameOrEmail, "@") {
		column = "email"
	}

	user := &model.User{}
	err := db.Model(model.User{}).
		Where(column+" = ?", usernameOrEmail).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, []entity.FieldError{{Field: "usernameOrEmail", Message: "that username doesn't exist"}}, nil
	} else if err != nil {
		return nil, nil, err
	}

	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil, []entity.FieldError{{Field: "password", Message: "wrong password"}}, nil
	}

	return user, nil, nil
}

// ForgotPassword issues a reset token and mails a reset link. It returns true
// whether or not the email is registered, so callers cannot probe for
// accounts. The mail send result is logged, never surfaced.
func (s *UserService) ForgotPassword(emailAddr string) (bool, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("email = ?", emailAddr).
		First(user).
		Error
	if database.IsNotFound(err) {
		return true, nil
	} else if err != nil {
		return false, err
	}

	token, err := cache.NewResetToken(user.Id)
	if err != nil {
		return false, err
	}

	link := fmt.Sprintf("%s/change-password/%s", config.GetWebOrigin(), token)
	body := fmt.Sprintf("<a href='%s'>reset password</a>", link)
	if err := s.Mailer.Send(emailAddr, "reset password", body); err != nil {
		logger.Warningf("failed to send reset email to %s: %v", emailAddr, err)
	}

	return true, nil
}

// ChangePassword exchanges a reset token for a new password. The token is
// deleted after a successful change, enforcing single use. Note the delete
// happens after the password update with no atomicity between the two: a
// crash in that window leaves a still-usable token.
func (s *UserService) ChangePassword(token string, newPassword string) (*model.User, []entity.FieldError, error) {
	if len(newPassword) <= 6 {
		return nil, []entity.FieldError{{Field: "newPassword", Message: "length must be greater than 6"}}, nil
	}

	userId, err := cache.LookupResetToken(token)
	if err == cache.ErrNotFound {
		return nil, []entity.FieldError{{Field: "token", Message: "token expired"}}, nil
	} else if err != nil {
		return nil, nil, err
	}

	user, err := s.GetUser(userId)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, []entity.FieldError{{Field: "token", Message: "user no longer exists"}}, nil
	}

	hashedPassword, err := crypto.HashPassword(newPassword)
	if err != nil {
		return nil, nil, err
	}

	db := database.GetDB()
	err = db.Model(model.User{}).
		Where("id = ?", userId).
		Update("password", hashedPassword).
		Error
	if err != nil {
		return nil, nil, err
	}

	if err := cache.DeleteResetToken(token); err != nil {
		logger.Warning("failed to delete reset token:", err)
	}

	return user, nil, nil
}

// GetUser fetches a user by id. A missing user is (nil, nil), not an error.
func (s *UserService) GetUser(id int) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("id = ?", id).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}
