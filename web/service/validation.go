package service

import (
	"strings"

	"github.com/noyan-alimov/lireddit-server/database"
	"github.com/noyan-alimov/lireddit-server/database/model"
	"github.com/noyan-alimov/lireddit-server/web/entity"

	"gorm.io/gorm"
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// validateRegister checks registration input one rule at a time and returns
// a single-element error list for the first violated rule. The uniqueness
// check is an exact, case-sensitive match; the store's unique index is the
// real guard against concurrent registration.
func validateRegister(db *gorm.DB, input RegisterInput) ([]entity.FieldError, error) {
	if !strings.Contains(input.Email, "@") {
		return []entity.FieldError{{Field: "email", Message: "invalid email"}}, nil
	}

	if len(input.Username) <= 2 {
		return []entity.FieldError{{Field: "username", Message: "length must be greater than 2"}}, nil
	}

	if len(input.Password) <= 6 {
		return []entity.FieldError{{Field: "password", Message: "length must be greater than 6"}}, nil
	}

	var existing model.User
	err := db.Model(model.User{}).
		Where("username = ?", input.Username).
		First(&existing).
		Error
	if err == nil {
		return []entity.FieldError{{Field: "username", Message: "username already taken"}}, nil
	} else if !database.IsNotFound(err) {
		return nil, err
	}

	if strings.Contains(input.Username, "@") {
		return []entity.FieldError{{Field: "username", Message: "can't include an @ sign"}}, nil
	}

	return nil, nil
}
