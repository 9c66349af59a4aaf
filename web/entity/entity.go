// Package entity defines response structures shared by the web layer.
package entity

import "github.com/noyan-alimov/lireddit-server/database/model"

// FieldError attributes a validation failure to a named input field so
// clients can render it inline. Returned instead of a transport error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UserResponse carries either a user or a list of field errors, never both.
type UserResponse struct {
	Errors []FieldError `json:"errors,omitempty"`
	User   *model.User  `json:"user,omitempty"`
}
