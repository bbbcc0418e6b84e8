package middleware

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var ErrUnauthorized = errors.New("unauthorized")

type Identity struct {
	UserID   uuid.UUID
	Role     string
	Email    string
	UserName string
}

// UserID returns the authenticated subject set by RequireAuth / RequireAdmin.
func UserID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(CtxUserID).(string)
	if !ok || s == "" {
		return uuid.Nil, ErrUnauthorized
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return id, nil
}

func CurrentIdentity(c echo.Context) (Identity, error) {
	id, err := UserID(c)
	if err != nil {
		return Identity{}, err
	}
	role, _ := c.Get(CtxRole).(string)
	email, _ := c.Get(CtxEmail).(string)
	name, _ := c.Get(CtxUserName).(string)
	return Identity{UserID: id, Role: role, Email: email, UserName: name}, nil
}
