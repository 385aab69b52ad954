package lms

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordChangeUnsupported is returned for accounts whose auth plugin
// does not store passwords locally.
var ErrPasswordChangeUnsupported = errors.New("auth plugin does not support password changes")

// PasswordHashStore persists password hashes.
type PasswordHashStore interface {
	SetPasswordHash(ctx context.Context, userID int64, hash string) error
}

// LocalAuth updates passwords of accounts that authenticate against the LMS
// database, hashing them with bcrypt.
type LocalAuth struct {
	Store PasswordHashStore
	// Plugins lists the auth plugins that keep local passwords.
	// Defaults to "manual".
	Plugins []string
	// Cost defaults to bcrypt.DefaultCost.
	Cost int
}

func (a *LocalAuth) supports(plugin string) bool {
	plugins := a.Plugins
	if len(plugins) == 0 {
		plugins = []string{"manual"}
	}
	for _, p := range plugins {
		if p == plugin {
			return true
		}
	}
	return false
}

// UpdatePassword implements PasswordUpdater.
func (a *LocalAuth) UpdatePassword(ctx context.Context, user User, password string) error {
	if !a.supports(user.Auth) {
		return fmt.Errorf("%w: %q", ErrPasswordChangeUnsupported, user.Auth)
	}
	cost := a.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return a.Store.SetPasswordHash(ctx, user.ID, string(hash))
}
