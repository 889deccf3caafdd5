// Package auth holds the admin credential and the per-user session state
// that gates the landmark workflows.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is a seam so tests can use bcrypt.MinCost.
var hashCost = bcrypt.DefaultCost

// Credentials is the single admin login/password pair. Only a bcrypt hash of
// the password is kept in memory.
type Credentials struct {
	login []byte
	hash  []byte
}

// NewCredentials builds Credentials from a plaintext password or, when
// passwordHash is non-empty, from a precomputed bcrypt hash.
func NewCredentials(login, password, passwordHash string) (*Credentials, error) {
	if login == "" {
		return nil, errors.New("empty admin login")
	}

	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
		return &Credentials{login: []byte(login), hash: []byte(passwordHash)}, nil
	}

	if password == "" {
		return nil, errors.New("empty admin password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Credentials{login: []byte(login), hash: hash}, nil
}

// CheckLogin compares login in constant time.
func (c *Credentials) CheckLogin(login string) bool {
	return subtle.ConstantTimeCompare(c.login, []byte(login)) == 1
}

// CheckPassword verifies password against the stored hash.
func (c *Credentials) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
}

// Check verifies the full pair.
func (c *Credentials) Check(login, password string) bool {
	// evaluate both so timing does not reveal which half was wrong
	loginOK := c.CheckLogin(login)
	passwordOK := c.CheckPassword(password)
	return loginOK && passwordOK
}
