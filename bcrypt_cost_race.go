//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

func passwordHashCost() int {
	// race builds hash an order of magnitude slower; keep the default cost there.
	return bcrypt.DefaultCost
}
