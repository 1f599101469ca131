// Package permissions holds the role and ownership gates as plain
// predicates over (user, resource), independent of the HTTP layer.
package permissions

import (
	"net/http"

	"github.com/Appyouz/ecommerce-backend/models"
)

// Predicate decides whether a user may perform a request-method-shaped
// action. A nil user means the request is unauthenticated.
type Predicate func(method string, user *models.User) bool

// IsAuthenticated allows any authenticated user.
func IsAuthenticated(method string, user *models.User) bool {
	return user != nil
}

// IsSeller allows only authenticated users with the SELLER role.
func IsSeller(method string, user *models.User) bool {
	return user != nil && user.IsSeller()
}

// IsStaff allows only staff accounts.
func IsStaff(method string, user *models.User) bool {
	return user != nil && user.IsStaff
}

// IsOwnerOrReadOnly permits safe methods for everyone and mutating
// methods only for the owner of the resource.
func IsOwnerOrReadOnly(ownerID uint) Predicate {
	return func(method string, user *models.User) bool {
		if isSafeMethod(method) {
			return true
		}
		return user != nil && user.ID == ownerID
	}
}

// And composes predicates; every one must allow.
func And(preds ...Predicate) Predicate {
	return func(method string, user *models.User) bool {
		for _, p := range preds {
			if !p(method, user) {
				return false
			}
		}
		return true
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
