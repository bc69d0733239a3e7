package v1

import (
	"errors"
	"net/http"

	"github.com/Incognitol07/expense-tracker-api/internal/models"
)

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	for _, forbidden := range []error{
		models.ErrNotGroupMember,
		models.ErrNotYourDebt,
	} {
		if errors.Is(err, forbidden) {
			return http.StatusForbidden
		}
	}

	for _, conflict := range []error{
		models.ErrUsernameTaken,
		models.ErrEmailTaken,
		models.ErrCategoryNameNotUnique,
		models.ErrGroupNameNotUnique,
		models.ErrBudgetWindowOverlap,
	} {
		if errors.Is(err, conflict) {
			return http.StatusConflict
		}
	}

	return http.StatusBadRequest
}

var (
	errCredentialsInvalid  = errors.New("the username or password is incorrect")
	errMasterKeyInvalid    = errors.New("the master key is incorrect")
	errNotAdmin            = errors.New("only admin accounts can do this")
	errCategoryReserved    = errors.New("this category is managed automatically and cannot be modified")
	errMemberAlreadyExists = errors.New("this user is already a member of the group")
	errNoPendingInvite     = errors.New("there is no pending invitation for you in this group")
	errNotGroupAdmin       = errors.New("only group admins can do this")
	errSplitsMissing       = errors.New("at least one split must be specified")
)
