package service

import (
	"github.com/noah-isme/school-conduct-api/pkg/database"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
)

// storeError maps a write failure onto the API error contract. Busy or
// locked database conditions stay distinguishable as retryable conflicts
// instead of collapsing into a generic internal error.
func storeError(err error, message string) *appErrors.Error {
	if database.IsBusy(err) {
		return appErrors.Clone(appErrors.ErrBusy, "")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
