package impl

import (
	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"

	"github.com/pkg/errors"
)

var repositoryErrorMap = []struct {
	repoErr   error
	domainErr *domainerrors.BaseError
}{
	{repository.ErrUserNotFound, domainerrors.ErrUserNotFound},
	{repository.ErrAgentNotFound, domainerrors.ErrAgentNotFound},
	{repository.ErrCustomerNotFound, domainerrors.ErrCustomerNotFound},
	{repository.ErrProductNotFound, domainerrors.ErrProductNotFound},
	{repository.ErrFollowUpNotFound, domainerrors.ErrFollowUpNotFound},
	{repository.ErrInventoryRecordNotFound, domainerrors.ErrNotFound},
	{repository.ErrDuplicateUsername, domainerrors.ErrUserAlreadyExists},
	{repository.ErrDuplicateCompanyName, domainerrors.ErrAgentAlreadyExists},
	{repository.ErrDuplicateCustomer, domainerrors.ErrCustomerAlreadyExists},
	{repository.ErrDuplicateProduct, domainerrors.ErrProductAlreadyExists},
	{repository.ErrInsufficientStock, domainerrors.ErrInsufficientStock},
}

// translateRepoError maps repository sentinels to user-facing domain errors.
// Anything else is returned with a stack so the error handler can log where it surfaced.
func translateRepoError(err error) error {
	if err == nil {
		return nil
	}

	for _, m := range repositoryErrorMap {
		if errors.Is(err, m.repoErr) {
			return m.domainErr
		}
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return errors.WithStack(err)
}

func validationError(details string) error {
	return domainerrors.ErrValidationFailed.WithDetails(details)
}
