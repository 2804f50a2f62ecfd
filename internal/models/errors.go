package models

import "errors"

var (
	ErrValidation      = errors.New("supplied data failed validation")
	ErrInvalidState    = errors.New("entity is in the wrong state for the requested operation")
	ErrForbidden       = errors.New("provided user does not have permission for this operation")
	ErrNoUser          = errors.New("requested user does not exist")
	ErrNoJob           = errors.New("requested job does not exist")
	ErrNoQuote         = errors.New("requested quote does not exist")
	ErrNoBid           = errors.New("requested bid does not exist")
	ErrNoProject       = errors.New("requested project does not exist")
	ErrNoAssessment    = errors.New("requested assessment does not exist")
	ErrNoNotification  = errors.New("requested notification does not exist")
	ErrAlreadyAccepted = errors.New("job already has an active project")
	ErrPaymentGateway  = errors.New("payment gateway call failed")
)
