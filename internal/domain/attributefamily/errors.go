package attributefamily

import "errors"

var (
	ErrFamilyNotFound   = errors.New("attribute family not found")
	ErrCodeTaken        = errors.New("attribute family code already taken")
	ErrLastFamily       = errors.New("last attribute family cannot be deleted")
	ErrFamilyInUse      = errors.New("attribute family is used by products")
	ErrDeleteFailed     = errors.New("attribute family delete failed")
	ErrMethodNotAllowed = errors.New("mass delete requires a delete request")
)
