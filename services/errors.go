package services

import "net/http"

// UpdateError is a rejected course mutation: an authorization or validation
// failure carrying the HTTP status and the machine-readable code surfaced to
// the client.
type UpdateError struct {
	Status  int
	Code    string
	Message string
}

func (e *UpdateError) Error() string { return e.Message }

var (
	ErrCourseNotFound = &UpdateError{http.StatusNotFound, "NOT_FOUND", "Course not found"}
	ErrNotAuthorized  = &UpdateError{http.StatusForbidden, "NOT_AUTHORIZED", "Not authorized to modify this course"}

	ErrInvalidCategory    = &UpdateError{http.StatusBadRequest, "INVALID_CATEGORY", "Category must be one of: Development, Business, Design, Marketing"}
	ErrInvalidSubCategory = &UpdateError{http.StatusBadRequest, "INVALID_SUB_CATEGORY", "Sub-category is not valid"}
	ErrCategoryMismatch   = &UpdateError{http.StatusBadRequest, "CATEGORY_SUBCATEGORY_MISMATCH", "Sub-category does not belong to the selected category"}

	ErrInvalidPriceFormat = &UpdateError{http.StatusBadRequest, "INVALID_PRICE_FORMAT", "Price must be a valid non-negative number"}
	ErrInvalidStatus      = &UpdateError{http.StatusBadRequest, "INVALID_STATUS", "Status must be either Draft or Published"}
	ErrCoverPhotoRequired = &UpdateError{http.StatusBadRequest, "COVER_PHOTO_REQUIRED", "Cover photo is required to publish a course"}

	ErrMalformedPayload = &UpdateError{http.StatusBadRequest, "INVALID_PAYLOAD", "Malformed update payload"}
)
