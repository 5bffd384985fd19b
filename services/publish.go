package services

import "github.com/vnkhanh/e-course-backend/models"

// CheckPublishGate is the single authority on Draft -> Published transitions:
// publishing requires a cover image that is present and not the placeholder
// sentinel. The client may disable its publish control with the same rule, but
// this check runs server-side on every update regardless of what was sent.
func CheckPublishGate(effectiveImage string) *UpdateError {
	if effectiveImage == "" || effectiveImage == models.PlaceholderImage {
		return ErrCoverPhotoRequired
	}
	return nil
}
