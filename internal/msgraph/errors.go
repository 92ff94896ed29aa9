package msgraph

import "fmt"

// AuthError means the identity provider or drive API rejected the
// credential itself (expired or revoked token, bad client secret). The
// caller must restart the affected flow; retrying cannot help.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("provider rejected credentials: %s", e.Detail)
}

// UpstreamError is any other non-success provider response. Detail carries
// the provider's raw error text for diagnosis.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider request failed (status %d): %s", e.StatusCode, e.Detail)
}

// NotFoundError means the drive search returned zero matches for the
// requested file name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found on drive: %s", e.Name)
}
