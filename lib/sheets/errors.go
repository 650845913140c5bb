package sheets

import "fmt"

// CredentialError means the service account key file is missing or not
// a valid JSON key.
type CredentialError struct {
	Path string
	Err  error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("service account credentials %q: %s", e.Path, e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}
