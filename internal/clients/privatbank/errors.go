package privatbank

import "fmt"

// ConnectionError is a transport-level failure: the request never produced
// an HTTP response.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatusError is a non-200 answer from the archive.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error status: %d for %s", e.StatusCode, e.URL)
}

// MalformedBodyError is a 200 answer whose body is not the expected JSON.
type MalformedBodyError struct {
	URL string
	Err error
}

func (e *MalformedBodyError) Error() string {
	return fmt.Sprintf("malformed body: %s: %v", e.URL, e.Err)
}

func (e *MalformedBodyError) Unwrap() error { return e.Err }
