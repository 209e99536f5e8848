package recommend

import "fmt"

// BadRequestError is the caller's fault (HTTP 400).
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string { return e.Reason }

// UpstreamFetchError means the source image could not be retrieved (HTTP 502).
type UpstreamFetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch image %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch image %s: status %d", e.URL, e.Status)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// UpstreamAuthError is a server misconfiguration such as a missing model API
// key (HTTP 500). Never caused by user input.
type UpstreamAuthError struct {
	Reason string
}

func (e *UpstreamAuthError) Error() string { return e.Reason }

// UpstreamRequestError is a non-2xx from the model provider; its status code
// is passed through to the caller.
type UpstreamRequestError struct {
	StatusCode int
	Details    string
}

func (e *UpstreamRequestError) Error() string {
	return fmt.Sprintf("model provider returned status %d: %s", e.StatusCode, e.Details)
}

// MalformedResponseError is a contract violation by the model provider
// (HTTP 500): output that cannot be parsed into a recommendations array.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("could not parse model response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// NoMatchesError is the legitimate empty outcome (HTTP 404): every candidate
// failed catalog resolution. Explicitly not the user's fault, so the caller
// can choose not to charge credits.
type NoMatchesError struct {
	Failed int
}

func (e *NoMatchesError) Error() string {
	return fmt.Sprintf("none of the %d recommended songs could be found on the catalog", e.Failed)
}
