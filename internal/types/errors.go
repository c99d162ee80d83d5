// internal/types/errors.go
package types

import "fmt"

// ConfigError reports a required credential or store coordinate that is
// unset. Raised by a component on first use, not at load time.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Missing)
}

// UpstreamError carries a failure reported by an upstream service, or a
// transport failure reaching it. StatusCode is the HTTP status to surface
// to the caller when one is known, 0 otherwise.
type UpstreamError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Service, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}
