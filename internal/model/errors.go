package model

import (
	"errors"
	"fmt"
)

var ErrUnsupportedProvider = errors.New("unsupported model provider")

// defaultProviderMessage is used when the provider rejects a call without a message.
const defaultProviderMessage = "API Error"

// ProviderError is a non-success answer from the provider itself.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return defaultProviderMessage
	}
	return e.Message
}

func newProviderError(provider string, status int, message string) *ProviderError {
	return &ProviderError{Provider: provider, StatusCode: status, Message: message}
}

func unsupported(provider string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
}
