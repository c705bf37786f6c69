package ai

import (
	"context"
	"errors"
)

// ValidateKey reports whether key is accepted by provider. It returns nil
// for a valid key and an UNAUTHORIZED error when the provider rejects it.
func ValidateKey(ctx context.Context, provider, key string) error {
	p, err := newProvider(provider, key)
	if err != nil {
		return err
	}
	return p.Validate(ctx)
}

func asStatus(err error, target **StatusError) bool {
	return errors.As(err, target)
}
