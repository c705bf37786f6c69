// Package prefs persists user preferences for the AI collaborator.
//
// Preferences are plain string key-value pairs behind the [Store] interface,
// with implementations for different backends:
//   - file: a TOML file under the user's config directory (CLI default)
//   - mongo: a shared collection for server deployments
//   - memory: in-process storage for tests
//
// The AI configuration is read once at startup with [LoadAIConfig] and
// written back on change with [SaveAIConfig], which only touches keys whose
// values differ from what is stored:
//
//	store, err := prefs.NewFileStore("")
//	cfg, err := prefs.LoadAIConfig(ctx, store)
//	cfg.Provider = ai.Anthropic
//	err = prefs.SaveAIConfig(ctx, store, cfg)
//
// Search and ranking never read preferences.
package prefs

import (
	"context"

	"github.com/matzehuels/gitseeker/pkg/ai"
	errs "github.com/matzehuels/gitseeker/pkg/errors"
)

// Preference keys.
const (
	KeyProvider     = "ai_provider"
	KeyModel        = "ai_model"
	keyAPIKeyPrefix = "api_key_"
)

// APIKeyKey returns the key under which provider's API key is stored.
func APIKeyKey(provider string) string {
	return keyAPIKeyPrefix + provider
}

// Store is the interface for preference storage backends.
type Store interface {
	// Get returns the value for key. The bool is false when key is unset.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LoadAIConfig reads the AI configuration, filling in the default provider
// and that provider's default model when unset. An unknown stored provider
// falls back to the default.
func LoadAIConfig(ctx context.Context, store Store) (ai.Config, error) {
	cfg := ai.Config{APIKeys: make(map[string]string)}

	provider, ok, err := store.Get(ctx, KeyProvider)
	if err != nil {
		return cfg, errs.Wrap(errs.ErrCodeConfig, err, "read %s", KeyProvider)
	}
	cfg.Provider = ai.DefaultProvider
	if ok {
		if p, err := ai.ParseProvider(provider); err == nil {
			cfg.Provider = p
		}
	}

	model, ok, err := store.Get(ctx, KeyModel)
	if err != nil {
		return cfg, errs.Wrap(errs.ErrCodeConfig, err, "read %s", KeyModel)
	}
	if ok {
		cfg.Model = model
	}
	if cfg.Model == "" {
		cfg.Model = ai.DefaultModel(cfg.Provider)
	}

	for _, p := range ai.Providers() {
		key, ok, err := store.Get(ctx, APIKeyKey(p))
		if err != nil {
			return cfg, errs.Wrap(errs.ErrCodeConfig, err, "read %s", APIKeyKey(p))
		}
		if ok && key != "" {
			cfg.APIKeys[p] = key
		}
	}
	return cfg, nil
}

// SaveAIConfig writes cfg, touching only keys whose stored value differs.
// An empty model or API key deletes the stored value. Keys of providers
// absent from cfg.APIKeys are left alone.
func SaveAIConfig(ctx context.Context, store Store, cfg ai.Config) error {
	provider, err := ai.ParseProvider(cfg.Provider)
	if err != nil {
		return err
	}

	desired := []struct{ key, value string }{
		{KeyProvider, provider},
		{KeyModel, cfg.Model},
	}
	for _, p := range ai.Providers() {
		if key, ok := cfg.APIKeys[p]; ok {
			desired = append(desired, struct{ key, value string }{APIKeyKey(p), key})
		}
	}

	for _, d := range desired {
		cur, ok, err := store.Get(ctx, d.key)
		if err != nil {
			return errs.Wrap(errs.ErrCodeConfig, err, "read %s", d.key)
		}
		switch {
		case d.value == "" && ok:
			err = store.Delete(ctx, d.key)
		case d.value != "" && (!ok || cur != d.value):
			err = store.Set(ctx, d.key, d.value)
		}
		if err != nil {
			return errs.Wrap(errs.ErrCodeConfig, err, "write %s", d.key)
		}
	}
	return nil
}

// ClearAPIKey removes the stored API key of provider.
func ClearAPIKey(ctx context.Context, store Store, provider string) error {
	p, err := ai.ParseProvider(provider)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, APIKeyKey(p)); err != nil {
		return errs.Wrap(errs.ErrCodeConfig, err, "delete %s", APIKeyKey(p))
	}
	return nil
}
