package shell

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const logMsgSettingsDefaulted = "no library settings stored, using defaults"

// SettingsProvider resolves the effective LibrarySettings of an owner.
// Owners without stored settings get core.DefaultLibrarySettingsFor(ownerID).
type SettingsProvider struct {
	store  LoadsSettings
	logger Logger
}

// SettingsProviderOption configures a SettingsProvider.
type SettingsProviderOption func(*SettingsProvider)

// WithSettingsLogger logs at debug level when the defaults are used.
func WithSettingsLogger(logger Logger) SettingsProviderOption {
	return func(p *SettingsProvider) {
		p.logger = logger
	}
}

// NewSettingsProvider reads from store, which may be a cache in front of the database.
func NewSettingsProvider(store LoadsSettings, opts ...SettingsProviderOption) SettingsProvider {
	provider := SettingsProvider{store: store}

	for _, opt := range opts {
		opt(&provider)
	}

	return provider
}

// SettingsFor returns the stored settings of ownerID, or the defaults if none are stored.
func (p SettingsProvider) SettingsFor(ctx context.Context, ownerID uuid.UUID) (core.LibrarySettings, error) {
	settings, found, err := p.store.LoadSettings(ctx, ownerID)
	if err != nil {
		return core.LibrarySettings{}, err
	}

	if !found {
		if p.logger != nil {
			p.logger.Debug(logMsgSettingsDefaulted, LogAttrOwnerID, ownerID.String())
		}

		return core.DefaultLibrarySettingsFor(ownerID), nil
	}

	return settings, nil
}
