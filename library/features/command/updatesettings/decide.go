package updatesettings

import (
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// State is the current state Decide works on.
type State struct {
	Current core.LibrarySettings
	Found   bool
}

// Decide implements the business logic to update the settings.
//
// Business Rules:
//
//	GIVEN: Valid settings
//	WHEN: UpdateLibrarySettings is received
//	THEN: the settings are stored for the owner
//	IDEMPOTENCY: the stored settings already describe the same rules
//	ERROR: "invalid library settings"
func Decide(s State, command Command) core.DecisionResult {
	if err := command.Settings.Validate(); err != nil {
		return core.ErrorDecision(err)
	}

	if s.Found && s.Current.SameRulesAs(command.Settings) {
		return core.IdempotentDecision()
	}

	settings := command.Settings
	settings.UpdatedAt = command.OccurredAt

	cs := core.NewChangeset(command.OwnerID)
	cs.SettingsUpserts = []core.LibrarySettings{settings}

	return core.SuccessDecision(cs)
}
