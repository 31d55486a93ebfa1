package table

import (
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/tables"
)

// ReloadInput is empty for now
type ReloadInput struct{}

// ReloadOutput summarizes the table now in use
type ReloadOutput struct {
	Sources    int
	Categories int
	Entries    int
	Warnings   []tables.Warning
}

// ResolveInput defines a table resolution
type ResolveInput struct {
	// ConversationID selects whose carry-over bonus is applied, none when empty
	ConversationID string
	Category       string
	Tier           string
}

// ResolveOutput holds the resolution
type ResolveOutput struct {
	Result *tables.Result
}

// ListCategoriesInput is empty for now
type ListCategoriesInput struct{}

// ListCategoriesOutput lists the loaded categories in authored order
type ListCategoriesOutput struct {
	Categories []string
}

// ListTiersInput names a category
type ListTiersInput struct {
	Category string
}

// ListTiersOutput lists the tiers of the category
type ListTiersOutput struct {
	Category string
	Tiers    []string
}
