package rules

import "locale-splitter/internal/categorize"

// Default returns the production ruleset used by the split task.
//
// The list order is load-bearing: the first matching rule claims a key, so
// specific modules come first and the broad common patterns stay last. Keys
// claimed by nothing fall into the implicit "other" bucket.
func Default() categorize.Ruleset {
	return categorize.Ruleset{
		{Module: "auth", Patterns: []string{
			"sign_in", "sign_out", "sign_up", "log_in", "log_out",
			"password", "session", "unauthenticated", "confirmation",
			"remember_me", "account_locked",
		}},
		{Module: "emails", Patterns: []string{
			"email_", "_email", "mailer", "unsubscribe",
		}},
		{Module: "validation", Patterns: []string{
			"must_be", "too_short", "too_long", "taken", "blank",
			"invalid_format", "wrong_length",
		}},
		{Module: "errors", Patterns: []string{
			"error", "not_found", "forbidden", "unavailable", "failed",
			"something_went_wrong",
		}},
		{Module: "navigation", Patterns: []string{
			"menu", "nav_", "breadcrumb", "footer", "header", "sidebar",
		}},
		{Module: "notifications", Patterns: []string{
			"notification", "alert_", "reminder", "announcement",
		}},
		{Module: "forms", Patterns: []string{
			"placeholder", "label_", "hint_", "submit", "select_",
			"required_field", "optional_field",
		}},
		{Module: "common", Patterns: []string{
			"save", "cancel", "delete", "edit", "create", "update",
			"search", "back", "next", "previous", "close", "loading",
			"confirm", "show_more",
		}},
	}
}
