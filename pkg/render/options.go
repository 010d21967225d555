package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the form presentation.
type RenderOptions struct {
	// Action is the URL the submit button posts the record to.
	Action string
	// CancelAction is the URL the cancel button posts to. When empty the
	// cancel button is rendered as a plain button for client-side handling.
	CancelAction string
	// LiveURL, when set, is the websocket endpoint the runtime script streams
	// per-keystroke changes to.
	LiveURL string
	// Hidden carries additional hidden inputs (session ids, CSRF tokens).
	Hidden map[string]string
	// Locale and Translator localise chrome strings; see Localize.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Theme overrides the renderer's configured theme for this render.
	Theme *theme.RendererConfig
}
