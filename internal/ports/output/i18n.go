package output

// T renders user-facing text for a locale.
type T interface {
	// T renders the message identified by key. data fills template
	// placeholders and may be nil.
	T(locale, key string, data map[string]any) string
}
