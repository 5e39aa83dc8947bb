package domain

// FormState is an immutable snapshot of the user-editable fields, captured at
// submit time. Later edits never affect a request already built from it.
// Numeric fields keep their editable string representation; parsing happens
// in BuildRequest.
type FormState struct {
	SourceURL string
	Provider  Provider
	Format    Format
	Quality   string
	EQPreset  EQPreset
	Volume    string
	TrimStart string
	TrimEnd   string
	Cookies   string
}
