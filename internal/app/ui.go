package app

// UI is the surface screens talk to. The terminal front-end implements
// it; tests record calls.
type UI interface {
	// Alert shows a dismissible message.
	Alert(title, message string)

	// Confirm shows a yes/no prompt and reports the choice.
	Confirm(title, message string) bool
}
