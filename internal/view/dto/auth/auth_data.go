package auth

// LoginData is the view model for the login page. The password is never
// echoed back into the markup.
type LoginData struct {
	Email         string
	RememberMe    bool
	StatusMessage string
	// Success marks StatusMessage as the success line rather than an error.
	Success bool
	// EventsPath is where the page listens for the redirect notification.
	EventsPath string
}
