package loginform

// Status lines shown under the form. The status message is always one of
// these or empty.
const (
	StatusMissingFields      = "Please fill in all fields."
	StatusInvalidEmail       = "Enter a valid email."
	StatusInvalidCredentials = "Invalid email or password."
	StatusSuccess            = "Login successful! Redirecting..."
)

// RedirectMessage is the fixed text of the delayed redirect notification.
const RedirectMessage = "Redirecting to dashboard..."

// OutcomeKind classifies the result of validating a submission.
type OutcomeKind int

const (
	MissingFields OutcomeKind = iota + 1
	InvalidEmailFormat
	InvalidCredentials
	Success
)

func (k OutcomeKind) String() string {
	switch k {
	case MissingFields:
		return "missing_fields"
	case InvalidEmailFormat:
		return "invalid_email_format"
	case InvalidCredentials:
		return "invalid_credentials"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

// StatusMessage is the user-facing line for the outcome.
func (k OutcomeKind) StatusMessage() string {
	switch k {
	case MissingFields:
		return StatusMissingFields
	case InvalidEmailFormat:
		return StatusInvalidEmail
	case InvalidCredentials:
		return StatusInvalidCredentials
	case Success:
		return StatusSuccess
	default:
		return ""
	}
}

// Outcome is the result of validating one submission. Email is the trimmed
// email and is only set for Success.
type Outcome struct {
	Kind  OutcomeKind
	Email string
}

// OK reports whether the submission logged in.
func (o Outcome) OK() bool { return o.Kind == Success }
