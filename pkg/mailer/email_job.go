package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// ID lets the worker deduplicate redelivered jobs. Template names a set of
// embedded templates rendered with Data; Subject/Text/HTML are used as-is
// when Template is empty.
type EmailJob struct {
	ID       string         `json:"id"`
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "reset_password"
	Data     map[string]any `json:"data,omitempty"`
}
