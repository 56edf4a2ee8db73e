package notify

import "context"

// Attachment is a binary payload delivered alongside a message.
type Attachment struct {
	Filename string
	MIMEType string
	Bytes    []byte
}

// Message is one outbound mail.
type Message struct {
	To         string
	Subject    string
	HTMLBody   string
	Attachment *Attachment
}

// Mailer delivers a message and returns the transport's message id.
// Implementations wrap delivery failures with errors.ErrTransport.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}
