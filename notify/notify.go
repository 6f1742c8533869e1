package notify

import "context"

// Email is a rendered message with a plain text body and an HTML alternative.
type Email struct {
	FromName  string
	FromEmail string
	To        string
	Subject   string
	Text      string
	HTML      string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// VoiceCaller places one outbound call that reads the given message aloud.
type VoiceCaller interface {
	Call(ctx context.Context, to, message string) error
}

const (
	ChannelEmail = "email"
	ChannelVoice = "voice"
)
