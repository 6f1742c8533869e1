package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/twilio/twilio-go/twiml"
)

type callCreator interface {
	CreateCall(params *twilioApi.CreateCallParams) (*twilioApi.ApiV2010Call, error)
}

// TwilioCaller places reminder calls with inline TwiML.
type TwilioCaller struct {
	calls callCreator
	from  string
}

func NewTwilioCaller(accountSID, authToken, from string, timeout time.Duration) *TwilioCaller {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	client.SetTimeout(timeout)
	return &TwilioCaller{calls: client.Api, from: from}
}

// The Twilio SDK has no context support; ctx is only checked before the
// request and the client timeout bounds the call itself.
func (t *TwilioCaller) Call(ctx context.Context, to, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := SayTwiML(message)
	if err != nil {
		return err
	}

	params := &twilioApi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetTwiml(doc)

	if _, err := t.calls.CreateCall(params); err != nil {
		return fmt.Errorf("twilio call to %s: %w", to, err)
	}
	return nil
}

// SayTwiML renders a <Response> that reads message twice.
func SayTwiML(message string) (string, error) {
	doc, err := twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{
			Message:  message,
			Language: "en-US",
			Loop:     "2",
		},
	})
	if err != nil {
		return "", fmt.Errorf("render twiml: %w", err)
	}
	return doc, nil
}
