// Package chat backs the floating assistant widget.
package chat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storefront/pkg/apiclient"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/google/uuid"
)

const (
	Greeting       = "Hello! I'm your AI assistant. How can I help you today?"
	LoginRequired  = "Please login to use the chat feature."
	EmptyReply     = "Sorry, I couldn't process your request."
	ConnectionLost = "Sorry, I'm having trouble connecting. Please try again later."
)

// Message is one bubble of the conversation.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

type sendRequest struct {
	Message string `json:"message"`
}

type sendResponse struct {
	Response string `json:"response"`
}

type requester interface {
	Do(ctx context.Context, req apiclient.Request, out any) (*apiclient.Response, error)
}

// Conversation keeps the transcript of one chat session. Safe for concurrent use.
type Conversation struct {
	api  requester
	logg *logger.Logger
	now  func() time.Time

	mu       sync.Mutex
	messages []Message
}

// NewConversation starts a transcript with the assistant greeting.
func NewConversation(api requester, logg *logger.Logger) (*Conversation, error) {
	if api == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	c := &Conversation{api: api, logg: logg, now: time.Now}
	c.append(Greeting, false)
	return c, nil
}

// Send posts text and returns the assistant reply. The reply is always
// usable: failures yield a canned message and the cause is returned alongside
// it for logging.
func (c *Conversation) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, pkgerrors.New(pkgerrors.CodeValidation, "message is required").
			WithDetails(map[string]string{"message": "is required"})
	}
	c.append(text, true)

	var out sendResponse
	resp, err := c.api.Do(ctx, apiclient.Request{
		Name:   "chat.send",
		Method: http.MethodPost,
		Path:   "/Chat",
		Body:   sendRequest{Message: text},
		Auth:   true,
	}, &out)
	if err != nil {
		reply := ConnectionLost
		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			reply = LoginRequired
		}
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "chat.send.failed")
		return c.append(reply, false), err
	}

	reply := strings.TrimSpace(out.Response)
	if reply == "" {
		reply = strings.TrimSpace(resp.Envelope.Message)
	}
	if reply == "" {
		reply = EmptyReply
	}
	return c.append(reply, false), nil
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) append(text string, isUser bool) Message {
	msg := Message{ID: uuid.NewString(), Text: text, IsUser: isUser, Timestamp: c.now()}
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	return msg
}
