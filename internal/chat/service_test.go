package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/angelmondragon/storefront/pkg/apiclient"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRequester struct {
	requests []apiclient.Request
	message  string
	data     string
	err      error
}

func (s *stubRequester) Do(ctx context.Context, req apiclient.Request, out any) (*apiclient.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if out != nil && s.data != "" {
		if err := json.Unmarshal([]byte(s.data), out); err != nil {
			return nil, err
		}
	}
	return &apiclient.Response{Status: http.StatusOK, Envelope: types.Envelope{Success: true, Message: s.message}}, nil
}

func TestConversationStartsWithGreeting(t *testing.T) {
	c, err := NewConversation(&stubRequester{}, nil)
	require.NoError(t, err)
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.False(t, msgs[0].IsUser)
}

func TestSendReturnsAssistantReply(t *testing.T) {
	api := &stubRequester{data: `{"response":"Try a warm blush."}`}
	c, _ := NewConversation(api, nil)

	reply, err := c.Send(context.Background(), " which blush? ")
	require.NoError(t, err)
	assert.Equal(t, "Try a warm blush.", reply.Text)
	assert.Equal(t, sendRequest{Message: "which blush?"}, api.requests[0].Body)

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.True(t, msgs[1].IsUser)
	assert.Equal(t, "which blush?", msgs[1].Text)
}

func TestSendFallsBackToEnvelopeMessage(t *testing.T) {
	c, _ := NewConversation(&stubRequester{message: "handled"}, nil)
	reply, err := c.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "handled", reply.Text)

	c, _ = NewConversation(&stubRequester{}, nil)
	reply, err = c.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, EmptyReply, reply.Text)
}

func TestSendWithoutLogin(t *testing.T) {
	api := &stubRequester{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "not logged in")}
	c, _ := NewConversation(api, nil)

	reply, err := c.Send(context.Background(), "hi")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Equal(t, LoginRequired, reply.Text)
}

func TestSendTransportFailure(t *testing.T) {
	api := &stubRequester{err: pkgerrors.New(pkgerrors.CodeTimeout, "Request timeout")}
	c, _ := NewConversation(api, nil)

	reply, err := c.Send(context.Background(), "hi")
	assert.Error(t, err)
	assert.Equal(t, ConnectionLost, reply.Text)
	assert.Len(t, c.Messages(), 3)
}

func TestSendRejectsBlankText(t *testing.T) {
	api := &stubRequester{}
	c, _ := NewConversation(api, nil)
	_, err := c.Send(context.Background(), "   ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, api.requests)
	assert.Len(t, c.Messages(), 1)
}
