package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/angelmondragon/storefront/pkg/apiclient"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRequester struct {
	requests []apiclient.Request
	data     string
}

func (s *stubRequester) Do(ctx context.Context, req apiclient.Request, out any) (*apiclient.Response, error) {
	s.requests = append(s.requests, req)
	if out != nil && s.data != "" {
		if err := json.Unmarshal([]byte(s.data), out); err != nil {
			return nil, err
		}
	}
	return &apiclient.Response{Status: http.StatusOK}, nil
}

func TestCreateLink(t *testing.T) {
	api := &stubRequester{data: `{"paymentUrl":"https://pay.example/abc"}`}
	svc, err := NewService(api)
	require.NoError(t, err)

	link, err := svc.CreateLink(context.Background(), decimal.NewFromInt(150000))
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/abc", link.PaymentURL)

	raw, err := json.Marshal(api.requests[0].Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":150000}`, string(raw))
	assert.True(t, api.requests[0].Auth)
}

func TestCreateLinkRejectsNonPositiveAmounts(t *testing.T) {
	api := &stubRequester{}
	svc, _ := NewService(api)
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.CreateLink(context.Background(), amount)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "amount %s", amount)
	}
	assert.Empty(t, api.requests)
}

func TestCreateLinkWithoutURL(t *testing.T) {
	svc, _ := NewService(&stubRequester{data: `{}`})
	_, err := svc.CreateLink(context.Background(), decimal.NewFromInt(1))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestConfirm(t *testing.T) {
	api := &stubRequester{}
	svc, _ := NewService(api)

	assert.True(t, pkgerrors.IsCode(svc.Confirm(context.Background(), "  "), pkgerrors.CodeValidation))
	require.NoError(t, svc.Confirm(context.Background(), " PAY-1 "))
	require.Len(t, api.requests, 1)
	assert.Equal(t, confirmRequest{PaymentCode: "PAY-1"}, api.requests[0].Body)
	assert.Equal(t, "/Payment/payment", api.requests[0].Path)
}
