package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type ChatResponder interface {
	Reply(ctx context.Context, message string) string
}

type chatRequest struct {
	Message string `json:"message" validate:"notblank"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func Chat(bot ChatResponder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentUser(w, r, logg); !ok {
			return
		}
		var req chatRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "ok", chatResponse{Response: bot.Reply(r.Context(), req.Message)})
	}
}
