package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/diewo77/bizadmin/auth"
	"github.com/diewo77/bizadmin/httpx"
	"github.com/diewo77/bizadmin/internal/chat"
	"github.com/diewo77/bizadmin/internal/logging"
)

// Sender is the part of the chat service the handler needs.
type Sender interface {
	Send(ctx context.Context, conversationID, text string) (string, error)
}

type AssistantHandler struct {
	chat Sender
}

func NewAssistantHandler(s Sender) *AssistantHandler {
	return &AssistantHandler{chat: s}
}

type assistantReply struct {
	ConversationID string `json:"conversationId"`
	Reply          string `json:"reply"`
}

// Send: POST /assistant/conversations/{id}/messages
func (h *AssistantHandler) Send(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, httpx.MsgUnauthorized)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}
	var in struct {
		Message string `json:"message"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.MsgInvalidJSON)
		return
	}

	// conversations are private to the user that started them
	key := uuid.NewSHA1(id, []byte(strconv.FormatUint(uint64(uid), 10))).String()
	reply, err := h.chat.Send(r.Context(), key, in.Message)
	if errors.Is(err, chat.ErrEmptyMessage) {
		httpx.Error(w, http.StatusBadRequest, "Message is required")
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).WithField("conversation_id", id.String()).Error("assistant request failed")
		httpx.Error(w, http.StatusBadGateway, "Assistant is unavailable")
		return
	}
	httpx.JSON(w, http.StatusOK, assistantReply{ConversationID: id.String(), Reply: reply})
}
