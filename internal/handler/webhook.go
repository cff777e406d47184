package handler

import (
    "log"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/library-reservation/internal/bot"
)

// update is the gateway's wire format for one inbound chat update.
// Type selects which payload fields are meaningful.
type update struct {
    UserID  uint64 `json:"user_id"`
    Type    string `json:"type"` // "text", "choice" or "photo"
    Text    string `json:"text,omitempty"`
    Choice  string `json:"choice,omitempty"`
    Value   string `json:"value,omitempty"`
    PhotoID string `json:"photo_id,omitempty"`
}

// WebhookHandler receives chat updates from the gateway and feeds them
// to the conversation engine.
type WebhookHandler struct {
    engine *bot.Engine
}

// NewWebhookHandler constructs a WebhookHandler around the engine.
func NewWebhookHandler(engine *bot.Engine) *WebhookHandler {
    if engine == nil {
        panic("nil engine passed to NewWebhookHandler")
    }
    return &WebhookHandler{engine: engine}
}

// Receive handles POST /webhook. Malformed payloads get a 400 so the
// gateway can drop them; engine faults still return 200 because the
// user has already been answered and a retry would only repeat the
// side effects.
func (h *WebhookHandler) Receive(c echo.Context) error {
    var u update
    if err := c.Bind(&u); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
    }
    if u.UserID == 0 {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing user_id"})
    }

    var ev bot.Event
    switch u.Type {
    case "text":
        ev = bot.TextEvent(u.Text)
    case "choice":
        ev = bot.ChoiceEvent(bot.ChoiceKind(u.Choice), u.Value)
    case "photo":
        ev = bot.PhotoEvent(u.PhotoID)
    default:
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown update type"})
    }

    if err := h.engine.Handle(c.Request().Context(), u.UserID, ev); err != nil {
        log.Printf("webhook: engine fault for user %d: %v", u.UserID, err)
    }
    return c.NoContent(http.StatusOK)
}
