// Package messenger delivers outbound messages to the chat gateway
// over HTTP. The gateway owns the actual chat platform credentials;
// this process only ever talks to it.
package messenger

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"

    "github.com/iliyamo/library-reservation/internal/bot"
)

// HTTPMessenger implements bot.Messenger by POSTing JSON payloads to
// the gateway. One attempt per call: the callers own deadlines and
// retry policy, so there is none here.
type HTTPMessenger struct {
    base   string
    group  int64
    client *http.Client
}

// New returns an HTTPMessenger for the given gateway base URL and
// group chat id. The client carries no timeout of its own; every call
// arrives with a bounded context.
func New(baseURL string, groupChatID int64) *HTTPMessenger {
    return &HTTPMessenger{
        base:   strings.TrimRight(baseURL, "/"),
        group:  groupChatID,
        client: &http.Client{},
    }
}

type messagePayload struct {
    ChatID  int64        `json:"chat_id"`
    Text    string       `json:"text,omitempty"`
    PhotoID string       `json:"photo_id,omitempty"`
    Caption string       `json:"caption,omitempty"`
    Choices []bot.Choice `json:"choices,omitempty"`
}

// SendText delivers text plus optional choices to one user.
func (m *HTTPMessenger) SendText(ctx context.Context, userID uint64, text string, choices ...bot.Choice) error {
    return m.post(ctx, "/messages", messagePayload{
        ChatID:  int64(userID),
        Text:    text,
        Choices: choices,
    })
}

// SendGroupText delivers text to the library group chat.
func (m *HTTPMessenger) SendGroupText(ctx context.Context, text string) error {
    return m.post(ctx, "/messages", messagePayload{ChatID: m.group, Text: text})
}

// SendGroupPhoto forwards a previously uploaded photo to the group
// chat by its file reference.
func (m *HTTPMessenger) SendGroupPhoto(ctx context.Context, photoID, caption string) error {
    return m.post(ctx, "/photos", messagePayload{
        ChatID:  m.group,
        PhotoID: photoID,
        Caption: caption,
    })
}

func (m *HTTPMessenger) post(ctx context.Context, path string, payload messagePayload) error {
    body, err := json.Marshal(payload)
    if err != nil {
        return fmt.Errorf("marshal payload: %w", err)
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.base+path, bytes.NewReader(body))
    if err != nil {
        return fmt.Errorf("build request: %w", err)
    }
    req.Header.Set("Content-Type", "application/json")

    resp, err := m.client.Do(req)
    if err != nil {
        return fmt.Errorf("gateway request: %w", err)
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        return fmt.Errorf("gateway returned %s for %s", resp.Status, path)
    }
    return nil
}

var _ bot.Messenger = (*HTTPMessenger)(nil)
