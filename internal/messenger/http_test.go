package messenger

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/library-reservation/internal/bot"
)

func TestSendTextPostsPayload(t *testing.T) {
    var gotPath string
    var got map[string]any
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotPath = r.URL.Path
        require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
        w.WriteHeader(http.StatusOK)
    }))
    defer srv.Close()

    m := New(srv.URL+"/", -100200)
    err := m.SendText(context.Background(), 42, "hello",
        bot.Choice{Label: "Start", Kind: bot.ChoiceStart})
    require.NoError(t, err)

    assert.Equal(t, "/messages", gotPath)
    assert.Equal(t, float64(42), got["chat_id"])
    assert.Equal(t, "hello", got["text"])
    require.Len(t, got["choices"], 1)
}

func TestSendGroupPhotoTargetsGroupChat(t *testing.T) {
    var got map[string]any
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
        w.WriteHeader(http.StatusOK)
    }))
    defer srv.Close()

    m := New(srv.URL, -100200)
    require.NoError(t, m.SendGroupPhoto(context.Background(), "file-1", "returned"))
    assert.Equal(t, float64(-100200), got["chat_id"])
    assert.Equal(t, "file-1", got["photo_id"])
    assert.Equal(t, "returned", got["caption"])
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
        w.WriteHeader(http.StatusBadGateway)
    }))
    defer srv.Close()

    m := New(srv.URL, 1)
    err := m.SendGroupText(context.Background(), "x")
    require.Error(t, err)
    assert.Contains(t, err.Error(), "502")
}

func TestCancelledContextAborts(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
        w.WriteHeader(http.StatusOK)
    }))
    defer srv.Close()

    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    m := New(srv.URL, 1)
    assert.Error(t, m.SendText(ctx, 1, "late"))
}
