package utils

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestSession(t *testing.T, rt roundTripFunc) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	require.NoError(t, err)
	s.Client.Transport = rt
	return s
}

func testInteraction() *discordgo.Interaction {
	return &discordgo.Interaction{ID: "123", AppID: "app", Token: "tok"}
}

func TestDeferResponseAcknowledgesInteraction(t *testing.T) {
	var path, body string
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		path = req.URL.Path
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		return &http.Response{
			StatusCode: http.StatusNoContent,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})
	i := &discordgo.InteractionCreate{Interaction: testInteraction()}

	require.NoError(t, DeferResponse(s, i, true))
	require.Contains(t, path, "/interactions/123/tok/callback")
	require.Contains(t, body, `"type":5`)
	require.Contains(t, body, `"flags":64`)
}

func TestSendFollowUpEditsOriginalResponse(t *testing.T) {
	var method, path, body string
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		method = req.Method
		path = req.URL.Path
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"id":"1"}`)),
		}, nil
	})

	SendFollowUp(s, testInteraction(), "done")
	require.Equal(t, http.MethodPatch, method)
	require.Contains(t, path, "/webhooks/app/tok/messages/@original")
	require.Contains(t, body, "done")

	SendFollowUpError(s, testInteraction(), "it broke")
	require.Contains(t, body, "❌ it broke")
}
