package platform

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"canadian-helper/model"
	"canadian-helper/storage"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestDiscord(t *testing.T, cfg *model.Config, rt roundTripFunc) *Discord {
	t.Helper()
	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)
	session.Client.Transport = rt
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewDiscord(session, store, cfg)
}

func TestSendAppealDMFallsBackToAppealChannel(t *testing.T) {
	cfg := &model.Config{
		AppealFormURL:   "https://example.com/appeal",
		AppealChannelID: "999",
	}
	var posts []string
	d := newTestDiscord(t, cfg, func(req *http.Request) (*http.Response, error) {
		switch {
		case strings.HasSuffix(req.URL.Path, "/users/@me/channels"):
			// DMs closed.
			return jsonResponse(http.StatusForbidden,
				`{"message":"Cannot send messages to this user","code":50007}`), nil
		case strings.Contains(req.URL.Path, "/channels/999/messages"):
			body, _ := io.ReadAll(req.Body)
			posts = append(posts, string(body))
			return jsonResponse(http.StatusOK, `{"id":"1","channel_id":"999"}`), nil
		}
		t.Errorf("unexpected request: %s %s", req.Method, req.URL.Path)
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	d.SendAppealDM("42", "Testville")

	require.Len(t, posts, 1)
	require.Contains(t, posts[0], "<@42>")
	require.Contains(t, posts[0], "https://example.com/appeal")
}

func TestSendAppealDMPrefersDM(t *testing.T) {
	cfg := &model.Config{
		AppealFormURL:   "https://example.com/appeal",
		AppealChannelID: "999",
	}
	var dms []string
	d := newTestDiscord(t, cfg, func(req *http.Request) (*http.Response, error) {
		switch {
		case strings.HasSuffix(req.URL.Path, "/users/@me/channels"):
			return jsonResponse(http.StatusOK, `{"id":"777"}`), nil
		case strings.Contains(req.URL.Path, "/channels/777/messages"):
			body, _ := io.ReadAll(req.Body)
			dms = append(dms, string(body))
			return jsonResponse(http.StatusOK, `{"id":"2","channel_id":"777"}`), nil
		}
		t.Errorf("unexpected request: %s %s", req.Method, req.URL.Path)
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	d.SendAppealDM("42", "Testville")

	require.Len(t, dms, 1)
	require.Contains(t, dms[0], "https://example.com/appeal")
}

func TestSendAppealDMWithoutFormURLIsSilent(t *testing.T) {
	d := newTestDiscord(t, &model.Config{AppealChannelID: "999"}, func(req *http.Request) (*http.Response, error) {
		t.Errorf("unexpected request: %s %s", req.Method, req.URL.Path)
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})
	d.SendAppealDM("42", "Testville")
}
