package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-rowform/pkg/catalog"
	"github.com/goliatone/go-rowform/pkg/host"
	"github.com/goliatone/go-rowform/pkg/model"
	"github.com/goliatone/go-rowform/pkg/renderers/vanilla"
	"github.com/goliatone/go-rowform/pkg/testsupport"
)

type fixture struct {
	server  *Server
	handler http.Handler
	inbox   *host.Inbox
	logs    *logtest.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := catalog.NewStore()
	require.NoError(t, store.Add(testsupport.SampleTemplate()))

	var (
		mu sync.Mutex
		n  int
	)
	logger, logs := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	inbox := &host.Inbox{}
	sessions := host.NewManager(
		host.WithLogger(logger),
		host.WithSubmitHandler(inbox.Handle),
		host.WithClock(func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }),
		host.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)

	renderer, err := vanilla.New()
	require.NoError(t, err)

	srv, err := New(Config{
		Catalog:  store,
		Sessions: sessions,
		Renderer: renderer,
		Inbox:    inbox,
	})
	require.NoError(t, err)

	return &fixture{server: srv, handler: srv.Routes(), inbox: inbox, logs: logs}
}

// changes counts the field changes the sessions recorded for column.
func (f *fixture) changes(column string) int {
	n := 0
	for _, entry := range f.logs.AllEntries() {
		if entry.Message == "field changed" && entry.Data["column"] == column {
			n++
		}
	}
	return n
}

func (f *fixture) dial(t *testing.T, ctx context.Context, id string) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(f.handler)
	t.Cleanup(ts.Close)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/sessions/"+id+"/live", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func (f *fixture) do(t *testing.T, method, target string, body url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// open creates and opens a session, returning its id.
func (f *fixture) open(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/templates/"+url.PathEscape("Customer Contacts")+"/sessions", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/sessions/"), "location %q", location)
	return strings.TrimPrefix(location, "/sessions/")
}

func (f *fixture) values(t *testing.T, id string) (model.FieldValues, bool) {
	t.Helper()
	rec := f.do(t, http.MethodGet, "/sessions/"+id+"/values", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Values  model.FieldValues `json:"values"`
		Visible bool              `json:"visible"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Values, payload.Visible
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestIndexListsTemplates(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Customer Contacts")
	assert.Contains(t, rec.Body.String(), `action="/templates/Customer%20Contacts/sessions"`)
}

func TestTemplatesAPI(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"templates":["Customer Contacts"]}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/templates/Customer%20Contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tmpl model.Template
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tmpl))
	assert.Equal(t, testsupport.SampleTemplate().ColumnNames(), tmpl.ColumnNames())

	rec = f.do(t, http.MethodGet, "/templates/Unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSession_UnknownTemplate(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/templates/Unknown/sessions", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "TEMPLATE_NOT_FOUND")
}

func TestShowSession_RendersForm(t *testing.T) {
	f := newFixture(t)
	id := f.open(t)

	rec := f.do(t, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "Add New Row")
	assert.Contains(t, body, `action="/sessions/id-1/submit"`)
	assert.Contains(t, body, `formaction="/sessions/id-1/cancel"`)
	assert.Contains(t, body, `data-live-url="/sessions/id-1/live"`)
	assert.Contains(t, body, `name="_session" value="id-1"`)
	for _, name := range testsupport.SampleTemplate().ColumnNames() {
		assert.Contains(t, body, `data-column="`+name+`"`)
	}

	_, visible := f.values(t, id)
	assert.True(t, visible)
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(t)
	for _, target := range []string{"/sessions/nope", "/sessions/nope/values"} {
		rec := f.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "SESSION_NOT_FOUND")
	}
	rec := f.do(t, http.MethodPost, "/sessions/nope/submit", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitSession_PostedForm(t *testing.T) {
	f := newFixture(t)
	id := f.open(t)

	rec := f.do(t, http.MethodPost, "/sessions/"+id+"/submit", url.Values{
		"_session":     {id},
		"_action":      {"submit"},
		"Full Name":    {"Ada Lovelace"},
		"Email":        {"ada@example.com"},
		"Status":       {"Not An Option"},
		"Contact Date": {"2024-03-15"},
		"Assigned To":  {"user_2"},
		"Notes":        {""},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	submissions := f.inbox.List()
	require.Len(t, submissions, 1)
	assert.Equal(t, id, submissions[0].SessionID)
	assert.Equal(t, "Customer Contacts", submissions[0].Template)
	assert.Equal(t, model.FieldValues{
		"Full Name":    "Ada Lovelace",
		"Email":        "ada@example.com",
		"Contact Date": "2024-03-15",
		"Assigned To":  "user_2",
		"Notes":        "",
	}, submissions[0].Values)

	values, visible := f.values(t, id)
	assert.Empty(t, values)
	assert.False(t, visible)

	rec = f.do(t, http.MethodGet, "/submissions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")

	rec = f.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), "Full Name=Ada Lovelace")
}

func TestCancelSession_KeepsValues(t *testing.T) {
	f := newFixture(t)
	id := f.open(t)

	session, err := f.server.sessions.Get(id)
	require.NoError(t, err)
	event, err := changeEvent(session.Template(), "Full Name", "Draft")
	require.NoError(t, err)
	require.NoError(t, session.Dispatch(event))

	rec := f.do(t, http.MethodPost, "/sessions/"+id+"/cancel", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	values, visible := f.values(t, id)
	assert.Equal(t, model.FieldValues{"Full Name": "Draft"}, values)
	assert.False(t, visible)
	assert.Empty(t, f.inbox.List())
}

func TestSubmitSession_RepeatedPostConflicts(t *testing.T) {
	f := newFixture(t)
	id := f.open(t)

	posted := url.Values{"Full Name": {"Ada Lovelace"}}
	rec := f.do(t, http.MethodPost, "/sessions/"+id+"/submit", posted)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = f.do(t, http.MethodPost, "/sessions/"+id+"/submit", posted)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORM_CLOSED")

	rec = f.do(t, http.MethodPost, "/sessions/"+id+"/cancel", url.Values{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Len(t, f.inbox.List(), 1)
	values, visible := f.values(t, id)
	assert.Empty(t, values)
	assert.False(t, visible)
}

func TestDeleteSession(t *testing.T) {
	f := newFixture(t)
	id := f.open(t)

	rec := f.do(t, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChangeEvent(t *testing.T) {
	tmpl := testsupport.SampleTemplate()

	cases := []struct {
		column, value string
		wantErr       bool
		want          string
	}{
		{column: "Notes", value: "hello", want: "form.TextInput"},
		{column: "Status", value: "Qualified", want: "form.OptionValueChosen"},
		{column: "Contact Date", value: "2024-03-15", want: "form.DatePicked"},
		{column: "Contact Date", value: "", want: "form.DateCleared"},
		{column: "Contact Date", value: "15/03/2024", wantErr: true},
		{column: "Missing", value: "x", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.column+"="+tc.value, func(t *testing.T) {
			event, err := changeEvent(tmpl, tc.column, tc.value)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, fmt.Sprintf("%T", event))
		})
	}
}

func TestLive_StreamsChanges(t *testing.T) {
	f := newFixture(t)
	id := f.open(t)

	ts := httptest.NewServer(f.handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/sessions/"+id+"/live", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	exchange := func(msg ClientMessage) ServerMessage {
		t.Helper()
		require.NoError(t, wsjson.Write(ctx, conn, msg))
		var reply ServerMessage
		require.NoError(t, wsjson.Read(ctx, conn, &reply))
		return reply
	}

	reply := exchange(ClientMessage{Type: "change", Column: "Full Name", Value: "A"})
	assert.Equal(t, "values", reply.Type)
	assert.Equal(t, model.FieldValues{"Full Name": "A"}, reply.Values)

	reply = exchange(ClientMessage{Type: "change", Column: "Full Name", Value: "Ad"})
	assert.Equal(t, model.FieldValues{"Full Name": "Ad"}, reply.Values)

	reply = exchange(ClientMessage{Type: "change", Column: "Status", Value: "Nope"})
	assert.Equal(t, "error", reply.Type)
	assert.Equal(t, "invalid_option", reply.Code)

	reply = exchange(ClientMessage{Type: "change", Column: "Contact Date", Value: "tomorrow"})
	assert.Equal(t, "invalid_date", reply.Code)

	reply = exchange(ClientMessage{Type: "ping"})
	assert.Equal(t, "pong", reply.Type)

	reply = exchange(ClientMessage{Type: "bogus"})
	assert.Equal(t, "unknown_type", reply.Code)

	reply = exchange(ClientMessage{Type: "submit"})
	assert.Equal(t, "closed", reply.Type)
	assert.Equal(t, closedSubmitted, reply.Reason)

	submissions := f.inbox.List()
	require.Len(t, submissions, 1)
	assert.Equal(t, model.FieldValues{"Full Name": "Ad"}, submissions[0].Values)

	conn.Close(websocket.StatusNormalClosure, "")
}

func TestLive_Cancel(t *testing.T) {
	f := newFixture(t)
	id := f.open(t)

	ts := httptest.NewServer(f.handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/sessions/"+id+"/live", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: "cancel"}))
	var reply ServerMessage
	require.NoError(t, wsjson.Read(ctx, conn, &reply))
	assert.Equal(t, "closed", reply.Type)
	assert.Equal(t, closedCancelled, reply.Reason)

	_, visible := f.values(t, id)
	assert.False(t, visible)
	assert.Empty(t, f.inbox.List())
}

func TestLive_SelectionFiresOnce(t *testing.T) {
	f := newFixture(t)
	id := f.open(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn := f.dial(t, ctx, id)

	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: "change", Column: "Status", Value: "Qualified"}))
	require.NoError(t, wsjson.Write(ctx, conn, ClientMessage{Type: "ping"}))

	var reply ServerMessage
	require.NoError(t, wsjson.Read(ctx, conn, &reply))
	assert.Equal(t, "values", reply.Type)
	assert.Equal(t, model.FieldValues{"Status": "Qualified"}, reply.Values)

	require.NoError(t, wsjson.Read(ctx, conn, &reply))
	assert.Equal(t, "pong", reply.Type, "one selection must produce exactly one reply")

	assert.Equal(t, 1, f.changes("Status"))
}

func TestLive_ClosedFormRejectsChanges(t *testing.T) {
	f := newFixture(t)
	id := f.open(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn := f.dial(t, ctx, id)

	exchange := func(msg ClientMessage) ServerMessage {
		t.Helper()
		require.NoError(t, wsjson.Write(ctx, conn, msg))
		var reply ServerMessage
		require.NoError(t, wsjson.Read(ctx, conn, &reply))
		return reply
	}

	reply := exchange(ClientMessage{Type: "change", Column: "Notes", Value: "draft"})
	require.Equal(t, "values", reply.Type)

	reply = exchange(ClientMessage{Type: "cancel"})
	require.Equal(t, "closed", reply.Type)

	reply = exchange(ClientMessage{Type: "change", Column: "Notes", Value: "after close"})
	assert.Equal(t, "error", reply.Type)
	assert.Equal(t, "form_closed", reply.Code)

	reply = exchange(ClientMessage{Type: "submit"})
	assert.Equal(t, "form_closed", reply.Code)

	values, visible := f.values(t, id)
	assert.Equal(t, model.FieldValues{"Notes": "draft"}, values)
	assert.False(t, visible)
	assert.Empty(t, f.inbox.List())
	assert.Equal(t, 1, f.changes("Notes"))
}

func TestAssets(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/assets/rowform.css", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".rowform-dialog")
}
