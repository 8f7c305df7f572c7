package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/web"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

type payload struct {
	Name string `json:"name"`
}

func (p payload) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func TestHandle(t *testing.T) {
	t.Log("Given the need to route requests through the framework.")
	{
		shutdown := make(chan os.Signal, 1)

		var order []string
		mw := func(name string) web.Middleware {
			return func(handler web.Handler) web.Handler {
				return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
					order = append(order, name)
					return handler(ctx, w, r)
				}
			}
		}

		app := web.NewApp(shutdown, mw("app"))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v, err := web.GetValues(ctx)
			if err != nil {
				return web.NewShutdownError("web value missing from context")
			}

			resp := struct {
				Number  string `json:"number"`
				TraceID string `json:"trace_id"`
			}{
				Number:  web.Param(r, "number"),
				TraceID: v.TraceID,
			}
			return web.Respond(ctx, w, resp, http.StatusOK)
		}
		app.Handle(http.MethodGet, "v1", "/blocks/:number", h, mw("route"))

		fail := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return web.NewShutdownError("integrity failure")
		}
		app.Handle(http.MethodGet, "v1", "/fail", fail)

		r := httptest.NewRequest(http.MethodGet, "/v1/blocks/12", nil)
		w := httptest.NewRecorder()
		app.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould receive a 200: got %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould receive a 200.", success)

		var got struct {
			Number  string `json:"number"`
			TraceID string `json:"trace_id"`
		}
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the response: %v", failed, err)
		}
		if got.Number != "12" || got.TraceID == "" {
			t.Fatalf("\t%s\tShould get the param and a trace id: %+v", failed, got)
		}
		t.Logf("\t%s\tShould get the param and a trace id.", success)

		if strings.Join(order, ",") != "app,route" {
			t.Fatalf("\t%s\tShould run app middleware first: %v", failed, order)
		}
		t.Logf("\t%s\tShould run app middleware first.", success)

		app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/fail", nil))

		select {
		case <-shutdown:
			t.Logf("\t%s\tShould signal shutdown on an integrity failure.", success)
		default:
			t.Fatalf("\t%s\tShould signal shutdown on an integrity failure.", failed)
		}
	}
}

func TestDecode(t *testing.T) {
	t.Log("Given the need to decode and validate request bodies.")
	{
		tt := []struct {
			name string
			body string
			ok   bool
		}{
			{"valid", `{"name":"alice"}`, true},
			{"invalid", `{"name":""}`, false},
			{"unknown", `{"name":"alice","extra":1}`, false},
		}

		for testID, test := range tt {
			tf := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen decoding a %s body.", testID, test.name)
				{
					r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(test.body))

					var p payload
					err := web.Decode(r, &p)
					if (err == nil) != test.ok {
						t.Fatalf("\t%s\tTest %d:\tShould get ok=%v: got %v", failed, testID, test.ok, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get ok=%v.", success, testID, test.ok)
				}
			}

			t.Run(test.name, tf)
		}
	}
}
