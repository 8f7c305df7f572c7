package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/blockchain/stake"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestErrors(t *testing.T) {
	t.Log("Given the need to map handler errors to responses.")
	{
		tt := []struct {
			name   string
			err    error
			status int
		}{
			{"trusted", errs.NewTrusted(errors.New("bad input"), http.StatusBadRequest), http.StatusBadRequest},
			{"ledger", errs.FromLedger(state.ErrBlockNotFound), http.StatusNotFound},
			{"overflow", errs.FromLedger(fmt.Errorf("selecting miner: %w", stake.ErrStakeOverflow)), http.StatusConflict},
			{"fields", validate.FieldErrors{{Field: "to", Error: "to is a required field"}}, http.StatusBadRequest},
			{"unexpected", errors.New("boom"), http.StatusInternalServerError},
		}

		for testID, test := range tt {
			tf := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen a handler returns a %s error.", testID, test.name)
				{
					app := web.NewApp(make(chan os.Signal, 1), mid.Errors(zap.NewNop().Sugar()), mid.Panics())

					h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
						return test.err
					}
					app.Handle(http.MethodGet, "v1", "/test", h)

					w := httptest.NewRecorder()
					app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/test", nil))

					if w.Code != test.status {
						t.Fatalf("\t%s\tTest %d:\tShould receive %d: got %d", failed, testID, test.status, w.Code)
					}
					t.Logf("\t%s\tTest %d:\tShould receive %d.", success, testID, test.status)

					var resp errs.Response
					if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Error == "" {
						t.Fatalf("\t%s\tTest %d:\tShould receive an error document: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould receive an error document.", success, testID)
				}
			}

			t.Run(test.name, tf)
		}
	}
}

func TestPanics(t *testing.T) {
	t.Log("Given the need to recover from a panicking handler.")
	{
		app := web.NewApp(make(chan os.Signal, 1), mid.Errors(zap.NewNop().Sugar()), mid.Metrics(), mid.Panics())

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			panic("handler blew up")
		}
		app.Handle(http.MethodGet, "v1", "/panic", h, mid.Cors("*"))

		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/panic", nil))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("\t%s\tShould receive a 500: got %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould receive a 500.", success)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("\t%s\tShould set the CORS headers: got %q", failed, got)
		}
		t.Logf("\t%s\tShould set the CORS headers.", success)
	}
}
