package validate_test

import (
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

type transfer struct {
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Amount uint64 `json:"amount" validate:"gt=0"`
}

func TestCheck(t *testing.T) {
	t.Log("Given the need to validate request models.")
	{
		if err := validate.Check(transfer{From: "a", To: "b", Amount: 1}); err != nil {
			t.Fatalf("\t%s\tShould accept a complete model: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a complete model.", success)

		err := validate.Check(transfer{From: "a"})
		if !validate.IsFieldErrors(err) {
			t.Fatalf("\t%s\tShould get field errors: got %v", failed, err)
		}
		t.Logf("\t%s\tShould get field errors.", success)

		fields := validate.GetFieldErrors(err).Fields()
		if _, exists := fields["to"]; !exists {
			t.Fatalf("\t%s\tShould name fields by their json tag: %v", failed, fields)
		}
		if _, exists := fields["amount"]; !exists {
			t.Fatalf("\t%s\tShould report every failed field: %v", failed, fields)
		}
		t.Logf("\t%s\tShould name fields by their json tag.", success)
	}
}
