package events_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/events"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestSend(t *testing.T) {
	t.Log("Given the need to fan out chain events.")
	{
		evts := events.New()
		defer evts.Shutdown()

		all := evts.Acquire("all")
		viewer := evts.Acquire("viewer", "viewer:")

		evts.Send("state: AddBlock: MINING: select miner")
		evts.Send("viewer: block: blk[1]")

		if got := len(all); got != 2 {
			t.Fatalf("\t%s\tShould deliver every event without a prefix: got %d", failed, got)
		}
		t.Logf("\t%s\tShould deliver every event without a prefix.", success)

		if got := len(viewer); got != 1 {
			t.Fatalf("\t%s\tShould deliver only matching events: got %d", failed, got)
		}
		if msg := <-viewer; msg != "viewer: block: blk[1]" {
			t.Fatalf("\t%s\tShould deliver the matching event: got %q", failed, msg)
		}
		t.Logf("\t%s\tShould deliver only matching events.", success)
	}
}

func TestRelease(t *testing.T) {
	t.Log("Given the need to release a subscriber.")
	{
		evts := events.New()

		ch := evts.Acquire("id")
		if again := evts.Acquire("id"); again != ch {
			t.Fatalf("\t%s\tShould return the same channel for the same id.", failed)
		}
		t.Logf("\t%s\tShould return the same channel for the same id.", success)

		if err := evts.Release("id"); err != nil {
			t.Fatalf("\t%s\tShould be able to release the id: %v", failed, err)
		}
		if _, open := <-ch; open {
			t.Fatalf("\t%s\tShould close the channel on release.", failed)
		}
		t.Logf("\t%s\tShould close the channel on release.", success)

		if err := evts.Release("id"); err == nil {
			t.Fatalf("\t%s\tShould fail releasing an unknown id.", failed)
		}
		t.Logf("\t%s\tShould fail releasing an unknown id.", success)

		evts.Acquire("a")
		evts.Acquire("b")
		evts.Shutdown()

		if n := evts.Subscribers(); n != 0 {
			t.Fatalf("\t%s\tShould remove every subscriber on shutdown: got %d", failed, n)
		}
		t.Logf("\t%s\tShould remove every subscriber on shutdown.", success)
	}
}
