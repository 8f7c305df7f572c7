package stake_test

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/stake"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestPick(t *testing.T) {
	type table struct {
		name   string
		stakes map[string]uint64
		picks  map[uint64]string
	}

	tt := []table{
		{
			name:   "weighted",
			stakes: map[string]uint64{"A": 1, "B": 3},
			picks:  map[uint64]string{1: "A", 2: "B", 3: "B", 4: "B"},
		},
		{
			name:   "zerostake",
			stakes: map[string]uint64{"A": 0, "B": 2, "C": 0, "D": 1},
			picks:  map[uint64]string{1: "B", 2: "B", 3: "D"},
		},
	}

	t.Log("Given the need to pick a participant for a selection point.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling the %s stake table.", testID, tst.name)
			{
				f := func(t *testing.T) {
					stakes := stake.New(genesis.Genesis{Stakes: tst.stakes})

					for point, exp := range tst.picks {
						got, err := stakes.Pick(point)
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to pick point %d: %s", failed, testID, point, err)
						}

						if got != exp {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, exp)
							t.Fatalf("\t%s\tTest %d:\tShould pick the right participant for point %d.", failed, testID, point)
						}
						t.Logf("\t%s\tTest %d:\tShould pick %s for point %d.", success, testID, exp, point)
					}

					total, _ := stakes.Total()
					if _, err := stakes.Pick(total + 1); err == nil {
						t.Fatalf("\t%s\tTest %d:\tShould reject a point past the total stake.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould reject a point past the total stake.", success, testID)

					if _, err := stakes.Pick(0); err == nil {
						t.Fatalf("\t%s\tTest %d:\tShould reject a zero point.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould reject a zero point.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestSelectDistribution(t *testing.T) {
	const trials = 40_000

	stakes := stake.New(genesis.Genesis{Stakes: map[string]uint64{"A": 1, "B": 3}})

	counts := make(map[string]int)
	for range trials {
		name, err := stakes.Select(rand.Reader)
		if err != nil {
			t.Fatalf("Should be able to select a participant: %s", err)
		}
		counts[name]++
	}

	if counts["A"] == 0 {
		t.Fatalf("Should select A at least once.")
	}

	// Expect a ratio of 3 with a generous tolerance.
	ratio := float64(counts["B"]) / float64(counts["A"])
	if ratio < 2.6 || ratio > 3.4 {
		t.Logf("got: A[%d] B[%d] ratio[%.2f]", counts["A"], counts["B"], ratio)
		t.Fatalf("Should select B about three times as often as A.")
	}
	t.Logf("A[%d] B[%d] ratio[%.2f]", counts["A"], counts["B"], ratio)
}

func TestNoStake(t *testing.T) {
	tt := []map[string]uint64{
		nil,
		{"A": 0, "B": 0},
	}

	for _, stakes := range tt {
		s := stake.New(genesis.Genesis{Stakes: stakes})
		if _, err := s.Select(rand.Reader); !errors.Is(err, stake.ErrNoStake) {
			t.Fatalf("Should get back ErrNoStake, got %v.", err)
		}
	}
}

func TestUpdate(t *testing.T) {
	s := stake.New(genesis.Genesis{Stakes: map[string]uint64{"A": 1}})

	if err := s.Update("A", 0); err != nil {
		t.Fatalf("Should be able to update a stake: %v", err)
	}
	if _, err := s.Select(rand.Reader); !errors.Is(err, stake.ErrNoStake) {
		t.Fatalf("Should get back ErrNoStake after removing all stake, got %v.", err)
	}

	if err := s.Update("B", 5); err != nil {
		t.Fatalf("Should be able to add a participant: %v", err)
	}
	name, err := s.Select(rand.Reader)
	if err != nil || name != "B" {
		t.Fatalf("Should select the only participant with stake, got %s %v.", name, err)
	}

	if err := s.Update("C", ^uint64(0)); !errors.Is(err, stake.ErrStakeOverflow) {
		t.Fatalf("Should refuse a stake that overflows the total, got %v.", err)
	}
	if got := s.Copy(); len(got) != 2 || got["B"] != 5 {
		t.Fatalf("Should leave the table unchanged after a refused update, got %v.", got)
	}

	if err := s.Update("B", ^uint64(0)); err != nil {
		t.Fatalf("Should replace the participant's own stake without counting it twice: %v", err)
	}
	if total, err := s.Total(); err != nil || total != ^uint64(0) {
		t.Fatalf("Should get back the maximum total, got %d %v.", total, err)
	}
}
