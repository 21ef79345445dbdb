package policy_test

import (
	"testing"

	"github.com/datacoin-network/datacoin/foundation/ledger/policy"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_ShareThreshold(t *testing.T) {
	type table struct {
		name       string
		total      int
		difficulty uint
		exp        uint
	}

	tt := []table{
		{"between_marks", 500, 4, 4},
		{"high_total_lowers", 1001, 4, 3},
		{"high_total_floor", 1001, 2, 2},
		{"high_total_clamps_up", 5000, 1, 2},
		{"low_total_raises", 50, 4, 5},
		{"low_total_ceiling", 0, 6, 6},
		{"low_total_clamps_down", 0, 9, 6},
		{"exact_high_mark_holds", 1000, 4, 4},
		{"exact_low_mark_holds", 100, 4, 4},
	}

	t.Log("Given the need to adjust difficulty from share totals.")
	{
		fn, err := policy.Retrieve(policy.StrategyShareThreshold)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve the policy: %v", failed, err)
		}

		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling total %d at difficulty %d.", testID, tst.total, tst.difficulty)
				{
					got := fn(tst.total, tst.difficulty)
					if got != tst.exp {
						t.Fatalf("\t%s\tTest %d:\tShould get difficulty %d: got %d", failed, testID, tst.exp, got)
					}
					t.Logf("\t%s\tTest %d:\tShould get difficulty %d.", success, testID, tst.exp)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Fixed(t *testing.T) {
	t.Log("Given the need to pin the difficulty in place.")
	{
		fn, err := policy.Retrieve(policy.StrategyFixed)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve the policy: %v", failed, err)
		}

		for _, total := range []int{0, 100, 5000} {
			if got := fn(total, 4); got != 4 {
				t.Fatalf("\t%s\tShould keep difficulty 4 at total %d: got %d", failed, total, got)
			}
		}
		t.Logf("\t%s\tShould keep the difficulty for any share total.", success)
	}
}

func Test_RetrieveUnknown(t *testing.T) {
	t.Log("Given the need to reject unknown policies.")
	{
		if _, err := policy.Retrieve("Bogus"); err == nil {
			t.Fatalf("\t%s\tShould get an error for an unknown policy.", failed)
		}
		t.Logf("\t%s\tShould get an error for an unknown policy.", success)
	}
}
