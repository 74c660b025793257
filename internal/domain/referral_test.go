package domain

import (
	"testing"

	"github.com/google/uuid"
)

func chainUsers(n int) []User {
	users := make([]User, n)
	for i := range users {
		users[i] = User{ID: uuid.New(), Name: string(rune('A' + i))}
		if i > 0 {
			ref := users[i-1].ID
			users[i].ReferredBy = &ref
		}
	}
	return users
}

func TestResolveChain(t *testing.T) {
	// A <- B <- C <- D <- E : each user referred by the previous one.
	users := chainUsers(5)
	a, b, c, d, e := users[0], users[1], users[2], users[3], users[4]

	testCases := []struct {
		name   string
		userID uuid.UUID
		want   []uuid.UUID
	}{
		{name: "root has no upline", userID: a.ID, want: nil},
		{name: "one level", userID: b.ID, want: []uuid.UUID{a.ID}},
		{name: "three levels", userID: d.ID, want: []uuid.UUID{c.ID, b.ID, a.ID}},
		{name: "truncated at three", userID: e.ID, want: []uuid.UUID{d.ID, c.ID, b.ID}},
		{name: "unknown user", userID: uuid.New(), want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveChain(users, tc.userID)
			if len(got) != len(tc.want) {
				t.Fatalf("chain length = %d, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i].ID != tc.want[i] {
					t.Errorf("level %d = %s, want %s", i+1, got[i].Name, tc.want[i])
				}
			}
		})
	}
}

func TestResolveChain_Dangling(t *testing.T) {
	users := chainUsers(2)
	missing := uuid.New()
	users[0].ReferredBy = &missing

	got := ResolveChain(users, users[1].ID)
	if len(got) != 1 || got[0].ID != users[0].ID {
		t.Errorf("chain = %+v, want only the existing referrer", got)
	}
}

func TestResolveChain_CycleTerminates(t *testing.T) {
	users := chainUsers(2)
	bID := users[1].ID
	users[0].ReferredBy = &bID // A <-> B

	got := ResolveChain(users, users[1].ID)
	if len(got) != MaxReferralDepth {
		t.Fatalf("chain length = %d, want %d", len(got), MaxReferralDepth)
	}
}

func TestCommissions(t *testing.T) {
	users := chainUsers(4)
	chain := ResolveChain(users, users[3].ID)

	got := Commissions(chain, dec("1000"))
	want := []string{"50", "30", "10"}
	if len(got) != len(want) {
		t.Fatalf("got %d commissions, want %d", len(got), len(want))
	}
	for i, c := range got {
		if !c.Amount.Equal(dec(want[i])) {
			t.Errorf("level %d amount = %s, want %s", c.Level, c.Amount, want[i])
		}
		if c.Level != i+1 {
			t.Errorf("level = %d, want %d", c.Level, i+1)
		}
		if c.BeneficiaryID != chain[i].ID {
			t.Errorf("level %d beneficiary mismatch", c.Level)
		}
	}
}
