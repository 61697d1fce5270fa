package programs

import (
	"testing"

	"partnerhub/pkg/domain"
)

func TestCurrentPartner(t *testing.T) {
	db := graph()
	cases := []struct {
		name    string
		session domain.Session
		want    string
	}{
		{"email match ignores case", domain.Session{Email: "lead@greenfutures.org"}, "partner-b"},
		{"organization fallback", domain.Session{Email: "someone@else.org", Organization: "ocean schools"}, "partner-a"},
		{"no match", domain.Session{Email: "x@y.z", Organization: "Unknown"}, ""},
		{"empty session", domain.Session{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := CurrentPartner(db, tc.session)
			if tc.want == "" {
				if ok {
					t.Fatalf("expected no partner, got %s", p.ID)
				}
				return
			}
			if !ok || p.ID != tc.want {
				t.Fatalf("got %q (%v), want %q", p.ID, ok, tc.want)
			}
		})
	}
}
