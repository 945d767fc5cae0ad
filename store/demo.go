package store

import (
	"context"
	"fmt"
	"strings"
)

type municipality struct{ code, name string }

var demoMunicipalities = []municipality{
	{"EC101", "Cacadu District"},
	{"EC102", "Amathole District"},
	{"EC103", "Chris Hani District"},
	{"EC104", "Joe Gqabi District"},
	{"EC105", "Alfred Nzo District"},
	{"GT423", "Johannesburg Metropolitan"},
	{"GT424", "Tshwane Metropolitan"},
	{"KZN222", "eThekwini Metropolitan"},
	{"WC011", "City of Cape Town Metropolitan"},
	{"BW001", "Gaborone City"},
	{"BW002", "Francistown City"},
	{"ZW001", "Harare Metropolitan"},
	{"ZW002", "Bulawayo Metropolitan"},
}

var demoDivisions = []string{
	"Mining Division", "Infrastructure Division", "Farming Division", "Service Division",
	"Finance Division", "Legal Division", "Media Division", "Social Division",
}

// DemoMembers returns one demo member per municipality, named
// demo_<code>.
func DemoMembers() []MemberInput {
	out := make([]MemberInput, len(demoMunicipalities))
	for i, m := range demoMunicipalities {
		user := "demo_" + strings.ToLower(m.code)
		out[i] = MemberInput{
			Username: user,
			FullName: "Demo Member " + m.name,
			Email:    user + "@jkwi.com",
			Division: demoDivisions[i%len(demoDivisions)],
			Status:   StatusActive,
		}
	}
	return out
}

// LoadDemoMembers adds every member of in whose username is not taken yet
// and persists once. It returns how many were added.
func (s *Store) LoadDemoMembers(ctx context.Context, in []MemberInput) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	taken := make(map[string]bool, len(s.data.Members))
	for _, m := range s.data.Members {
		taken[m.Username] = true
	}
	added := 0
	for _, m := range in {
		if taken[m.Username] {
			continue
		}
		taken[m.Username] = true
		s.data.Members = append(s.data.Members, Member{
			ID:               s.nextID(),
			Username:         m.Username,
			FullName:         m.FullName,
			Email:            m.Email,
			Division:         m.Division,
			Status:           m.Status,
			RegistrationDate: s.now().UTC(),
		})
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, s.commit(ctx, fmt.Sprintf("Loaded %d demo members", added))
}
