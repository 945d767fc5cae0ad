package store

import (
	"context"
	"strings"
)

type MemberInput struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Division string `json:"division"`
	Status   string `json:"status"`
}

type MemberPatch struct {
	Username *string `json:"username,omitempty"`
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
	Division *string `json:"division,omitempty"`
	Status   *string `json:"status,omitempty"`
}

func (p MemberPatch) apply(m *Member) {
	set(&m.Username, p.Username)
	set(&m.FullName, p.FullName)
	set(&m.Email, p.Email)
	set(&m.Division, p.Division)
	set(&m.Status, p.Status)
}

func (s *Store) Members() []Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.data.Members)
}

// SearchMembers matches query case-insensitively against username, full
// name and email. An empty query returns every member.
func (s *Store) SearchMembers(query string) []Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(query))
	out := []Member{}
	for _, m := range s.data.Members {
		if q == "" ||
			strings.Contains(strings.ToLower(m.Username), q) ||
			strings.Contains(strings.ToLower(m.FullName), q) ||
			strings.Contains(strings.ToLower(m.Email), q) {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) AddMember(ctx context.Context, in MemberInput) (Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := Member{
		ID:               s.nextID(),
		Username:         in.Username,
		FullName:         in.FullName,
		Email:            in.Email,
		Division:         in.Division,
		Status:           in.Status,
		RegistrationDate: s.now().UTC(),
	}
	s.data.Members = append(s.data.Members, m)
	return m, s.commit(ctx, "New member added: "+m.Username)
}

func (s *Store) UpdateMember(ctx context.Context, id ID, p MemberPatch) (Member, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.data.Members, id)
	if i < 0 {
		return Member{}, false, nil
	}
	p.apply(&s.data.Members[i])
	m := s.data.Members[i]
	return m, true, s.commit(ctx, "Member updated: "+m.Username)
}

func (s *Store) DeleteMember(ctx context.Context, id ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.data.Members, id)
	if i < 0 {
		return false, nil
	}
	m := s.data.Members[i]
	s.data.Members = append(s.data.Members[:i], s.data.Members[i+1:]...)
	return true, s.commit(ctx, "Member deleted: "+m.Username)
}
