package store

import "context"

type DirectorInput struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Division string `json:"division"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// DirectorPatch carries the fields to overwrite; nil means keep.
type DirectorPatch struct {
	Name     *string `json:"name,omitempty"`
	Position *string `json:"position,omitempty"`
	Division *string `json:"division,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (p DirectorPatch) apply(d *Director) {
	set(&d.Name, p.Name)
	set(&d.Position, p.Position)
	set(&d.Division, p.Division)
	set(&d.Email, p.Email)
	set(&d.Phone, p.Phone)
}

func (s *Store) Directors() []Director {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.data.Directors)
}

func (s *Store) AddDirector(ctx context.Context, in DirectorInput) (Director, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := Director{
		ID:        s.nextID(),
		Name:      in.Name,
		Position:  in.Position,
		Division:  in.Division,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: s.now().UTC(),
	}
	s.data.Directors = append(s.data.Directors, d)
	return d, s.commit(ctx, "New director added: "+d.Name)
}

// UpdateDirector reports false, without touching anything, when id is unknown.
func (s *Store) UpdateDirector(ctx context.Context, id ID, p DirectorPatch) (Director, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.data.Directors, id)
	if i < 0 {
		return Director{}, false, nil
	}
	p.apply(&s.data.Directors[i])
	d := s.data.Directors[i]
	return d, true, s.commit(ctx, "Director updated: "+d.Name)
}

func (s *Store) DeleteDirector(ctx context.Context, id ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.data.Directors, id)
	if i < 0 {
		return false, nil
	}
	d := s.data.Directors[i]
	s.data.Directors = append(s.data.Directors[:i], s.data.Directors[i+1:]...)
	return true, s.commit(ctx, "Director deleted: "+d.Name)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
