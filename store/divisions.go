package store

import "context"

type DivisionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Head        string `json:"head"`
}

type DivisionPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Head        *string `json:"head,omitempty"`
	Reference   *int    `json:"reference,omitempty"`
}

func (p DivisionPatch) apply(d *Division) {
	set(&d.Name, p.Name)
	set(&d.Description, p.Description)
	set(&d.Head, p.Head)
	set(&d.Reference, p.Reference)
}

func (s *Store) Divisions() []Division {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.data.Divisions)
}

func (s *Store) AddDivision(ctx context.Context, in DivisionInput) (Division, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := Division{
		ID:          s.nextID(),
		Name:        in.Name,
		Description: in.Description,
		Head:        in.Head,
		Reference:   divisionReference,
	}
	s.data.Divisions = append(s.data.Divisions, d)
	return d, s.commit(ctx, "New division added: "+d.Name)
}

func (s *Store) UpdateDivision(ctx context.Context, id ID, p DivisionPatch) (Division, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.data.Divisions, id)
	if i < 0 {
		return Division{}, false, nil
	}
	p.apply(&s.data.Divisions[i])
	d := s.data.Divisions[i]
	return d, true, s.commit(ctx, "Division updated: "+d.Name)
}

func (s *Store) DeleteDivision(ctx context.Context, id ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.data.Divisions, id)
	if i < 0 {
		return false, nil
	}
	d := s.data.Divisions[i]
	s.data.Divisions = append(s.data.Divisions[:i], s.data.Divisions[i+1:]...)
	return true, s.commit(ctx, "Division deleted: "+d.Name)
}
