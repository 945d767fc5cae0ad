package store

import "context"

type CompanyPatch struct {
	Name        *string `json:"name,omitempty"`
	TradingName *string `json:"tradingName,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (s *Store) Company() Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Company
}

// UpdateCompany merges p into the profile and stamps LastUpdated.
func (s *Store) UpdateCompany(ctx context.Context, p CompanyPatch) (Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &s.data.Company
	set(&c.Name, p.Name)
	set(&c.TradingName, p.TradingName)
	set(&c.Description, p.Description)
	c.LastUpdated = s.now().UTC()
	return *c, s.commit(ctx, "Company information updated")
}
