package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is the single id representation used for every record. Callers holding
// a textual id (form fields, CLI args) go through ParseID.
type ID int64

func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(n), nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// UnmarshalJSON accepts a JSON number or a numeric string, so blobs written
// with textual ids load into the same form. Ids are always written as numbers.
func (id *ID) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	v, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

type Company struct {
	Name        string    `json:"name"`
	TradingName string    `json:"tradingName"`
	Description string    `json:"description"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type Director struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	Division  string    `json:"division"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// Division.Reference and Partnership.Reference are opaque tags carried as-is.
type Division struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Head        string `json:"head"`
	Reference   int    `json:"reference"`
}

type Partnership struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Reference   int    `json:"reference"`
}

type Member struct {
	ID               ID        `json:"id"`
	Username         string    `json:"username"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	Division         string    `json:"division"`
	Status           string    `json:"status"`
	RegistrationDate time.Time `json:"registrationDate"`
}

type Activity struct {
	ID          ID        `json:"id"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Data is everything a backup captures. Backups themselves live outside it.
type Data struct {
	Company      Company       `json:"company"`
	Directors    []Director    `json:"directors"`
	Divisions    []Division    `json:"divisions"`
	Partnerships []Partnership `json:"partnerships"`
	Members      []Member      `json:"members"`
	Activities   []Activity    `json:"activities"`
}

type Backup struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Data      Data      `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

type Stats struct {
	TotalMembers    int `json:"totalMembers"`
	TotalDirectors  int `json:"totalDirectors"`
	TotalDivisions  int `json:"totalDivisions"`
	TotalActivities int `json:"totalActivities"`
}

// Status values used by the console; Member.Status is free text.
const (
	StatusActive   = "Active"
	StatusPending  = "Pending"
	StatusInactive = "Inactive"
)

const (
	divisionReference    = 2
	partnershipReference = 3
)

func (d Director) key() ID    { return d.ID }
func (d Division) key() ID    { return d.ID }
func (p Partnership) key() ID { return p.ID }
func (m Member) key() ID      { return m.ID }
func (a Activity) key() ID    { return a.ID }
func (b Backup) key() ID      { return b.ID }

type keyed interface{ key() ID }

func indexByID[T keyed](items []T, id ID) int {
	for i, it := range items {
		if it.key() == id {
			return i
		}
	}
	return -1
}

func maxID[T keyed](items []T) ID {
	var m ID
	for _, it := range items {
		if it.key() > m {
			m = it.key()
		}
	}
	return m
}

func (d Data) clone() Data {
	return Data{
		Company:      d.Company,
		Directors:    cloneSlice(d.Directors),
		Divisions:    cloneSlice(d.Divisions),
		Partnerships: cloneSlice(d.Partnerships),
		Members:      cloneSlice(d.Members),
		Activities:   cloneSlice(d.Activities),
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
