package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"jkwi-ims/backend/app/models"
	"jkwi-ims/backend/app/repo"
	"jkwi-ims/backend/global"
)

var ErrMissingPersonalInfo = errors.New("invalid member data - missing personal information")

// ApplicationService files membership applications: one copy in the
// applications directory and a member copy beside the user files.
type ApplicationService struct {
	applications *repo.FileRepository
	members      *repo.FileRepository
	cache        *ListingCache
	skipCorrupt  bool
	now          func() time.Time
}

func NewApplicationService(applications, members *repo.FileRepository, cache *ListingCache, skipCorrupt bool) *ApplicationService {
	return &ApplicationService{applications: applications, members: members, cache: cache, skipCorrupt: skipCorrupt, now: time.Now}
}

// Submit stamps the processing fields onto rec and writes both files. A
// caller-provided application_id is kept.
func (s *ApplicationService) Submit(rec models.Record) (models.Record, error) {
	if rec == nil || rec.PersonalEmail() == "" {
		return nil, ErrMissingPersonalInfo
	}
	now := s.now().UTC()
	if rec.String("application_id") == "" {
		suffix, err := randomHex(4)
		if err != nil {
			return nil, err
		}
		rec["application_id"] = fmt.Sprintf("JKWI-%d-%s", now.UnixMilli(), suffix)
	}
	memberID, err := randomHex(8)
	if err != nil {
		return nil, err
	}
	rec["processed_at"] = now.Format(time.RFC3339Nano)
	rec["status"] = models.ApplicationSubmitted
	rec["processing_status"] = models.ApplicationPendingReview
	rec["member_id"] = memberID

	appID := rec.String("application_id")
	if err := s.applications.Write("application_"+safeName(appID)+".json", rec); err != nil {
		return nil, err
	}
	s.cache.Invalidate(s.applications.Dir())

	member := rec.Clone()
	member["member_status"] = models.MemberPendingApproval
	member["approval_required"] = true
	if err := s.members.Write("member_"+memberID+".json", member); err != nil {
		return nil, err
	}
	s.cache.Invalidate(s.members.Dir())
	return rec, nil
}

func (s *ApplicationService) ListApplications() ([]models.Record, error) {
	return s.list(s.applications, "")
}

// ListMembers returns member files without their financial_info.
func (s *ApplicationService) ListMembers() ([]models.Record, error) {
	rs, err := s.list(s.members, "member_")
	if err != nil {
		return nil, err
	}
	out := make([]models.Record, len(rs))
	for i, r := range rs {
		r = r.Clone()
		delete(r, "financial_info")
		out[i] = r
	}
	return out, nil
}

// Counts tallies record files by name without decoding them.
type Counts struct {
	Users        int
	Members      int
	Applications int
}

func (s *ApplicationService) Counts() (Counts, error) {
	users, err := s.members.Names("user_")
	if err != nil {
		return Counts{}, err
	}
	members, err := s.members.Names("member_")
	if err != nil {
		return Counts{}, err
	}
	apps, err := s.applications.Names("")
	if err != nil {
		return Counts{}, err
	}
	return Counts{Users: len(users), Members: len(members), Applications: len(apps)}, nil
}

func (s *ApplicationService) list(files *repo.FileRepository, prefix string) ([]models.Record, error) {
	dir := files.Dir()
	cached, gen, ok := s.cache.Get(dir)
	if ok {
		return cached, nil
	}
	var skip func(string, error)
	if s.skipCorrupt {
		skip = func(name string, err error) {
			global.Logger.Warn().Err(err).Str("file", name).Msg("skipping corrupt record")
		}
	}
	rs, err := files.Records(prefix, skip)
	if err != nil {
		return nil, err
	}
	models.SortByProcessedDesc(rs)
	s.cache.Put(dir, gen, rs)
	return rs, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// safeName keeps a client-chosen id from escaping the directory.
func safeName(id string) string {
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(filepath.Clean(id))
}

func isIn(dir, path string) bool {
	return filepath.Clean(filepath.Dir(path)) == filepath.Clean(dir)
}
