package controllers

import (
	"errors"
	"net/http"
	"time"

	"jkwi-ims/backend/app/dto"
	"jkwi-ims/backend/app/middleware"
	"jkwi-ims/backend/app/models"
	"jkwi-ims/backend/app/services"
	"jkwi-ims/backend/global"
)

var nextSteps = []string{
	"Application review by JKWI team",
	"Email verification",
	"Background check (if applicable)",
	"Final approval and welcome package",
}

type MemberController struct {
	Apps *services.ApplicationService
	// Guard wraps the listing, stats and export handlers. The router sets it to the bearer
	// check when tokens are required.
	Guard func(http.Handler) http.Handler
}

func NewMemberController(apps *services.ApplicationService) *MemberController {
	return &MemberController{Apps: apps, Guard: func(h http.Handler) http.Handler { return h }}
}

// Members serves POST (submit an application) and GET (list members).
func (c *MemberController) Members(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.submit(w, r)
	case http.MethodGet:
		c.Guard(http.HandlerFunc(c.listMembers)).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (c *MemberController) Applications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	c.Guard(http.HandlerFunc(c.listApplications)).ServeHTTP(w, r)
}

// Stats counts users, members and applications on disk.
func (c *MemberController) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	c.Guard(http.HandlerFunc(c.stats)).ServeHTTP(w, r)
}

// Export dumps both listings in one document.
func (c *MemberController) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	c.Guard(http.HandlerFunc(c.export)).ServeHTTP(w, r)
}

func (c *MemberController) submit(w http.ResponseWriter, r *http.Request) {
	var rec models.Record
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	saved, err := c.Apps.Submit(rec)
	if errors.Is(err, services.ErrMissingPersonalInfo) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		global.Logger.Error().Err(err).Msg("application submission failed")
		writeError(w, http.StatusInternalServerError, "Internal server error during application submission")
		return
	}
	global.Logger.Info().Str("application_id", saved.String("application_id")).Str("member_id", saved.String("member_id")).Msg("application submitted")
	writeJSON(w, http.StatusOK, dto.SubmitApplicationResponse{
		Success:       true,
		Message:       "Application submitted successfully",
		ApplicationID: saved.String("application_id"),
		MemberID:      saved.String("member_id"),
		Status:        models.ApplicationSubmitted,
		NextSteps:     nextSteps,
	})
}

func (c *MemberController) listMembers(w http.ResponseWriter, r *http.Request) {
	rs, err := c.Apps.ListMembers()
	if err != nil {
		c.listFailed(w, r, "members", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MembersResponse{Success: true, Count: len(rs), Members: rs})
}

func (c *MemberController) listApplications(w http.ResponseWriter, r *http.Request) {
	rs, err := c.Apps.ListApplications()
	if err != nil {
		c.listFailed(w, r, "applications", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ApplicationsResponse{Success: true, Count: len(rs), Applications: rs})
}

func (c *MemberController) listFailed(w http.ResponseWriter, r *http.Request, what string, err error) {
	ev := global.Logger.Error().Err(err).Str("listing", what)
	if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
		ev = ev.Str("user", claims.Username)
	}
	ev.Msg("listing failed")
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func (c *MemberController) stats(w http.ResponseWriter, r *http.Request) {
	n, err := c.Apps.Counts()
	if err != nil {
		c.listFailed(w, r, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatsResponse{
		Success:           true,
		TotalUsers:        n.Users,
		TotalMembers:      n.Members,
		TotalApplications: n.Applications,
		SystemStatus:      "Active",
	})
}

func (c *MemberController) export(w http.ResponseWriter, r *http.Request) {
	members, err := c.Apps.ListMembers()
	if err != nil {
		c.listFailed(w, r, "export", err)
		return
	}
	apps, err := c.Apps.ListApplications()
	if err != nil {
		c.listFailed(w, r, "export", err)
		return
	}
	resp := dto.ExportResponse{
		Success:      true,
		Members:      members,
		Applications: apps,
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
		resp.ExportedBy = claims.Username
	}
	writeJSON(w, http.StatusOK, resp)
}
