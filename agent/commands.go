package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"jkwi-ims/agent/internal/logger"
	"jkwi-ims/agent/internal/syncclient"
)

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type authResponse struct {
	Message string `json:"message"`
	User    user   `json:"user"`
	Token   string `json:"token"`
}

func (a *agent) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "queue":
		return a.showQueue()
	case "logout":
		if err := a.tokens.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "logged out")
		return nil
	case "run":
		return a.run(ctx)
	}

	// Every other command probes first so a reachable server gets the
	// backlog before the new request.
	replayed := a.probe(ctx)
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "apply":
		return a.apply(ctx, args)
	case "members":
		return a.list(ctx, "/members", "members")
	case "applications":
		return a.list(ctx, "/applications", "applications")
	case "stats":
		return a.stats(ctx)
	case "health":
		if a.client.Online() {
			fmt.Fprintln(a.out, "online")
		} else {
			fmt.Fprintln(a.out, "offline")
		}
		return nil
	case "sync":
		if !a.client.Online() {
			return fmt.Errorf("server unreachable, %d request(s) still queued", a.client.Queue().Len())
		}
		if replayed {
			// the probe already replayed the backlog
			fmt.Fprintf(a.out, "%d still queued\n", a.client.Queue().Len())
			return nil
		}
		synced, requeued := a.client.Drain(ctx)
		fmt.Fprintf(a.out, "%d synced, %d still queued\n", synced, requeued)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// probe sets the online flag from a health check. It reports whether that
// brought the client back online and so replayed the queue.
func (a *agent) probe(ctx context.Context) bool {
	err := a.client.Health(ctx)
	if err != nil {
		logger.Warnf("Server health check failed: %v", err)
	}
	return a.client.SetOnline(ctx, err == nil)
}

func (a *agent) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email")
	fullName := fs.String("full-name", "", "full name")
	role := fs.String("role", "", "role (default member)")
	password := fs.String("password", "", "optional password for later logins")
	if err := fs.Parse(args); err != nil {
		return err
	}
	body := map[string]string{"username": *username, "email": *email, "full_name": *fullName}
	if *role != "" {
		body["role"] = *role
	}
	if *password != "" {
		body["password"] = *password
	}
	var resp authResponse
	if err := a.client.Send(ctx, http.MethodPost, "/register", body, &resp); err != nil {
		return err
	}
	return a.keepToken(resp)
}

func (a *agent) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var resp authResponse
	err := a.client.Send(ctx, http.MethodPost, "/login", map[string]string{"username": *username, "password": *password}, &resp)
	if errors.Is(err, syncclient.ErrUnauthorized) {
		return errors.New("invalid credentials")
	}
	if err != nil {
		return err
	}
	return a.keepToken(resp)
}

func (a *agent) keepToken(resp authResponse) error {
	if resp.Token == "" {
		return errors.New("server returned no token")
	}
	if err := a.tokens.Save(resp.Token); err != nil {
		return err
	}
	logger.Infof("Signed in as %s (%s)", resp.User.Username, resp.User.ID)
	fmt.Fprintf(a.out, "signed in as %s\n", resp.User.Username)
	return nil
}

func (a *agent) apply(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	file := fs.String("file", "", "JSON application document")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	email := fs.String("email", "", "email")
	division := fs.String("division", "", "preferred division")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var body map[string]any
	if *file != "" {
		raw, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return fmt.Errorf("parse %s: %w", *file, err)
		}
	} else {
		body = map[string]any{
			"personal_info": map[string]any{"first_name": *first, "last_name": *last, "email": *email},
			"jkwi_info":     map[string]any{"division": *division},
		}
	}
	var resp struct {
		ApplicationID string   `json:"application_id"`
		MemberID      string   `json:"member_id"`
		Status        string   `json:"status"`
		NextSteps     []string `json:"next_steps"`
	}
	if err := a.client.Do(ctx, http.MethodPost, "/members", body, &resp); err != nil {
		return a.queuedOr(err)
	}
	fmt.Fprintf(a.out, "application %s (member %s): %s\n", resp.ApplicationID, resp.MemberID, resp.Status)
	for i, s := range resp.NextSteps {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, s)
	}
	return nil
}

func (a *agent) list(ctx context.Context, endpoint, key string) error {
	var resp map[string]json.RawMessage
	if err := a.client.Do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return a.queuedOr(err)
	}
	var rows []struct {
		ApplicationID string `json:"application_id"`
		MemberID      string `json:"member_id"`
		Status        string `json:"status"`
		ProcessedAt   string `json:"processed_at"`
		PersonalInfo  struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Email     string `json:"email"`
		} `json:"personal_info"`
	}
	if err := json.Unmarshal(resp[key], &rows); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "APPLICATION\tMEMBER\tNAME\tEMAIL\tSTATUS\tPROCESSED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%s\n", r.ApplicationID, r.MemberID, r.PersonalInfo.FirstName, r.PersonalInfo.LastName, r.PersonalInfo.Email, r.Status, r.ProcessedAt)
	}
	fmt.Fprintf(tw, "\n%d %s\n", len(rows), key)
	return tw.Flush()
}

func (a *agent) stats(ctx context.Context) error {
	var resp struct {
		TotalUsers        int    `json:"totalUsers"`
		TotalMembers      int    `json:"totalMembers"`
		TotalApplications int    `json:"totalApplications"`
		SystemStatus      string `json:"systemStatus"`
	}
	if err := a.client.Do(ctx, http.MethodGet, "/stats", nil, &resp); err != nil {
		return a.queuedOr(err)
	}
	fmt.Fprintf(a.out, "users %d, members %d, applications %d (%s)\n", resp.TotalUsers, resp.TotalMembers, resp.TotalApplications, resp.SystemStatus)
	return nil
}

func (a *agent) showQueue() error {
	entries := a.client.Queue().Entries()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMETHOD\tENDPOINT\tQUEUED AT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Method, e.Endpoint, e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(tw, "\n%d queued\n", len(entries))
	return tw.Flush()
}

func (a *agent) run(ctx context.Context) error {
	m := &syncclient.Monitor{
		Client:         a.client,
		HealthInterval: a.cfg.HealthInterval,
		SyncInterval:   a.cfg.SyncInterval,
		Sync: func(ctx context.Context) error {
			var resp struct {
				Count int `json:"count"`
			}
			if err := a.client.Do(ctx, http.MethodGet, "/members", nil, &resp); err != nil {
				return err
			}
			logger.Infof("Synced: %d members", resp.Count)
			return nil
		},
	}
	logger.Infof("Agent watching %s (sync every %s)", a.cfg.APIBaseURL, a.cfg.SyncInterval)
	m.Run(ctx)
	logger.Info("Shutdown signal received, exiting...")
	return nil
}

// queuedOr turns ErrQueued into a friendly note and passes other errors on.
func (a *agent) queuedOr(err error) error {
	if errors.Is(err, syncclient.ErrQueued) {
		fmt.Fprintln(a.out, "offline: request queued, it will be sent when the server is reachable")
		return nil
	}
	return err
}
