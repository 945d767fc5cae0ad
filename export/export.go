// Package export renders store data into the files the console offers for
// download: a JSON dump, a members CSV and a standalone website page.
package export

import (
	"strings"
	"time"

	"jkwi-ims/store"
)

func day(t time.Time) string { return t.UTC().Format("2006-01-02") }

func DataFileName(now time.Time) string    { return "JKWI_Data_Export_" + day(now) + ".json" }
func MembersFileName(now time.Time) string { return "JKWI_Members_" + day(now) + ".csv" }
func WebsiteFileName(now time.Time) string { return "JKWI_Website_" + day(now) + ".html" }
func BackupFileName(b store.Backup) string { return b.Name + ".json" }

var memberHeader = []string{"id", "username", "fullName", "email", "division", "status", "registrationDate"}

// MembersCSV writes one header row and one row per member with every value
// double-quoted. An empty list yields an empty string.
func MembersCSV(members []store.Member) string {
	if len(members) == 0 {
		return ""
	}
	rows := make([]string, 0, len(members)+1)
	rows = append(rows, strings.Join(memberHeader, ","))
	for _, m := range members {
		rows = append(rows, quoteRow(
			m.ID.String(),
			m.Username,
			m.FullName,
			m.Email,
			m.Division,
			m.Status,
			m.RegistrationDate.UTC().Format(time.RFC3339),
		))
	}
	return strings.Join(rows, "\n")
}

func quoteRow(values ...string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return strings.Join(out, ",")
}
