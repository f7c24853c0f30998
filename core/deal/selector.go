package deal

import (
	"sort"
	"strings"

	"github.com/volatiletech/null/v8"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SelectSyncSession deterministically picks the session that receives students imported from deal notes.
// Non-cancelled sessions are preferred; when all of them are cancelled, any session may be picked.
// Candidates are ordered by start date (dated first), then by cached name, then by ID.
// Returns null when no session has an ID.
func SelectSyncSession(sessions []Session) null.String {
	candidates := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if strings.TrimSpace(s.ID) != "" {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return null.String{}
	}

	active := make([]Session, 0, len(candidates))
	for _, s := range candidates {
		if !s.IsCancelled() {
			active = append(active, s)
		}
	}
	if len(active) > 0 {
		candidates = active
	}

	coll := collate.New(language.Spanish)
	sort.SliceStable(candidates, func(i, j int) bool {
		return compareSessions(coll, candidates[i], candidates[j]) < 0
	})
	return null.StringFrom(candidates[0].ID)
}

func compareSessions(coll *collate.Collator, a, b Session) int {
	switch {
	case a.FechaInicioUTC.Valid && !b.FechaInicioUTC.Valid:
		return -1
	case !a.FechaInicioUTC.Valid && b.FechaInicioUTC.Valid:
		return 1
	case a.FechaInicioUTC.Valid && b.FechaInicioUTC.Valid:
		if a.FechaInicioUTC.Time.Before(b.FechaInicioUTC.Time) {
			return -1
		}
		if b.FechaInicioUTC.Time.Before(a.FechaInicioUTC.Time) {
			return 1
		}
	}

	nameA := strings.ToLower(strings.TrimSpace(a.NombreCache.String))
	nameB := strings.ToLower(strings.TrimSpace(b.NombreCache.String))
	if c := coll.CompareString(nameA, nameB); c != 0 {
		return c
	}
	if c := coll.CompareString(a.ID, b.ID); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
