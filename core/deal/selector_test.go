package deal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func date(s string) null.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return null.TimeFrom(t)
}

func TestSelectSyncSession(t *testing.T) {
	tests := []struct {
		name     string
		sessions []Session
		want     null.String
	}{
		{name: "no sessions", sessions: nil, want: null.String{}},
		{name: "only blank ids", sessions: []Session{{ID: ""}, {ID: "  "}}, want: null.String{}},
		{
			name: "cancelled excluded while an alternative exists",
			sessions: []Session{
				{ID: "s1", Estado: EstadoCancelada, FechaInicioUTC: date("2024-01-10")},
				{ID: "s2", Estado: EstadoBorrador, FechaInicioUTC: date("2024-02-01")},
			},
			want: null.StringFrom("s2"),
		},
		{
			name: "lowercase cancelled state",
			sessions: []Session{
				{ID: "s1", Estado: " cancelada ", FechaInicioUTC: date("2024-01-10")},
				{ID: "s2", Estado: EstadoPlanificada, FechaInicioUTC: date("2024-02-01")},
			},
			want: null.StringFrom("s2"),
		},
		{
			name: "all cancelled falls back to every session",
			sessions: []Session{
				{ID: "s2", Estado: EstadoCancelada, FechaInicioUTC: date("2024-02-01")},
				{ID: "s1", Estado: EstadoCancelada, FechaInicioUTC: date("2024-01-10")},
			},
			want: null.StringFrom("s1"),
		},
		{
			name: "dated sessions before undated ones",
			sessions: []Session{
				{ID: "a", Estado: EstadoBorrador},
				{ID: "b", Estado: EstadoBorrador, FechaInicioUTC: date("2030-06-01")},
			},
			want: null.StringFrom("b"),
		},
		{
			name: "earliest start date",
			sessions: []Session{
				{ID: "late", FechaInicioUTC: date("2024-03-01")},
				{ID: "early", FechaInicioUTC: date("2024-01-01")},
				{ID: "mid", FechaInicioUTC: date("2024-02-01")},
			},
			want: null.StringFrom("early"),
		},
		{
			name: "same date breaks tie on cached name, case insensitive",
			sessions: []Session{
				{ID: "s1", FechaInicioUTC: date("2024-01-01"), NombreCache: null.StringFrom("Prevención B")},
				{ID: "s2", FechaInicioUTC: date("2024-01-01"), NombreCache: null.StringFrom("  prevención a")},
			},
			want: null.StringFrom("s2"),
		},
		{
			name: "no dates nor names breaks tie on id",
			sessions: []Session{
				{ID: "s-b"},
				{ID: "s-a"},
			},
			want: null.StringFrom("s-a"),
		},
		{
			name: "blank ids are ignored",
			sessions: []Session{
				{ID: "", FechaInicioUTC: date("2020-01-01")},
				{ID: "s9", FechaInicioUTC: date("2024-01-01")},
			},
			want: null.StringFrom("s9"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectSyncSession(tt.sessions))
		})
	}
}

func TestSelectSyncSession_Deterministic(t *testing.T) {
	sessions := []Session{
		{ID: "s3", Estado: EstadoCancelada, FechaInicioUTC: date("2023-12-01")},
		{ID: "s1", Estado: EstadoBorrador, FechaInicioUTC: date("2024-01-01"), NombreCache: null.StringFrom("Grupo 2")},
		{ID: "s2", Estado: EstadoBorrador, FechaInicioUTC: date("2024-01-01"), NombreCache: null.StringFrom("Grupo 1")},
		{ID: "s4", Estado: EstadoPlanificada},
	}
	reversed := make([]Session, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		reversed = append(reversed, sessions[i])
	}

	first := SelectSyncSession(sessions)
	assert.Equal(t, null.StringFrom("s2"), first)
	assert.Equal(t, first, SelectSyncSession(sessions))
	assert.Equal(t, first, SelectSyncSession(reversed))
	// input is left untouched
	assert.Equal(t, "s3", sessions[0].ID)
}
