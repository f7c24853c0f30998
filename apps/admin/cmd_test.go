package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/formacion/core"
	"github.com/trezcool/formacion/core/deal"
	"github.com/trezcool/formacion/core/roster"
	"github.com/trezcool/formacion/core/student"
	inmemdb "github.com/trezcool/formacion/storage/database/inmem"
	testutil "github.com/trezcool/formacion/tests"
)

var (
	dealRepo    interface{ AddNote(deal.Note) }
	studentRepo student.Repository
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & repos
	db := inmemdb.Open()
	deals := inmemdb.NewDealRepository(db)
	dealRepo = deals
	studentRepo = inmemdb.NewStudentRepository(db)

	now := time.Now().UTC()
	deals.SaveDeal(deal.Deal{ID: "d1", Title: "Prevención de riesgos", CreatedAt: now, UpdatedAt: now})
	deals.SaveDeal(deal.Deal{ID: "d2", Title: "Sin alumnos", CreatedAt: now, UpdatedAt: now})
	deals.AddSession(deal.Session{ID: "s1", DealID: "d1", Estado: deal.EstadoPlanificada, FechaInicioUTC: null.TimeFrom(now.Add(24 * time.Hour))})
	deals.AddNote(deal.Note{
		ID:        null.StringFrom("n1"),
		DealID:    "d1",
		Content:   null.StringFrom("Alumnos del deal: Ana|García López|12345678A; Luis|Pérez|87654321B"),
		CreatedAt: now,
	})
	testutil.CreateStudent(t, studentRepo, "d1", "s1", "Ana", "Garcia", "12345678A")

	conf := &core.Config{}
	dealSvc := deal.NewService(deals)
	studentSvc := student.NewService(studentRepo)
	syncer := roster.NewSyncer(studentSvc, nil, testutil.NewNotifier(), testutil.NewLogger())

	// start CLI
	out := new(bytes.Buffer)
	return &commandLine{
		dealSvc:    dealSvc,
		studentSvc: studentSvc,
		rosterSvc:  roster.NewService(dealSvc, studentSvc, syncer, conf),
		in:         strings.NewReader(""),
		out:        out,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		if _, err := fs.Stat(fsys, dir); err != nil {
			return err
		}
		return nil
	}

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "certificates", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() error = nil, wantErr %v%s", tt.wantErr, tt.wantErrStr)
			}
		})
	}
}

func Test_commandLine_roster(t *testing.T) {
	type extra struct {
		terminal bool
		input    string
	}
	tests := []struct {
		cliTest
		wantOutput  []string
		wantCreated int
		wantUpdated int
	}{
		{cliTest: cliTest{name: "no args", args: []string{"roster"}, wantErr: errHelp}},
		{cliTest: cliTest{name: "bad flag", args: []string{"roster", "-lol"}, wantErr: errHelp}},
		{cliTest: cliTest{name: "deal not found", args: []string{"roster", "-deal", "lol"}, wantErr: deal.ErrNotFound}},
		{
			cliTest:    cliTest{name: "no roster", args: []string{"roster", "-deal", "d2", "-apply", "-yes"}},
			wantOutput: []string{"deal d2: " + roster.ReasonNoRoster},
		},
		{
			cliTest: cliTest{name: "session of another deal", args: []string{"roster", "-deal", "d1", "-session", "lol"}, wantErr: roster.ErrSessionNotInDeal},
		},
		{
			cliTest: cliTest{name: "preview only", args: []string{"roster", "-deal", "d1"}},
			wantOutput: []string{
				"deal d1: 2 students found in note n1",
				"session s1 (PLANIFICADA): 1 students enrolled",
				"--- session s1",
				"+++ note n1",
				"-12345678A | Ana | Garcia",
				"+12345678A | Ana | García López",
				"+87654321B | Luis | Pérez",
				"1 to create, 1 to update",
			},
		},
		{
			cliTest: cliTest{name: "not confirmed without a terminal", args: []string{"roster", "-deal", "d1", "-apply"}, wantErr: errNotConfirmed},
		},
		{
			cliTest: cliTest{
				name:    "declined",
				args:    []string{"roster", "-deal", "d1", "-apply"},
				wantErr: errNotConfirmed,
				extra:   extra{terminal: true, input: "n\n"},
			},
		},
		{
			cliTest: cliTest{
				name:  "confirmed",
				args:  []string{"roster", "-deal", "d1", "-apply"},
				extra: extra{terminal: true, input: "y\n"},
			},
			wantOutput:  []string{"Apply these changes? [y/N]", "sync applied: 1 created and 1 updated"},
			wantCreated: 1,
			wantUpdated: 1,
		},
		{
			cliTest:     cliTest{name: "without prompt", args: []string{"roster", "-deal", "d1", "-session", "s1", "-apply", "-yes"}},
			wantOutput:  []string{"sync applied: 1 created and 1 updated"},
			wantCreated: 1,
			wantUpdated: 1,
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup(t)
			ex, _ := tt.extra.(extra)
			isTerminalFunc = func() bool { return ex.terminal }
			cli.in = strings.NewReader(ex.input)

			err := cli.run(args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				require.NoError(t, err)
			}
			for _, line := range tt.wantOutput {
				assert.Contains(t, out.String(), line)
			}

			students, err := studentRepo.QueryStudents(context.Background(), student.QueryFilter{SessionID: "s1"}, nil)
			require.NoError(t, err)
			assert.Len(t, students, 1+tt.wantCreated)
			if tt.wantUpdated > 0 {
				assert.Equal(t, "García López", students[0].Apellido)
			} else {
				assert.Equal(t, "Garcia", students[0].Apellido)
			}
		})
	}
}

func Test_commandLine_roster_processedOnce(t *testing.T) {
	cli, out := setup(t)

	require.NoError(t, cli.run([]string{"admin", "roster", "-deal", "d1", "-apply", "-yes"}))
	assert.Contains(t, out.String(), "sync applied")

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "roster", "-deal", "d1", "-apply", "-yes"}))
	assert.Contains(t, out.String(), "this roster was already processed")
	assert.Contains(t, out.String(), "no changes")

	// a new note makes a new roster
	dealRepo.AddNote(deal.Note{
		ID:        null.StringFrom("n2"),
		DealID:    "d1",
		Content:   null.StringFrom("Alumnos del deal: Eva|Sanz|11111111C"),
		CreatedAt: time.Now().UTC().Add(time.Minute),
	})
	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "roster", "-deal", "d1", "-apply", "-yes"}))
	assert.Contains(t, out.String(), "sync applied: 1 created and 0 updated")
}

func Test_commandLine_roster_manualNothingToApply(t *testing.T) {
	cli, out := setup(t)
	isTerminalFunc = func() bool { return false }

	require.NoError(t, cli.run([]string{"admin", "roster", "-deal", "d1", "-session", "s1", "-apply", "-yes"}))
	assert.Contains(t, out.String(), "sync applied: 1 created and 1 updated")

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "roster", "-deal", "d1", "-session", "s1", "-apply"}))
	assert.Contains(t, out.String(), "nothing to apply")
	assert.NotContains(t, out.String(), "sync ")

	// the roster was never marked as processed
	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "roster", "-deal", "d1", "-apply"}))
	assert.Contains(t, out.String(), "sync noop")
}
