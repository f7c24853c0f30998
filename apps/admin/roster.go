package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"

	"github.com/trezcool/formacion/core/roster"
	"github.com/trezcool/formacion/core/student"
)

var (
	isTerminalFunc = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) } // mockable

	errNotConfirmed = errors.New("sync not confirmed: run again with -yes to apply without a prompt")
)

// roster prints what a sync of the deal would change, then applies it when asked to.
func (cli *commandLine) roster(dealID, sessionID string, apply, yes bool) error {
	ctx := context.Background()

	prv, err := cli.rosterSvc.Preview(ctx, dealID, sessionID)
	if err != nil {
		return err
	}
	cli.printPreview(prv)

	if !apply || !prv.Roster.HasRoster() || prv.Session == nil {
		return nil
	}
	if prv.Plan.IsEmpty() {
		if sessionID != "" {
			// manual runs never mark the roster as processed
			fmt.Fprintln(cli.out, "nothing to apply")
			return nil
		}
		if !prv.Processed {
			// still applied to mark the roster as processed
			yes = true
		}
	}
	if !yes {
		if !isTerminalFunc() {
			return errNotConfirmed
		}
		fmt.Fprint(cli.out, "Apply these changes? [y/N] ")
		answer, _ := bufio.NewReader(cli.in).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			return errNotConfirmed
		}
	}

	out, err := cli.rosterSvc.SyncDeal(ctx, dealID, roster.SyncOptions{SessionID: sessionID})
	fmt.Fprintf(cli.out, "sync %s: %s\n", out.Status, out.Summary())
	if out.Reason != "" {
		fmt.Fprintf(cli.out, "  %s\n", out.Reason)
	}
	return err
}

func (cli *commandLine) printPreview(prv roster.Preview) {
	if !prv.Roster.HasRoster() {
		fmt.Fprintf(cli.out, "deal %s: %s\n", prv.DealID, roster.ReasonNoRoster)
		return
	}
	fmt.Fprintf(cli.out, "deal %s: %d students found in note %s\n", prv.DealID, len(prv.Roster.Students), prv.Roster.NoteID.String)
	if prv.Processed {
		fmt.Fprintln(cli.out, "  this roster was already processed")
	}
	if prv.Session == nil {
		fmt.Fprintf(cli.out, "  %s\n", roster.ReasonNoSession)
		return
	}
	fmt.Fprintf(cli.out, "session %s (%s): %d students enrolled\n", prv.Session.ID, prv.Session.Estado, len(prv.Current))

	if prv.Plan.IsEmpty() {
		fmt.Fprintln(cli.out, "no changes")
		return
	}
	from, to := planLines(prv.Current, prv.Plan)
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        from,
		B:        to,
		FromFile: "session " + prv.Session.ID,
		ToFile:   "note " + prv.Roster.NoteID.String,
		Context:  1,
	})
	fmt.Fprint(cli.out, diff)
	fmt.Fprintf(cli.out, "%d to create, %d to update\n", len(prv.Plan.ToCreate), len(prv.Plan.ToUpdate))
}

// planLines renders the enrolled students before and after applying plan, one line per student, sorted by DNI.
func planLines(current []student.Student, plan roster.Plan) (from, to []string) {
	updates := make(map[string]roster.Update, len(plan.ToUpdate))
	for _, upd := range plan.ToUpdate {
		updates[upd.ID] = upd
	}

	after := make([]student.Student, 0, len(current)+len(plan.ToCreate))
	for _, std := range current {
		from = append(from, studentLine(std.DNI, std.Nombre, std.Apellido))
		if upd, ok := updates[std.ID]; ok {
			std.Nombre, std.Apellido = upd.Nombre, upd.Apellido
		}
		after = append(after, std)
	}
	for _, e := range plan.ToCreate {
		after = append(after, student.Student{Nombre: e.Nombre, Apellido: e.Apellido, DNI: e.DNI})
	}
	for _, std := range after {
		to = append(to, studentLine(std.DNI, std.Nombre, std.Apellido))
	}

	sort.Strings(from)
	sort.Strings(to)
	return from, to
}

func studentLine(dni, nombre, apellido string) string {
	return fmt.Sprintf("%s | %s | %s\n", dni, nombre, apellido)
}
