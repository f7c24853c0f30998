package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/trezcool/formacion/core/deal"
	"github.com/trezcool/formacion/core/roster"
	"github.com/trezcool/formacion/core/student"
)

var (
	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sql.DB
	dealSvc    deal.Service
	studentSvc student.Service
	rosterSvc  roster.Service
	in         io.Reader
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run goose database migrations (up, up-by-one, up-to, down, down-to, redo, reset, status, version, create, fix)")
	fmt.Fprintln(cli.out, "  roster -deal ID [-session ID] [-apply [-yes]] - show the roster found in a deal's notes, and optionally sync it")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	rosterCmd := flag.NewFlagSet("roster", flag.ContinueOnError)
	rosterCmd.SetOutput(cli.out)
	rosterDeal := rosterCmd.String("deal", "", "The deal whose notes hold the roster.")
	rosterSession := rosterCmd.String("session", "", "The session receiving the students. Defaults to the automatic pick.")
	rosterApply := rosterCmd.Bool("apply", false, "Apply the changes.")
	rosterYes := rosterCmd.Bool("yes", false, "Do not ask for confirmation before applying.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "roster":
		if err := rosterCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *rosterDeal == "" {
			rosterCmd.Usage()
			return errHelp
		}
		return cli.roster(*rosterDeal, *rosterSession, *rosterApply, *rosterYes)
	default:
		cli.printUsage()
		return errHelp
	}
}
