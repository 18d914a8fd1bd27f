package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/navigation"
)

// visitor is a named navigation state used to explain the guard table.
type visitor struct {
	name  string
	state domainauth.State
}

func visitors() []visitor {
	return []visitor{
		{name: "anonymous", state: domainauth.State{}},
		{
			name:  "unregistered",
			state: domainauth.State{LoggedIn: true, User: &domainauth.StateUser{NetID: "newbie", Role: domainauth.RoleStudent}},
		},
		{
			name: "student",
			state: domainauth.State{
				LoggedIn:        true,
				FullyRegistered: true,
				User:            &domainauth.StateUser{NetID: "cosmo", Role: domainauth.RoleStudent},
			},
		},
		{
			name: "admin",
			state: domainauth.State{
				LoggedIn:        true,
				FullyRegistered: true,
				User:            &domainauth.StateUser{NetID: "dev-admin", Role: domainauth.RoleAdmin},
			},
		},
	}
}

func runRoutes(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet("routes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return printRoutes(cmdCtx.Out, navigation.Default())
}

// printRoutes writes the route table followed by a matrix of where each visitor settles.
func printRoutes(w io.Writer, table *navigation.Table) error {
	routes := table.Routes()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "NAME\tPATH\tVIEW\tGUARDED\n"); err != nil {
		return err
	}
	for _, r := range routes {
		if err := writef(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Path, r.View, yesNo(r.Guard != nil)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if err := writeln(w); err != nil {
		return err
	}

	vs := visitors()
	header := []string{"ROUTE"}
	for _, v := range vs {
		header = append(header, strings.ToUpper(v.name))
	}
	if err := writef(tw, "%s\n", strings.Join(header, "\t")); err != nil {
		return err
	}
	for _, r := range routes {
		cells := []string{r.Path}
		for _, v := range vs {
			cell, err := settleCell(table, r.Name, v.state)
			if err != nil {
				return err
			}
			cells = append(cells, cell)
		}
		if err := writef(tw, "%s\n", strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func settleCell(table *navigation.Table, route string, state domainauth.State) (string, error) {
	s, err := table.Settle(navigation.Target{Name: route}, state)
	if err != nil {
		return "", fmt.Errorf("settle %s: %w", route, err)
	}
	if len(s.Hops) == 0 {
		return "ok", nil
	}
	return "-> " + s.Route.Path, nil
}
