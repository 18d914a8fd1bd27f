package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
	"github.com/softwareconstruction240/autograder/internal/service"
)

// userAdmin is the slice of the user service the CLI drives.
type userAdmin interface {
	List(ctx context.Context) ([]*model.User, error)
	AdminUpdate(ctx context.Context, adminNetID, netID string, req model.AdminUpdateRequest) (*model.User, error)
	RepoHistory(ctx context.Context, filter model.RepoHistoryFilter) ([]*model.RepoUpdate, error)
}

var _ userAdmin = (*service.UserService)(nil)

type listUsersOptions struct {
	JSON bool
	Role string
}

type setRoleOptions struct {
	NetID string
	Role  string
	Yes   bool
}

type setRepoOptions struct {
	NetID   string
	RepoURL string
}

func parseListUsersFlags(args []string) (listUsersOptions, error) {
	fs := newFlagSet("list-users")
	opts := listUsersOptions{}
	fs.BoolVar(&opts.JSON, "json", false, "Print users as JSON")
	fs.StringVar(&opts.Role, "role", "", "Only list users with this role (STUDENT or ADMIN)")
	if err := fs.Parse(args); err != nil {
		return listUsersOptions{}, err
	}
	if opts.Role != "" {
		role, ok := domainauth.ParseRole(opts.Role)
		if !ok {
			return listUsersOptions{}, fmt.Errorf("--role must be STUDENT or ADMIN, got %q", opts.Role)
		}
		opts.Role = string(role)
	}
	return opts, nil
}

func parseSetRoleFlags(args []string) (setRoleOptions, error) {
	fs := newFlagSet("set-role")
	opts := setRoleOptions{}
	fs.StringVar(&opts.NetID, "net-id", "", "netId of the user to change (required)")
	fs.StringVar(&opts.Role, "role", "", "New role: STUDENT or ADMIN (required)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return setRoleOptions{}, err
	}
	opts.NetID = strings.TrimSpace(opts.NetID)
	if opts.NetID == "" {
		return setRoleOptions{}, errors.New("--net-id is required")
	}
	role, ok := domainauth.ParseRole(opts.Role)
	if !ok {
		return setRoleOptions{}, fmt.Errorf("--role must be STUDENT or ADMIN, got %q", opts.Role)
	}
	opts.Role = string(role)
	return opts, nil
}

func parseSetRepoFlags(args []string) (setRepoOptions, error) {
	fs := newFlagSet("set-repo")
	opts := setRepoOptions{}
	fs.StringVar(&opts.NetID, "net-id", "", "netId of the user to change (required)")
	fs.StringVar(&opts.RepoURL, "url", "", "https repository URL (required)")
	if err := fs.Parse(args); err != nil {
		return setRepoOptions{}, err
	}
	opts.NetID = strings.TrimSpace(opts.NetID)
	if opts.NetID == "" {
		return setRepoOptions{}, errors.New("--net-id is required")
	}
	normalized, err := model.NormalizeRepoURL(opts.RepoURL)
	if err != nil {
		return setRepoOptions{}, fmt.Errorf("--url: %w", err)
	}
	opts.RepoURL = normalized
	return opts, nil
}

func parseRepoHistoryFlags(args []string) (model.RepoHistoryFilter, error) {
	fs := newFlagSet("repo-history")
	filter := model.RepoHistoryFilter{}
	fs.StringVar(&filter.NetID, "net-id", "", "Only show changes for this netId")
	fs.StringVar(&filter.RepoURL, "url", "", "Only show changes to this repository URL")
	fs.IntVar(&filter.Limit, "limit", 0, "Maximum rows to show (default 100, max 1000)")
	if err := fs.Parse(args); err != nil {
		return model.RepoHistoryFilter{}, err
	}
	if filter.Limit < 0 {
		return model.RepoHistoryFilter{}, errors.New("--limit cannot be negative")
	}
	return filter, nil
}

func runListUsers(cmdCtx *commandContext, args []string) error {
	opts, err := parseListUsersFlags(args)
	if err != nil {
		return err
	}
	return withUsers(cmdCtx, func(ctx context.Context, users *service.UserService) error {
		return listUsers(ctx, users, cmdCtx.Out, opts)
	})
}

func runSetRole(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetRoleFlags(args)
	if err != nil {
		return err
	}
	if !opts.Yes {
		prompt := fmt.Sprintf("Set role of %q to %s?", opts.NetID, opts.Role)
		if confirmErr := confirm(cmdCtx.In, cmdCtx.Out, prompt); confirmErr != nil {
			return confirmErr
		}
	}
	return withUsers(cmdCtx, func(ctx context.Context, users *service.UserService) error {
		return setRole(ctx, users, cmdCtx.Out, opts)
	})
}

func runSetRepo(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetRepoFlags(args)
	if err != nil {
		return err
	}
	return withUsers(cmdCtx, func(ctx context.Context, users *service.UserService) error {
		return setRepo(ctx, users, cmdCtx.Out, opts)
	})
}

func runRepoHistory(cmdCtx *commandContext, args []string) error {
	filter, err := parseRepoHistoryFlags(args)
	if err != nil {
		return err
	}
	return withUsers(cmdCtx, func(ctx context.Context, users *service.UserService) error {
		return repoHistory(ctx, users, cmdCtx.Out, filter)
	})
}

func listUsers(ctx context.Context, svc userAdmin, w io.Writer, opts listUsersOptions) error {
	users, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if opts.Role != "" {
		filtered := users[:0]
		for _, u := range users {
			if string(u.Role) == opts.Role {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if users == nil {
			users = []*model.User{}
		}
		return enc.Encode(users)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "NET ID\tNAME\tROLE\tREGISTERED\tREPOSITORY\n"); err != nil {
		return err
	}
	for _, u := range users {
		repo := "-"
		if u.HasRepo() {
			repo = *u.RepoURL
		}
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if name == "" {
			name = "-"
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n", u.NetID, name, u.Role, yesNo(u.IsFullyRegistered()), repo); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\n%d user(s)\n", len(users))
}

func setRole(ctx context.Context, svc userAdmin, w io.Writer, opts setRoleOptions) error {
	role := opts.Role
	user, err := svc.AdminUpdate(ctx, cliActor, opts.NetID, model.AdminUpdateRequest{Role: &role})
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return writef(w, "%s is now %s\n", user.NetID, user.Role)
}

func setRepo(ctx context.Context, svc userAdmin, w io.Writer, opts setRepoOptions) error {
	repo := opts.RepoURL
	user, err := svc.AdminUpdate(ctx, cliActor, opts.NetID, model.AdminUpdateRequest{RepoURL: &repo})
	if err != nil {
		return fmt.Errorf("set repo: %w", err)
	}
	return writef(w, "%s repository set to %s\n", user.NetID, repo)
}

func repoHistory(ctx context.Context, svc userAdmin, w io.Writer, filter model.RepoHistoryFilter) error {
	history, err := svc.RepoHistory(ctx, filter)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "WHEN\tNET ID\tREPOSITORY\tCHANGED BY\n"); err != nil {
		return err
	}
	for _, h := range history {
		by := h.NetID
		if h.AdminNetID != nil {
			by = *h.AdminNetID
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\n", h.CreatedAt.UTC().Format(time.RFC3339), h.NetID, h.RepoURL, by); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
