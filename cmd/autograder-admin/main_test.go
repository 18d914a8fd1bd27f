package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
	"github.com/softwareconstruction240/autograder/internal/migrate"
	"github.com/softwareconstruction240/autograder/internal/mocks"
	"github.com/softwareconstruction240/autograder/internal/navigation"
	"github.com/softwareconstruction240/autograder/internal/service"
	"github.com/softwareconstruction240/autograder/internal/testutil"
)

func newUserService(users ...*model.User) (*service.UserService, *mocks.MemoryUserRepository) {
	repo := mocks.NewMemoryUserRepository(users...)
	return service.NewUserService(service.UserServiceOptions{Repo: repo}), repo
}

func TestPrintUsageListsEveryCommand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))
	for name := range commands() {
		assert.Contains(t, buf.String(), name)
	}
	assert.Less(t, strings.Index(buf.String(), "db-seed"), strings.Index(buf.String(), "routes"))
}

func TestOnlyRoutesRunsOffline(t *testing.T) {
	for name, cmd := range commands() {
		assert.Equal(t, name == "routes", cmd.offline, name)
	}
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, confirm(strings.NewReader("yes\n"), &out, "Proceed?"))
	assert.Equal(t, "Proceed? [y/N]: ", out.String())

	require.Error(t, confirm(strings.NewReader("\n"), &out, "Proceed?"))
	require.Error(t, confirm(strings.NewReader(""), &out, "Proceed?"))
}

func TestParseSetRoleFlags(t *testing.T) {
	opts, err := parseSetRoleFlags([]string{"--net-id", " cosmo ", "--role", "admin", "--yes"})
	require.NoError(t, err)
	assert.Equal(t, setRoleOptions{NetID: "cosmo", Role: "ADMIN", Yes: true}, opts)

	_, err = parseSetRoleFlags([]string{"--role", "ADMIN"})
	require.ErrorContains(t, err, "--net-id is required")

	_, err = parseSetRoleFlags([]string{"--net-id", "cosmo", "--role", "TA"})
	require.ErrorContains(t, err, "--role must be STUDENT or ADMIN")
}

func TestParseSetRepoFlags(t *testing.T) {
	opts, err := parseSetRepoFlags([]string{"--net-id", "cosmo", "--url", "https://github.com/cosmo/chess/"})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/cosmo/chess", opts.RepoURL)

	_, err = parseSetRepoFlags([]string{"--net-id", "cosmo", "--url", "http://github.com/cosmo/chess"})
	require.ErrorContains(t, err, "must use https")
}

func TestParseOtherFlags(t *testing.T) {
	_, err := parseMigrateFlags([]string{"--timeout", "0s"})
	require.Error(t, err)

	seed, err := parseDBSeedFlags([]string{"--allow-remote"})
	require.NoError(t, err)
	assert.True(t, seed.AllowRemote)
	assert.Equal(t, defaultMigrationTimeout, seed.Timeout)

	filter, err := parseRepoHistoryFlags([]string{"--net-id", "cosmo", "--limit", "5"})
	require.NoError(t, err)
	assert.Equal(t, model.RepoHistoryFilter{NetID: "cosmo", Limit: 5}, filter)

	_, err = parseRepoHistoryFlags([]string{"--limit", "-1"})
	require.Error(t, err)

	list, err := parseListUsersFlags([]string{"--role", "student"})
	require.NoError(t, err)
	assert.Equal(t, "STUDENT", list.Role)
}

func TestListUsers(t *testing.T) {
	svc, _ := newUserService(
		testutil.NewUser("prof").Admin().Build(),
		testutil.NewUser("cosmo").WithRepo("https://github.com/cosmo/chess").Build(),
		testutil.NewUser("newbie").Build(),
	)

	var buf bytes.Buffer
	require.NoError(t, listUsers(context.Background(), svc, &buf, listUsersOptions{}))
	out := buf.String()
	assert.Contains(t, out, "NET ID")
	assert.Contains(t, out, "https://github.com/cosmo/chess")
	assert.Contains(t, out, "3 user(s)")

	buf.Reset()
	require.NoError(t, listUsers(context.Background(), svc, &buf, listUsersOptions{JSON: true, Role: "ADMIN"}))
	var users []model.User
	require.NoError(t, json.Unmarshal(buf.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "prof", users[0].NetID)
}

func TestSetRoleAndRepoRecordCLIActor(t *testing.T) {
	svc, repo := newUserService(testutil.NewUser("cosmo").Build())
	ctx := context.Background()
	var buf bytes.Buffer

	require.NoError(t, setRole(ctx, svc, &buf, setRoleOptions{NetID: "cosmo", Role: "ADMIN"}))
	assert.Equal(t, "cosmo is now ADMIN\n", buf.String())

	buf.Reset()
	require.NoError(t, setRepo(ctx, svc, &buf, setRepoOptions{NetID: "cosmo", RepoURL: "https://github.com/cosmo/chess"}))

	history, err := repo.RepoHistory(ctx, model.RepoHistoryFilter{NetID: "cosmo", Limit: 10})
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].AdminNetID)
	assert.Equal(t, cliActor, *history[0].AdminNetID)

	buf.Reset()
	require.NoError(t, repoHistory(ctx, svc, &buf, model.RepoHistoryFilter{}))
	assert.Contains(t, buf.String(), cliActor)

	err = setRole(ctx, svc, &buf, setRoleOptions{NetID: "ghost", Role: "ADMIN"})
	require.Error(t, err)
}

func TestPrintMigrationStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printMigrationStatus(&buf, []migrate.Migration{
		{Version: "0001_users.sql", Applied: true},
		{Version: "0002_repo_updates.sql"},
	}))
	assert.Contains(t, buf.String(), "applied")
	assert.Contains(t, buf.String(), "2 migration(s), 1 pending")
}

func TestPrintRoutes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf, navigation.Default()))
	out := buf.String()
	assert.Contains(t, out, "help-queue")
	assert.Contains(t, out, "ANONYMOUS")

	lines := strings.Split(out, "\n")
	var homeRow string
	for _, l := range lines {
		if strings.HasPrefix(l, "/ ") {
			homeRow = l
		}
	}
	require.NotEmpty(t, homeRow)
	assert.Equal(t, []string{"/", "->", "/login", "->", "/register", "ok", "->", "/admin"}, strings.Fields(homeRow))
}

func TestSettleCell(t *testing.T) {
	cell, err := settleCell(navigation.Default(), navigation.RouteRegister, domainauth.State{FullyRegistered: true})
	require.NoError(t, err)
	assert.Equal(t, "-> /login", cell)
}
