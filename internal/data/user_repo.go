package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/softwareconstruction240/autograder/internal/core"
	"github.com/softwareconstruction240/autograder/internal/data/pgxutil"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
	apperrors "github.com/softwareconstruction240/autograder/internal/errors"
)

const userColumns = `net_id, canvas_user_id, first_name, last_name, repo_url, role, created_at, updated_at`

const (
	userInsertQuery = `
		INSERT INTO users (net_id, canvas_user_id, first_name, last_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + userColumns

	userGetQuery = `SELECT ` + userColumns + ` FROM users WHERE net_id = $1`

	userListQuery = `SELECT ` + userColumns + ` FROM users ORDER BY role, last_name, first_name, net_id`

	userUpdateProfileQuery = `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			role       = COALESCE($4, role),
			updated_at = $5
		WHERE net_id = $1
		RETURNING ` + userColumns

	userSetRepoQuery = `
		UPDATE users SET repo_url = $2, updated_at = $3
		WHERE net_id = $1
		RETURNING ` + userColumns

	repoUpdateInsertQuery = `
		INSERT INTO repo_updates (net_id, repo_url, admin_net_id, created_at)
		VALUES ($1, $2, $3, $4)`

	repoClaimedQuery = `SELECT EXISTS(SELECT 1 FROM users WHERE repo_url = $1 AND net_id <> $2)`
)

// UserRepo provides database operations for users and their repository history.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

var _ core.UserRepository = (*UserRepo)(nil)

// NewUserRepo creates a new UserRepo with the given database connection.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a UserRepo with a custom TimeProvider (useful for testing).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	user, err := r.queryOne(ctx, userInsertQuery,
		strings.TrimSpace(req.NetID), req.CanvasUserID, req.FirstName, req.LastName, string(req.Role), r.timeProvider.Now())
	if err != nil {
		return nil, fmt.Errorf("create user: %w", apperrors.MapDBError(err))
	}
	return user, nil
}

// GetByNetID retrieves a user by netId.
func (r *UserRepo) GetByNetID(ctx context.Context, netID string) (*model.User, error) {
	user, err := r.queryOne(ctx, userGetQuery, netID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("user %q not found", netID)
		}
		return nil, fmt.Errorf("get user: %w", apperrors.MapDBError(err))
	}
	return user, nil
}

// List returns every user, admins first.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userListQuery)
		if err != nil {
			return err
		}
		users, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", apperrors.MapDBError(err))
	}
	return users, nil
}

// UpdateProfile applies the non-nil fields of params.
func (r *UserRepo) UpdateProfile(
	ctx context.Context,
	netID string,
	params core.UpdateProfileParams,
) (*model.User, error) {
	var role *string
	if params.Role != nil {
		s := string(*params.Role)
		role = &s
	}
	user, err := r.queryOne(ctx, userUpdateProfileQuery,
		netID, params.FirstName, params.LastName, role, r.timeProvider.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("user %q not found", netID)
		}
		return nil, fmt.Errorf("update user: %w", apperrors.MapDBError(err))
	}
	return user, nil
}

// SetRepoURL changes the user's repository and records the change.
func (r *UserRepo) SetRepoURL(ctx context.Context, params core.SetRepoURLParams) (*model.User, error) {
	now := r.timeProvider.Now()
	var admin *string
	if params.AdminNetID != "" {
		admin = &params.AdminNetID
	}

	var user *model.User
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, userSetRepoQuery, params.NetID, params.RepoURL, now)
		if err != nil {
			return err
		}
		user, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, repoUpdateInsertQuery, params.NetID, params.RepoURL, admin, now)
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("user %q not found", params.NetID)
		}
		return nil, fmt.Errorf("set repo url: %w", apperrors.MapDBError(err))
	}
	return user, nil
}

// RepoURLClaimed reports whether a user other than exceptNetID holds repoURL.
func (r *UserRepo) RepoURLClaimed(ctx context.Context, repoURL, exceptNetID string) (bool, error) {
	var claimed bool
	if err := r.DB.QueryRowContext(ctx, repoClaimedQuery, repoURL, exceptNetID).Scan(&claimed); err != nil {
		return false, fmt.Errorf("check repo claimed: %w", apperrors.MapDBError(err))
	}
	return claimed, nil
}

// RepoHistory returns repository changes newest first, filtered by netId and/or URL.
func (r *UserRepo) RepoHistory(ctx context.Context, filter model.RepoHistoryFilter) ([]*model.RepoUpdate, error) {
	filter.Normalize()

	var (
		where []string
		args  []any
	)
	if filter.NetID != "" {
		args = append(args, filter.NetID)
		where = append(where, fmt.Sprintf("net_id = $%d", len(args)))
	}
	if filter.RepoURL != "" {
		args = append(args, filter.RepoURL)
		where = append(where, fmt.Sprintf("repo_url = $%d", len(args)))
	}
	args = append(args, filter.Limit)

	q := `SELECT id, net_id, repo_url, admin_net_id, created_at FROM repo_updates`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	var out []*model.RepoUpdate
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.RepoUpdate])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo history: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

func (r *UserRepo) queryOne(ctx context.Context, q string, args ...any) (*model.User, error) {
	var user *model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		user, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
		return err
	})
	return user, err
}
