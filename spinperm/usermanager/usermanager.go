package usermanager

import "context"

// User represents an individual user account on the system.
type User struct {
	Username string // user login name
	UID      int    // user ID
	GID      int    // primary group ID
	Comment  string // user full name or comment
	HomeDir  string // user home directory
	Shell    string // user's shell
}

// Group represents a named group in the system group database.
type Group struct {
	Name    string
	GID     int
	Members []string
}

// UserManager encompasses the user and group database operations needed to
// grant device access to an account.
type UserManager interface {
	// GetUser fetches the details of a user based on username.
	GetUser(ctx context.Context, username string) (User, error)

	// UserExists reports whether the username resolves in the user database.
	UserExists(ctx context.Context, username string) (bool, error)

	// GetGroup fetches the details of a group based on group name.
	GetGroup(ctx context.Context, name string) (Group, error)

	// GroupExists reports whether the group resolves in the group database.
	GroupExists(ctx context.Context, name string) (bool, error)

	// AddGroup creates a new system group.
	AddGroup(ctx context.Context, name string) error

	// AddUserToGroup appends the user to the group's member list.
	AddUserToGroup(ctx context.Context, username, group string) error

	// ListGroupMembers lists the usernames that are members of the group.
	ListGroupMembers(ctx context.Context, name string) ([]string, error)
}
