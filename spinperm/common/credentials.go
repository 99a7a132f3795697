package common

// Credentials holds the secrets needed to reach a host and escalate on it.
type Credentials struct {
	User          string
	Password      string
	KeyPassphrase string
	SudoPassword  string
}
