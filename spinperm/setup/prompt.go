package setup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/steelcutops/spinperm/spinperm/usermanager"
)

// Prompter runs the interactive username loop: read names until a blank
// line, confirm each one, and reject names absent from the user database.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// CollectUsernames gathers confirmed, existing usernames. A nonexistent
// name is reported and the loop continues; a blank line or EOF ends it.
func (p *Prompter) CollectUsernames(ctx context.Context, um usermanager.UserManager, group string) ([]string, error) {
	var usernames []string

	for {
		fmt.Fprintf(p.out, "Enter the username to add to the %s group (blank line to finish): ", group)
		line, ok := p.readLine()
		if !ok {
			break
		}

		username := strings.TrimSpace(line)
		if username == "" {
			break
		}

		exists, err := um.UserExists(ctx, username)
		if err != nil {
			return nil, err
		}
		if !exists {
			fmt.Fprintf(p.out, "Error: user %s does not exist.\n", username)
			continue
		}

		confirmed, ok := p.confirm(fmt.Sprintf("Is %s the correct username?", username))
		if !ok {
			break
		}
		if !confirmed {
			continue
		}

		usernames = append(usernames, username)
	}

	return usernames, nil
}

func (p *Prompter) confirm(question string) (answer, ok bool) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, ok := p.readLine()
	if !ok {
		return false, false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, true
	default:
		return false, true
	}
}

func (p *Prompter) readLine() (string, bool) {
	if !p.scanner.Scan() {
		return "", false
	}
	return p.scanner.Text(), true
}
