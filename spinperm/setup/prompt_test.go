package setup

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectUsernames(t *testing.T) {
	um := &fakeUserManager{users: map[string]bool{"alice": true, "bob": true}}
	in := strings.NewReader("alice\ny\nbob\nyes\n\n")
	out := &bytes.Buffer{}

	p := NewPrompter(in, out)
	usernames, err := p.CollectUsernames(context.Background(), um, DefaultGroup)

	assert.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, usernames)
}

func TestCollectUsernamesBlankLineEnds(t *testing.T) {
	um := &fakeUserManager{users: map[string]bool{"alice": true}}
	in := strings.NewReader("\n")
	out := &bytes.Buffer{}

	p := NewPrompter(in, out)
	usernames, err := p.CollectUsernames(context.Background(), um, DefaultGroup)

	assert.NoError(t, err)
	assert.Empty(t, usernames)
}

func TestCollectUsernamesEOFEnds(t *testing.T) {
	um := &fakeUserManager{users: map[string]bool{}}
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	usernames, err := p.CollectUsernames(context.Background(), um, DefaultGroup)

	assert.NoError(t, err)
	assert.Empty(t, usernames)
}

func TestCollectUsernamesMissingUserContinues(t *testing.T) {
	um := &fakeUserManager{users: map[string]bool{"alice": true}}
	in := strings.NewReader("ghost\nalice\ny\n\n")
	out := &bytes.Buffer{}

	p := NewPrompter(in, out)
	usernames, err := p.CollectUsernames(context.Background(), um, DefaultGroup)

	assert.NoError(t, err)
	assert.Equal(t, []string{"alice"}, usernames)
	assert.Contains(t, out.String(), "user ghost does not exist")
}

func TestCollectUsernamesUnconfirmedDropped(t *testing.T) {
	um := &fakeUserManager{users: map[string]bool{"alice": true}}
	in := strings.NewReader("alice\nn\n\n")
	out := &bytes.Buffer{}

	p := NewPrompter(in, out)
	usernames, err := p.CollectUsernames(context.Background(), um, DefaultGroup)

	assert.NoError(t, err)
	assert.Empty(t, usernames)
}

func TestCollectUsernamesTrimsWhitespace(t *testing.T) {
	um := &fakeUserManager{users: map[string]bool{"alice": true}}
	in := strings.NewReader("  alice  \ny\n\n")
	out := &bytes.Buffer{}

	p := NewPrompter(in, out)
	usernames, err := p.CollectUsernames(context.Background(), um, DefaultGroup)

	assert.NoError(t, err)
	assert.Equal(t, []string{"alice"}, usernames)
}
