package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lendflow/internal/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "hash-password", "--cost", "4", "password123")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.NoError(t, auth.CheckPassword(hash, "password123"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
}

func TestHashPassword_RequiresArgument(t *testing.T) {
	_, err := run(t, "hash-password")
	require.Error(t, err)
}

func TestLoad_BadFixtureFile(t *testing.T) {
	_, err := run(t, "load", "--file", t.TempDir()+"/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read seed fixture")
}
