package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	return filepath.Join(t.TempDir(), "missing.yaml")
}

func mockPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })
	readPasswordFunc = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
}

func TestCreateSuperuserWithPasswordFlag(t *testing.T) {
	cfgPath := memoryEnv(t)
	var out bytes.Buffer

	err := newApp(&out).Run([]string{"erpctl", "--config", cfgPath, "createsuperuser", "--username", "root", "--password", "s3cretpass"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Superuser root created")
}

func TestCreateSuperuserPrompts(t *testing.T) {
	cfgPath := memoryEnv(t)
	mockPasswords(t, "s3cretpass", "s3cretpass")
	var out bytes.Buffer

	err := newApp(&out).Run([]string{"erpctl", "--config", cfgPath, "createsuperuser", "--username", "root"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Password (again): ")
	assert.Contains(t, out.String(), "Superuser root created")
}

func TestCreateSuperuserPasswordMismatch(t *testing.T) {
	cfgPath := memoryEnv(t)
	mockPasswords(t, "s3cretpass", "different")

	err := newApp(&bytes.Buffer{}).Run([]string{"erpctl", "--config", cfgPath, "createsuperuser", "--username", "root"})
	assert.ErrorIs(t, err, errPasswordMismatch)
}

func TestChangePasswordUnknownUser(t *testing.T) {
	cfgPath := memoryEnv(t)

	err := newApp(&bytes.Buffer{}).Run([]string{"erpctl", "--config", cfgPath, "changepassword", "--username", "nobody", "--password", "s3cretpass"})
	assert.Error(t, err)
}

func TestSeedOnMemoryDriver(t *testing.T) {
	cfgPath := memoryEnv(t)
	var out bytes.Buffer

	require.NoError(t, newApp(&out).Run([]string{"erpctl", "--config", cfgPath, "seed"}))
	assert.Contains(t, out.String(), "Demo data ready")
}
