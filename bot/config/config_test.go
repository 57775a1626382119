package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cfg := Default()
	require.ErrorIs(t, cfg.Validate(), ErrMissingToken)

	cfg.Token = "token"
	require.NoError(t, cfg.Validate())

	cfg.Database.Type = "mysql"
	assert.ErrorContains(t, cfg.Validate(), "unsupported database type")

	cfg.Database.Type = DatabasePostgres
	cfg.Database.DSN = ""
	assert.Error(t, cfg.Validate())
}
