package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type config struct {
	level int
	name  string
}

func TestApply(t *testing.T) {
	cfg := &config{}
	err := Apply(cfg,
		NoError(func(c *config) { c.level = 3 }),
		New(func(c *config) error {
			c.name = "store"
			return nil
		}),
	)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.level)
	require.Equal(t, "store", cfg.name)
}

func TestApplyStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	cfg := &config{}
	err := Apply(cfg,
		New(func(c *config) error { return boom }),
		NoError(func(c *config) { c.level = 9 }),
	)
	require.ErrorIs(t, err, boom)
	require.Zero(t, cfg.level)
}
