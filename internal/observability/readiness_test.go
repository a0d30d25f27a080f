package observability

import (
	"context"
	"errors"
	"testing"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkFunc func(context.Context) error

func (f checkFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

func TestReadiness(t *testing.T) {
	ok := checkFunc(func(context.Context) error { return nil })
	store := checkFunc(func(context.Context) error { return errors.New("mongodb ping: timeout") })
	stream := checkFunc(func(context.Context) error { return errors.New("pipeline has not published any recommendations yet") })

	assert.NoError(t, NewReadiness().CheckReadiness(context.Background()))
	assert.NoError(t, NewReadiness(ok, nil).CheckReadiness(context.Background()))

	err := NewReadiness(ok, store, stream).CheckReadiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongodb ping")
	assert.Contains(t, err.Error(), "pipeline has not published")
}

func TestReadinessSatisfiesSharedChecker(t *testing.T) {
	var _ sharedobs.ReadinessChecker = NewReadiness()
}
