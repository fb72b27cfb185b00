package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Albaranes-api/internal/domain"
)

type recorder struct {
	calls []string
	err   error
}

func (r *recorder) Archive(_ context.Context, id string, _ time.Time) error {
	r.calls = append(r.calls, "archive:"+id)
	return r.err
}

func (r *recorder) Restore(_ context.Context, id string) error {
	r.calls = append(r.calls, "restore:"+id)
	return r.err
}

func (r *recorder) Purge(_ context.Context, id string) error {
	r.calls = append(r.calls, "purge:"+id)
	return r.err
}

func TestRemove_SoftArchiva(t *testing.T) {
	r := &recorder{}
	require.NoError(t, Remove(context.Background(), r, "a", false, time.Now()))
	assert.Equal(t, []string{"archive:a"}, r.calls)
}

func TestRemove_HardPurga(t *testing.T) {
	r := &recorder{}
	require.NoError(t, Remove(context.Background(), r, "a", true, time.Now()))
	assert.Equal(t, []string{"purge:a"}, r.calls)
}

func TestRestore_NoArchivado(t *testing.T) {
	r := &recorder{}
	err := Restore(context.Background(), r, "a", false)
	assert.ErrorIs(t, err, domain.ErrNotArchived)
	assert.Empty(t, r.calls)
}

func TestRestore_Archivado(t *testing.T) {
	r := &recorder{}
	require.NoError(t, Restore(context.Background(), r, "a", true))
	assert.Equal(t, []string{"restore:a"}, r.calls)
}

func TestRestore_PropagaErrorDelStore(t *testing.T) {
	r := &recorder{err: domain.ErrNotArchived}
	assert.ErrorIs(t, Restore(context.Background(), r, "a", true), domain.ErrNotArchived)
}
