package session

import (
	"testing"

	"datajoin/core/join"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysOf(records []*Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Key)
	}
	return out
}

func TestSession_BindLifecycle(t *testing.T) {
	svc := NewService(nil)
	sess, err := svc.Create("id")
	require.NoError(t, err)

	report, err := sess.Bind([]map[string]any{{"id": 1, "v": "a"}, {"id": 2, "v": "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, report.Entered)
	assert.Equal(t, sess.ID(), report.Source)

	report, err = sess.Bind([]map[string]any{{"id": 2, "v": "b2"}, {"id": 3, "v": "c"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, report.Entered)
	assert.Equal(t, []string{"2"}, report.Updated)
	assert.Equal(t, []string{"2"}, report.Changed)
	assert.Equal(t, []string{"1"}, report.Exited)
	assert.Equal(t, 1, sess.Info().Released, "exited key released during bind")

	exit, err := sess.Records(SelectExit)
	require.NoError(t, err)
	require.Len(t, exit, 1)
	assert.Equal(t, "1", exit[0].Key)
	assert.Equal(t, 1, exit[0].Revision, "exit record is the one released")

	all, err := sess.Records(SelectAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, keysOf(all))
	assert.Equal(t, "b2", all[0].Data["v"])

	again, err := sess.Records(SelectAll)
	require.NoError(t, err)
	assert.Same(t, all[0], again[0])

	info, err := svc.Delete(sess.ID())
	require.NoError(t, err)
	assert.Equal(t, 3, info.Released)

	_, err = svc.Get(sess.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSession_ContentEquality(t *testing.T) {
	sess, err := NewService(nil).Create("id")
	require.NoError(t, err)

	_, err = sess.Bind([]map[string]any{{"id": "a", "tags": []any{"x"}}})
	require.NoError(t, err)
	first, err := sess.Records(SelectAll)
	require.NoError(t, err)

	report, err := sess.Bind([]map[string]any{{"id": "a", "tags": []any{"x"}}})
	require.NoError(t, err)
	assert.Empty(t, report.Changed, "equal content is not a change")

	second, err := sess.Records(SelectAll)
	require.NoError(t, err)
	assert.Same(t, first[0], second[0])
}

func TestSession_MissingKey(t *testing.T) {
	sess, err := NewService(nil).Create("id")
	require.NoError(t, err)

	_, err = sess.Bind([]map[string]any{{"name": "no id"}})
	assert.ErrorIs(t, err, join.ErrFieldNotFound)
	assert.Equal(t, uint64(0), sess.Info().Version)
}

func TestSession_InvalidSelection(t *testing.T) {
	sess, err := NewService(nil).Create("id")
	require.NoError(t, err)

	_, err = sess.Records("sideways")
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestService_CreateRequiresKey(t *testing.T) {
	_, err := NewService(nil).Create("")
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestService_List(t *testing.T) {
	svc := NewService(nil)
	a, err := svc.Create("id")
	require.NoError(t, err)
	b, err := svc.Create("sku")
	require.NoError(t, err)

	infos := svc.List()
	require.Len(t, infos, 2)
	ids := []string{infos[0].ID, infos[1].ID}
	assert.ElementsMatch(t, []string{a.ID(), b.ID()}, ids)

	_, err = svc.Delete("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSession_RevisionCountsBuiltRecords(t *testing.T) {
	sess, err := NewService(nil).Create("id")
	require.NoError(t, err)

	_, err = sess.build(map[string]any{"name": "no id"})
	require.ErrorIs(t, err, join.ErrFieldNotFound)

	rec, err := sess.build(map[string]any{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Revision)
}

func TestSession_BindAfterClose(t *testing.T) {
	svc := NewService(nil)
	sess, err := svc.Create("id")
	require.NoError(t, err)
	_, err = sess.Bind([]map[string]any{{"id": 1}})
	require.NoError(t, err)

	_, err = svc.Delete(sess.ID())
	require.NoError(t, err)

	_, err = sess.Bind([]map[string]any{{"id": 2}})
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 0, sess.Info().Size)

	_, err = sess.Close()
	assert.ErrorIs(t, err, ErrClosed)
}
