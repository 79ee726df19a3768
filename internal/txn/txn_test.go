package txn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginAddCommit(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "out")

	tx, err := Begin(target)
	require.NoError(t, err)

	require.NoError(t, tx.Add("json/spec-tree.json", []byte(`{"a":1}`), FileJSON))
	require.NoError(t, tx.Add("xml/outbound-converter.xml", []byte("<a/>"), FileXML))

	manifest, err := tx.Commit(Preconditions{
		ConsistencyPass:  true,
		ValidationPass:   true,
		TargetParentPath: root,
	}, "1.0.0", false)
	require.NoError(t, err)

	assert.Equal(t, 2, manifest.FileCount)
	assert.FileExists(t, filepath.Join(target, "json", "spec-tree.json"))
	assert.FileExists(t, filepath.Join(target, "manifest.json"))

	_, err = os.Stat(tx.tempDir)
	assert.True(t, os.IsNotExist(err))
}

func TestCommitFailsPreconditionsAndRollsBack(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "out")

	tx, err := Begin(target)
	require.NoError(t, err)
	require.NoError(t, tx.Add("a.txt", []byte("x"), FileMD))

	_, err = tx.Commit(Preconditions{ConsistencyPass: false, TargetParentPath: root}, "1.0.0", false)
	require.Error(t, err)

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(tx.tempDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCommittedTransactionCannotRollback(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "out")
	tx, err := Begin(target)
	require.NoError(t, err)
	require.NoError(t, tx.Add("a.txt", []byte("x"), FileMD))
	_, err = tx.Commit(Preconditions{ConsistencyPass: true, ValidationPass: true, TargetParentPath: root}, "1.0.0", false)
	require.NoError(t, err)

	err = tx.Rollback()
	assert.Error(t, err)
}

func TestReapOrphans(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "out")
	orphan := target + ".tmp-dead-beef"
	require.NoError(t, os.MkdirAll(orphan, 0o755))

	require.NoError(t, ReapOrphans(target))

	_, err := os.Stat(orphan)
	assert.True(t, os.IsNotExist(err))
}
