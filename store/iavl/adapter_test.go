package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/bosagora/custody/custodytest/assert"
	"github.com/bosagora/custody/store"
)

func suite() *store.TestSuite {
	return store.NewTestSuite(func() (store.CacheableKVStore, func()) {
		commit, cleanup := makeCommitStore()
		return commit.Adapter(), cleanup
	})
}

func makeCommitStore() (CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	commit, err := NewCommitStore(tmpDir, "base", 0)
	if err != nil {
		panic(err)
	}
	cleanup := func() {
		commit.Close()
		os.RemoveAll(tmpDir)
	}
	return commit, cleanup
}

func TestCacheGetSet(t *testing.T) {
	suite().GetSet(t)
}

func TestCacheConflicts(t *testing.T) {
	suite().CacheConflicts(t)
}

func TestIteratorWithConflicts(t *testing.T) {
	suite().IteratorWithConflicts(t)
}

func TestCommitOverwrites(t *testing.T) {
	commit, cleanup := makeCommitStore()
	defer cleanup()

	k, v, v2 := []byte("balance"), []byte("100"), []byte("250")

	c := commit.CacheWrap()
	assert.Nil(t, c.Set(k, v))
	assert.Nil(t, c.Write())

	// not committed yet
	got, err := commit.Get(k)
	assert.Nil(t, err)
	assert.Nil(t, got)

	id, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	got, err = commit.Get(k)
	assert.Nil(t, err)
	assert.Equal(t, v, got)

	c = commit.CacheWrap()
	assert.Nil(t, c.Set(k, v2))
	assert.Nil(t, c.Write())
	id2, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id2.Version)
	if string(id.Hash) == string(id2.Hash) {
		t.Fatal("hash must change with the content")
	}

	latest, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, id2, latest)
}

func TestCommitReload(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-reload-")
	assert.Nil(t, err)
	defer os.RemoveAll(tmpDir)

	first, err := NewCommitStore(tmpDir, "reload", 0)
	assert.Nil(t, err)
	c := first.CacheWrap()
	assert.Nil(t, c.Set([]byte("nonce"), []byte{1}))
	assert.Nil(t, c.Write())
	id, err := first.Commit()
	assert.Nil(t, err)
	first.Close()

	second, err := NewCommitStore(tmpDir, "reload", 0)
	assert.Nil(t, err)
	defer second.Close()
	assert.Nil(t, second.LoadLatestVersion())

	latest, err := second.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, id, latest)
	got, err := second.Get([]byte("nonce"))
	assert.Nil(t, err)
	assert.Equal(t, []byte{1}, got)
}

func TestCommitPrunesHistory(t *testing.T) {
	commit := NewMemCommitStore().WithHistory(1)
	for i := 0; i < 3; i++ {
		c := commit.CacheWrap()
		assert.Nil(t, c.Set([]byte("k"), []byte{byte(i)}))
		assert.Nil(t, c.Write())
		_, err := commit.Commit()
		assert.Nil(t, err)
	}
	got, err := commit.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte{2}, got)
}
