package custodytest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/bosagora/custody"
	"github.com/bosagora/custody/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db custody.CommitKVStore, cleanup func()) {
	t.Helper()

	dbpath, err := ioutil.TempDir("", "custodytest")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	s, err := iavl.NewCommitStore(dbpath, "db", 0)
	if err != nil {
		os.RemoveAll(dbpath)
		t.Fatalf("cannot open the store: %s", err)
	}
	return s, func() {
		s.Close()
		os.RemoveAll(dbpath)
	}
}
