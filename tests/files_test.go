package tests

import (
	"os"
	"path/filepath"
	"testing"
)

// TestFetchTomHarteCorpus downloads the processor test corpus if it is not
// already present. Run it once before the opcode suite in hw.
func TestFetchTomHarteCorpus(t *testing.T) {
	if testing.Short() {
		t.Skip("network download skipped in short mode")
	}

	dir := TomHarteProcTestsPath(t)

	entries, err := os.ReadDir(filepath.Join(dir, "v1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 256 {
		t.Errorf("corpus has %d files, want 256", len(entries))
	}
}
