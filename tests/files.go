// Package tests fetches the external test assets the hardware test suites
// feed on. The assets are large, so they are downloaded on demand and kept
// out of the repository.
package tests

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// download all 256 (one per opcode) Tom Harte 6502 test files into dest dir.
func downloadTomHarteProcTests(tb testing.TB, dest string) {
	const urlfmt = `https://raw.githubusercontent.com/SingleStepTests/65x02/main/nes6502/v1/%s.json`

	tempdir, err := os.MkdirTemp("", "tom.harte.processor.tests.*")
	if err != nil {
		tb.Fatal(err)
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for opcode := range 256 {
		opstr := fmt.Sprintf("%02x", opcode)
		url := fmt.Sprintf(urlfmt, opstr)

		g.Go(func() error {
			resp, err := http.Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			f, err := os.Create(filepath.Join(tempdir, opstr+".json"))
			if err != nil {
				return err
			}
			defer f.Close()

			if _, err := io.Copy(f, resp.Body); err != nil {
				return err
			}

			tb.Log("downloaded", url, "to", f.Name())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		tb.Fatalf("failed to download all files: %s", err)
	}

	if err := os.Rename(tempdir, filepath.Join(dest, "v1")); err != nil {
		tb.Fatal(err)
	}
}

// TomHarteProcTestsPath returns the local path of the Tom Harte nes6502
// processor test corpus, downloading it first if necessary. The corpus
// lands under hw/testdata so the opcode tests find it.
func TomHarteProcTestsPath(tb testing.TB) string {
	return sync.OnceValue(func() string {
		_, b, _, _ := runtime.Caller(0)
		root := filepath.Dir(filepath.Dir(b))
		testsDir := filepath.Join(root, "hw", "testdata", "tomharte.processor.tests")

		if _, err := os.Stat(filepath.Join(testsDir, "v1")); errors.Is(err, fs.ErrNotExist) {
			if err := os.MkdirAll(testsDir, os.ModePerm); err != nil {
				tb.Fatal(err)
			}
			tb.Log("tomharte.processor.tests corpus not found, downloading it...")
			downloadTomHarteProcTests(tb, testsDir)
			tb.Log("Tom Harte processor tests downloaded in", testsDir)
		}

		return testsDir
	})()
}
