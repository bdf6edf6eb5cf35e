package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friesen1895/enrollment-converter/internal/fieldmap"
	"github.com/friesen1895/enrollment-converter/internal/render"
	"github.com/friesen1895/enrollment-converter/internal/types"
)

func records(names ...string) []types.Record {
	out := make([]types.Record, 0, len(names))
	for _, name := range names {
		rec := fieldmap.Rename(types.RawRow{"Teilnehmer-Name": name, "Teilnehmer-Vorname": "Erika"})
		out = append(out, rec)
	}
	return out
}

func newAssembler(t *testing.T, mode FlushMode, progress func(string)) *Assembler {
	t.Helper()
	a, err := NewAssembler(Options{
		FlushMode:       mode,
		VerifyPageCount: true,
		Template:        render.DefaultTemplate(),
		OnProgress:      progress,
	})
	require.NoError(t, err)
	return a
}

func TestAssemble_OnePagePerRecord(t *testing.T) {
	for _, mode := range []FlushMode{FlushAtEnd, FlushPerPage} {
		for _, n := range []int{1, 3} {
			t.Run(fmt.Sprintf("%s/%d", mode, n), func(t *testing.T) {
				names := []string{"Muster", "Müller", "Groß"}[:n]
				out := filepath.Join(t.TempDir(), "out.pdf")

				res, err := newAssembler(t, mode, nil).Assemble("in.csv", records(names...), out)
				require.NoError(t, err)
				assert.Equal(t, n, res.Pages)
				assert.Equal(t, mode, res.FlushMode)
				assert.Equal(t, out, res.OutputPath)

				pages, err := api.PageCountFile(out)
				require.NoError(t, err)
				assert.Equal(t, n, pages)
			})
		}
	}
}

func TestAssemble_EmptyRecords(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.pdf")

	_, err := newAssembler(t, FlushAtEnd, nil).Assemble("in.csv", nil, out)

	var empty *types.EmptyDataError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "in.csv", empty.Path)
	assert.NoFileExists(t, out)
}

func TestAssemble_Progress(t *testing.T) {
	var messages []string
	out := filepath.Join(t.TempDir(), "out.pdf")

	_, err := newAssembler(t, FlushAtEnd, func(m string) { messages = append(messages, m) }).
		Assemble("in.csv", records("Muster", "Müller"), out)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Processing 1/2: Muster, Erika",
		"Processing 2/2: Müller, Erika",
	}, messages)
}

func TestAssemble_UnwritableOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "out.pdf")

	for _, mode := range []FlushMode{FlushAtEnd, FlushPerPage} {
		t.Run(string(mode), func(t *testing.T) {
			_, err := newAssembler(t, mode, nil).Assemble("in.csv", records("Muster", "Müller"), out)

			var renderErr *types.RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, out, renderErr.Path)
			assert.NoFileExists(t, out)
		})
	}
}

func TestAssemble_PerPageRemovesTempDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.pdf")
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	_, err := newAssembler(t, FlushPerPage, nil).Assemble("in.csv", records("Muster", "Müller"), out)
	require.NoError(t, err)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewAssembler_UnknownFlushMode(t *testing.T) {
	_, err := NewAssembler(Options{FlushMode: "sometimes"})
	assert.Error(t, err)

	a, err := NewAssembler(Options{})
	require.NoError(t, err)
	assert.Equal(t, FlushAtEnd, a.opts.FlushMode)
}

func TestVerifyPageCount(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.pdf")
	_, err := newAssembler(t, FlushAtEnd, nil).Assemble("in.csv", records("Muster", "Müller"), out)
	require.NoError(t, err)

	require.NoError(t, verifyPageCount(out, 2))

	err = verifyPageCount(out, 3)
	var renderErr *types.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.True(t, errors.Is(err, ErrPageCountMismatch))
}
