package restyutil

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	output, err := NewFilesystemOutput(dir)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, dir, output.Directory())

	output.Write("page-1.html", "<html></html>")
	contents, err := os.ReadFile(filepath.Join(dir, "page-1.html"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "<html></html>", string(contents))

	// reopening keeps previous dumps
	_, err = NewFilesystemOutput(dir)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "page-1.html"))
}

func TestDumpName(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, "page-20240501T120000Z.html", DumpName(ctx, "page", "20240501T120000Z", "html"))

	ctx = WithRunId(ctx, "x9y8z7w6")
	require.Equal(t, "x9y8z7w6", RunId(ctx))
	require.Equal(t, "http-x9y8z7w6-3.txt", DumpName(ctx, "http", "3", "txt"))
}

func TestWriteHeaders(t *testing.T) {
	var out strings.Builder
	writeHeaders(&out, ">", http.Header{})
	require.Equal(t, "", out.String())

	writeHeaders(&out, "<", http.Header{
		"Set-Cookie":   {"a=1", "b=2"},
		"Content-Type": {"text/html"},
	})
	require.Equal(t, "< Content-Type: text/html\n< Set-Cookie: a=1\n< Set-Cookie: b=2\n", out.String())
}

func TestRequestBody(t *testing.T) {
	require.Equal(t, "", requestBody(nil))

	req, err := http.NewRequest(http.MethodGet, "https://example.com", nil)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "", requestBody(req))

	req, err = http.NewRequest(http.MethodPost, "https://example.com", strings.NewReader("symbol=BTC"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "symbol=BTC", requestBody(req))
}
