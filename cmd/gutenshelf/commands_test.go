package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands_FetchListShow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ebooks/84", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<img class="cover-art" src="/cover/84.jpg"><div id="bibrec"><table class="bibrec">
<tr><th>Author</th><td>Shelley, Mary Wollstonecraft</td></tr>
<tr><th>Title</th><td>Frankenstein; Or, The Modern Prometheus</td></tr>
<tr><th>Subject</th><td>Science fiction</td></tr></table></div>`))
	})
	mux.HandleFunc("/files/84/84-0.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("You will rejoice to hear that no disaster has accompanied the commencement of an enterprise."))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "gutenshelf.db"))
	t.Setenv("CATALOG_BASE_URL", server.URL)
	t.Setenv("CONTENT_BASE_URL", server.URL)
	t.Setenv("VECLITE_PATH", "")
	t.Setenv("ANALYSIS_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	out, err := runCommand(t, "fetch", "84", "--metadata")
	require.NoError(t, err)
	assert.Contains(t, out, "Frankenstein; Or, The Modern Prometheus")
	assert.Contains(t, out, "Science fiction")

	out, err = runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "84")
	assert.Contains(t, out, "Shelley, Mary Wollstonecraft")

	out, err = runCommand(t, "show", "84", "--metadata=false")
	require.NoError(t, err)
	assert.Contains(t, out, "You will rejoice")

	_, err = runCommand(t, "show", "85")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not cached")

	_, err = runCommand(t, "analyze", "84")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYSIS_API_KEY")
}
