package hosting_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudraneel05/TDSProject1/internal/hosting"
	"github.com/samudraneel05/TDSProject1/internal/model"
)

func TestParseRepoURL(t *testing.T) {
	tests := map[string]struct {
		url      string
		expOwner string
		expRepo  string
		expErr   bool
	}{
		"A repository URL should be parsed.": {
			url:      "https://github.com/student/app",
			expOwner: "student",
			expRepo:  "app",
		},
		"A .git suffix and trailing paths should be ignored.": {
			url:      "https://github.com/student/app.git/",
			expOwner: "student",
			expRepo:  "app",
		},
		"A non GitHub URL should fail.": {
			url:    "https://gitlab.com/student/app",
			expErr: true,
		},
		"A URL without repository name should fail.": {
			url:    "https://github.com/student",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			owner, repo, err := hosting.ParseRepoURL(test.url)
			if test.expErr {
				assert.ErrorIs(t, err, model.ErrNotValid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expOwner, owner)
			assert.Equal(t, test.expRepo, repo)
		})
	}
}

func TestGitHubRawFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/student/app/abc123/LICENSE" {
			_, _ = w.Write([]byte("MIT License"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	gh, err := hosting.NewGitHub(hosting.GitHubConfig{RawBaseURL: srv.URL + "/"})
	require.NoError(t, err)

	status, body, err := gh.RawFile(context.Background(), "https://github.com/student/app", "abc123", "LICENSE")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "MIT License", string(body))

	status, _, err = gh.RawFile(context.Background(), "https://github.com/student/app", "abc123", "README.md")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)

	_, _, err = gh.RawFile(context.Background(), "not a url", "abc123", "README.md")
	assert.Error(t, err)
}

func TestGitHubPagesURL(t *testing.T) {
	gh, err := hosting.NewGitHub(hosting.GitHubConfig{})
	require.NoError(t, err)

	u, err := gh.PagesURL("https://github.com/student/app")
	require.NoError(t, err)
	assert.Equal(t, "https://student.github.io/app/", u)
}
