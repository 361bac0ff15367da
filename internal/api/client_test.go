package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waabox/repodeck/internal/api"
	"github.com/waabox/repodeck/internal/csrf"
	"github.com/waabox/repodeck/internal/domain"
)

func newBackend(t *testing.T, register func(r *mux.Router)) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestNewClient_RejectsRelativeBaseURL(t *testing.T) {
	_, err := api.NewClient("/api")
	assert.Error(t, err)
}

func TestListRepositories_WrappedProjects(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/projects/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"projects": []map[string]interface{}{
					{"id": 1, "name": "react", "language": "JavaScript", "stars": 1000, "created_at": "2020-01-01"},
				},
			})
		}).Methods(http.MethodGet)
	})

	client, err := api.NewClient(srv.URL + "/api")
	require.NoError(t, err)

	repos, err := client.ListRepositories(context.Background(), domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, int64(1), repos[0].ID)
	assert.Equal(t, "react", repos[0].Name)
	assert.Equal(t, "JavaScript", repos[0].Language)
	assert.Equal(t, 1000, repos[0].Stars)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), repos[0].CreatedAt)
}

func TestListRepositories_BareArrayKeepsOrderAndDefaults(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/projects/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id": 7, "name": "newest", "description": null, "language": null, "stars": null, "created_at": "2024-05-01T10:00:00.123456Z"},
				{"id": 3, "name": "older", "description": "a lib", "language": "Go", "created_at": "2023-01-01T00:00:00Z"}
			]`))
		}).Methods(http.MethodGet)
	})

	client, err := api.NewClient(srv.URL + "/api/")
	require.NoError(t, err)

	repos, err := client.ListRepositories(context.Background(), domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "newest", repos[0].Name)
	assert.Equal(t, "", repos[0].Language)
	assert.Equal(t, "", repos[0].Description)
	assert.Equal(t, 0, repos[0].Stars)
	assert.False(t, repos[0].CreatedAt.IsZero())
	assert.Equal(t, "older", repos[1].Name)
	assert.Equal(t, 0, repos[1].Stars)
}

func TestListRepositories_LanguageFilter(t *testing.T) {
	var gotLanguage string
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/projects/", func(w http.ResponseWriter, r *http.Request) {
			gotLanguage = r.URL.Query().Get("language")
			writeJSON(w, http.StatusOK, []interface{}{})
		})
	})

	client, err := api.NewClient(srv.URL + "/api")
	require.NoError(t, err)

	repos, err := client.ListRepositories(context.Background(), domain.ListFilter{Language: "C++"})
	require.NoError(t, err)
	assert.Empty(t, repos)
	assert.Equal(t, "C++", gotLanguage)
}

func TestListRepositories_NonOKIsBackendError(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/projects/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Authentication credentials were not provided."})
		})
	})

	client, err := api.NewClient(srv.URL + "/api")
	require.NoError(t, err)

	_, err = client.ListRepositories(context.Background(), domain.ListFilter{})
	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusForbidden, backendErr.StatusCode)
	assert.Equal(t, "Authentication credentials were not provided.", backendErr.Message)
}

func TestListRepositories_UnexpectedShape(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/projects/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	client, err := api.NewClient(srv.URL + "/api")
	require.NoError(t, err)

	_, err = client.ListRepositories(context.Background(), domain.ListFilter{})
	assert.Error(t, err)
}

func TestImportRepository_SendsTokenAndSession(t *testing.T) {
	var gotToken, gotSession, gotContentType string
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/github/save/{owner}/{repo}/", func(w http.ResponseWriter, r *http.Request) {
			vars := mux.Vars(r)
			assert.Equal(t, "facebook", vars["owner"])
			assert.Equal(t, "react", vars["repo"])
			gotToken = r.Header.Get(csrf.HeaderName)
			gotContentType = r.Header.Get("Content-Type")
			if c, err := r.Cookie("sessionid"); err == nil {
				gotSession = c.Value
			}
			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"message": "Repo saved",
				"project": map[string]interface{}{"id": 9, "name": "react", "stars": 1000, "language": "JavaScript"},
			})
		}).Methods(http.MethodPost)
	})

	hc := &http.Client{}
	client, err := api.NewClient(srv.URL+"/api",
		api.WithHTTPClient(hc),
		api.WithTokenSource(csrf.StaticSource("token-123")))
	require.NoError(t, err)
	require.NotNil(t, hc.Jar)
	hc.Jar.SetCookies(mustParse(t, srv.URL), []*http.Cookie{{Name: "sessionid", Value: "s3ss", Path: "/"}})

	result, err := client.ImportRepository(context.Background(), domain.ImportRequest{Owner: "facebook", Name: "react"})
	require.NoError(t, err)
	assert.Equal(t, "Repo saved", result.Message)
	assert.True(t, result.Created)
	require.NotNil(t, result.Repository)
	assert.Equal(t, int64(9), result.Repository.ID)
	assert.Equal(t, "token-123", gotToken)
	assert.Equal(t, "s3ss", gotSession)
	assert.Equal(t, "application/json", gotContentType)
}

func TestImportRepository_SuccessWithoutBody(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/github/save/{owner}/{repo}/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}).Methods(http.MethodPost)
	})

	client, err := api.NewClient(srv.URL + "/api")
	require.NoError(t, err)

	result, err := client.ImportRepository(context.Background(), domain.ImportRequest{Owner: "a", Name: "b"})
	require.NoError(t, err)
	assert.Empty(t, result.Message)
	assert.False(t, result.Created)
}

func TestImportRepository_NotFound(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/github/save/{owner}/{repo}/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Repository not found"})
		}).Methods(http.MethodPost)
	})

	client, err := api.NewClient(srv.URL + "/api")
	require.NoError(t, err)

	_, err = client.ImportRepository(context.Background(), domain.ImportRequest{Owner: "ghost", Name: "nothing"})
	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusNotFound, backendErr.StatusCode)
	assert.Equal(t, "Repository not found", backendErr.Message)
}

func TestImportRepository_NonJSONErrorBody(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/github/save/{owner}/{repo}/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("<h1>CSRF verification failed</h1>"))
		})
	})

	client, err := api.NewClient(srv.URL + "/api")
	require.NoError(t, err)

	_, err = client.ImportRepository(context.Background(), domain.ImportRequest{Owner: "a", Name: "b"})
	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusForbidden, backendErr.StatusCode)
	assert.Empty(t, backendErr.Message)
}

func TestImportRepository_NetworkFailure(t *testing.T) {
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "http://backend.test/api/github/save/facebook/react/",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	client, err := api.NewClient("http://backend.test/api", api.WithHTTPClient(hc))
	require.NoError(t, err)

	_, err = client.ImportRepository(context.Background(), domain.ImportRequest{Owner: "facebook", Name: "react"})
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestPreviewRepository(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/github/{owner}/{repo}/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"name": "react", "description": "UI library", "language": "JavaScript", "stars": 230000,
			})
		}).Methods(http.MethodGet)
	})

	client, err := api.NewClient(srv.URL + "/api")
	require.NoError(t, err)

	repo, err := client.PreviewRepository(context.Background(), domain.ImportRequest{Owner: "facebook", Name: "react"})
	require.NoError(t, err)
	assert.Equal(t, "react", repo.Name)
	assert.Equal(t, "UI library", repo.Description)
	assert.Equal(t, 230000, repo.Stars)
}

func TestDeleteRepository(t *testing.T) {
	var gotToken string
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/projects/{id}/", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "42", mux.Vars(r)["id"])
			gotToken = r.Header.Get(csrf.HeaderName)
			w.WriteHeader(http.StatusNoContent)
		}).Methods(http.MethodDelete)
	})

	client, err := api.NewClient(srv.URL+"/api", api.WithTokenSource(csrf.StaticSource("tok")))
	require.NoError(t, err)

	msg, err := client.DeleteRepository(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Equal(t, "tok", gotToken)
}

func TestDeleteRepository_NotFound(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/api/projects/{id}/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		}).Methods(http.MethodDelete)
	})

	client, err := api.NewClient(srv.URL + "/api")
	require.NoError(t, err)

	_, err = client.DeleteRepository(context.Background(), 1)
	var backendErr *domain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "Project not found", backendErr.Message)
}
