package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteffanA/devconnector/internal/api/services"
	"github.com/SteffanA/devconnector/internal/models"
	"github.com/SteffanA/devconnector/internal/repositories"
)

func TestUpsertProfile(t *testing.T) {
	srv := newServer(t)
	token := register(t, srv, "A", "a@x.com", "secret1")

	status, body := request(t, srv, http.MethodPost, "/api/profile", token, map[string]string{
		"status":   "Developer",
		"skills":   "Go, SQL ,React",
		"company":  "Acme",
		"twitter":  "https://twitter.com/a",
		"location": "Berlin",
	})
	require.Equal(t, http.StatusOK, status)

	var profile struct {
		Status string   `json:"status"`
		Skills []string `json:"skills"`
		Social struct {
			Twitter string `json:"twitter"`
		} `json:"social"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	}
	decode(t, body, &profile)
	assert.Equal(t, "Developer", profile.Status)
	assert.Equal(t, []string{"Go", "SQL", "React"}, profile.Skills)
	assert.Equal(t, "https://twitter.com/a", profile.Social.Twitter)
	assert.Equal(t, "A", profile.User.Name)

	// Second POST updates in place, it never creates a second profile.
	status, body = request(t, srv, http.MethodPost, "/api/profile", token, map[string]string{
		"status": "Senior Developer",
		"skills": "Go",
	})
	require.Equal(t, http.StatusOK, status)
	decode(t, body, &profile)
	assert.Equal(t, "Senior Developer", profile.Status)

	var count int64
	require.NoError(t, repositories.DB.Model(&models.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertProfileValidation(t *testing.T) {
	srv := newServer(t)
	token := register(t, srv, "A", "a@x.com", "secret1")

	status, body := request(t, srv, http.MethodPost, "/api/profile", token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Status is required")
	assert.Contains(t, string(body), "Skills is required")
}

func TestGetMyProfileMissing(t *testing.T) {
	srv := newServer(t)
	token := register(t, srv, "A", "a@x.com", "secret1")

	status, body := request(t, srv, http.MethodGet, "/api/profile/me", token, nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "There is no profile for this user")
}

func TestGetProfileByUserID(t *testing.T) {
	srv := newServer(t)
	token := register(t, srv, "A", "a@x.com", "secret1")
	createProfile(t, srv, token, "Developer", "Go")

	var user models.User
	require.NoError(t, repositories.DB.First(&user, "email = ?", "a@x.com").Error)

	// Public read, no token.
	status, body := request(t, srv, http.MethodGet, "/api/profile/user/"+user.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "Developer")

	status, body = request(t, srv, http.MethodGet, "/api/profile/user/not-a-uuid", "", nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Profile not found")
}

func TestListProfilesIncludesOwner(t *testing.T) {
	srv := newServer(t)
	tokenA := register(t, srv, "A", "a@x.com", "secret1")
	tokenB := register(t, srv, "B", "b@x.com", "secret1")
	createProfile(t, srv, tokenA, "Developer", "Go")
	createProfile(t, srv, tokenB, "Designer", "Figma")

	status, body := request(t, srv, http.MethodGet, "/api/profile", "", nil)
	require.Equal(t, http.StatusOK, status)

	var profiles []struct {
		Status string `json:"status"`
		User   struct {
			Name   string `json:"name"`
			Avatar string `json:"avatar"`
		} `json:"user"`
	}
	decode(t, body, &profiles)
	require.Len(t, profiles, 2)
	for _, p := range profiles {
		assert.NotEmpty(t, p.User.Name)
		assert.NotEmpty(t, p.User.Avatar)
	}
}

func TestExperienceLifecycle(t *testing.T) {
	srv := newServer(t)
	token := register(t, srv, "A", "a@x.com", "secret1")
	createProfile(t, srv, token, "Developer", "Go")

	add := func(title string) {
		status, body := request(t, srv, http.MethodPut, "/api/profile/experience", token, map[string]any{
			"title":   title,
			"company": "Acme",
			"from":    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		require.Equal(t, http.StatusOK, status, "add experience failed: %s", body)
	}

	add("Junior Engineer")
	time.Sleep(10 * time.Millisecond)
	add("Senior Engineer")

	status, body := request(t, srv, http.MethodGet, "/api/profile/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	var profile struct {
		Experience []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"experience"`
	}
	decode(t, body, &profile)
	require.Len(t, profile.Experience, 2)
	assert.Equal(t, "Senior Engineer", profile.Experience[0].Title)

	status, body = request(t, srv, http.MethodDelete, "/api/profile/experience/"+profile.Experience[0].ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, body, &profile)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Junior Engineer", profile.Experience[0].Title)

	// Removing an entry that is not there leaves the profile unchanged.
	status, body = request(t, srv, http.MethodDelete, "/api/profile/experience/00000000-0000-0000-0000-000000000000", token, nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, body, &profile)
	assert.Len(t, profile.Experience, 1)
}

func TestAddExperienceValidation(t *testing.T) {
	srv := newServer(t)
	token := register(t, srv, "A", "a@x.com", "secret1")
	createProfile(t, srv, token, "Developer", "Go")

	status, body := request(t, srv, http.MethodPut, "/api/profile/experience", token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Title is required")
	assert.Contains(t, string(body), "Company is required")
	assert.Contains(t, string(body), "From date is required")
}

func TestEducationLifecycle(t *testing.T) {
	srv := newServer(t)
	token := register(t, srv, "A", "a@x.com", "secret1")
	createProfile(t, srv, token, "Developer", "Go")

	status, body := request(t, srv, http.MethodPut, "/api/profile/education", token, map[string]any{
		"school":       "MIT",
		"degree":       "BSc",
		"fieldofstudy": "CS",
		"from":         time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusOK, status)

	var profile struct {
		Education []struct {
			ID     string `json:"id"`
			School string `json:"school"`
		} `json:"education"`
	}
	decode(t, body, &profile)
	require.Len(t, profile.Education, 1)
	assert.Equal(t, "MIT", profile.Education[0].School)

	status, body = request(t, srv, http.MethodDelete, "/api/profile/education/"+profile.Education[0].ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, body, &profile)
	assert.Empty(t, profile.Education)
}

func TestDeleteAccountCascades(t *testing.T) {
	srv := newServer(t)
	tokenA := register(t, srv, "A", "a@x.com", "secret1")
	tokenB := register(t, srv, "B", "b@x.com", "secret1")

	createProfile(t, srv, tokenA, "Developer", "Go")
	postID := createPost(t, srv, tokenA, "soon to vanish")

	status, _ := request(t, srv, http.MethodPut, "/api/posts/like/"+postID, tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = request(t, srv, http.MethodPost, "/api/posts/comment/"+postID, tokenB, map[string]string{"text": "nice"})
	require.Equal(t, http.StatusOK, status)

	status, body := request(t, srv, http.MethodDelete, "/api/profile", tokenA, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "User deleted")

	var users, profiles, posts, likes, comments int64
	require.NoError(t, repositories.DB.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, repositories.DB.Model(&models.Profile{}).Count(&profiles).Error)
	require.NoError(t, repositories.DB.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, repositories.DB.Model(&models.Like{}).Count(&likes).Error)
	require.NoError(t, repositories.DB.Model(&models.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(1), users, "only B remains")
	assert.Zero(t, profiles)
	assert.Zero(t, posts)
	assert.Zero(t, likes)
	assert.Zero(t, comments)

	status, body = request(t, srv, http.MethodPost, "/api/auth", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Invalid credentials")
}

func TestGithubRepos(t *testing.T) {
	srv := newServer(t)

	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat/repos" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]string{{"name": "hello-world"}})
	}))
	defer fake.Close()

	orig := services.Github
	services.Github = services.NewGithubClient("")
	services.Github.BaseURL = fake.URL
	t.Cleanup(func() { services.Github = orig })

	status, body := request(t, srv, http.MethodGet, "/api/profile/github/octocat", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "hello-world")

	status, body = request(t, srv, http.MethodGet, "/api/profile/github/nobody", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "No Github profile found")
}
