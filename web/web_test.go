package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/noyan-alimov/lireddit-server/database"
	"github.com/noyan-alimov/lireddit-server/logger"
	"github.com/noyan-alimov/lireddit-server/web/cache"
	"github.com/noyan-alimov/lireddit-server/web/email"
	"github.com/noyan-alimov/lireddit-server/web/session"

	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEngine(t *testing.T) (*gin.Engine, *email.Recorder) {
	t.Setenv("LR_LOG_FOLDER", t.TempDir())
	logger.InitLogger(logging.ERROR)

	dbPath := "test.db"
	os.Remove(dbPath)
	require.NoError(t, database.InitDB(dbPath))
	require.NoError(t, cache.InitRedis(""))

	t.Cleanup(func() {
		cache.Close()
		db, _ := database.GetDB().DB()
		db.Close()
		os.Remove("test.db")
	})

	recorder := &email.Recorder{}
	s := NewServer(recorder)
	engine, err := s.initRouter()
	require.NoError(t, err)
	return engine, recorder
}

type graphqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func doGraphQL(t *testing.T, engine *gin.Engine, query string, cookies []*http.Cookie) (*graphqlResponse, *httptest.ResponseRecorder) {
	t.Helper()

	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp graphqlResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp, w
}

const registerMutation = `mutation {
	register(options: {username: "ben", email: "ben@mail.com", password: "secret123"}) {
		errors { field message }
		user { id username email }
	}
}`

func TestRegisterSetsSessionCookie(t *testing.T) {
	engine, _ := setupEngine(t)

	resp, w := doGraphQL(t, engine, registerMutation, nil)
	assert.Empty(t, resp.Errors)

	var result struct {
		Errors []struct{ Field, Message string } `json:"errors"`
		User   *struct {
			Id       int    `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["register"], &result))
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.User)
	assert.Equal(t, "ben", result.User.Username)

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "register should establish a session")
	assert.True(t, sessionCookie.HttpOnly)

	// me resolves through the cookie
	resp, _ = doGraphQL(t, engine, `query { me { username } }`, []*http.Cookie{sessionCookie})
	assert.Empty(t, resp.Errors)
	var me struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["me"], &me))
	assert.Equal(t, "ben", me.Username)
}

func TestMeWithoutSession(t *testing.T) {
	engine, _ := setupEngine(t)

	resp, _ := doGraphQL(t, engine, `query { me { username } }`, nil)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "null", string(resp.Data["me"]))
}

func TestCreatePostRequiresSession(t *testing.T) {
	engine, _ := setupEngine(t)

	resp, _ := doGraphQL(t, engine, `mutation {
		createPost(input: {title: "t", text: "x"}) { id }
	}`, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "not authenticated", resp.Errors[0].Message)

	// nothing was created
	resp, _ = doGraphQL(t, engine, `query { posts(limit: 10) { id } }`, nil)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "[]", string(resp.Data["posts"]))
}

func TestCreatePostRoundTrip(t *testing.T) {
	engine, _ := setupEngine(t)

	_, w := doGraphQL(t, engine, registerMutation, nil)
	cookies := w.Result().Cookies()

	resp, _ := doGraphQL(t, engine, `mutation {
		createPost(input: {title: "first", text: "hello"}) { id title text creatorId }
	}`, cookies)
	assert.Empty(t, resp.Errors)

	var created struct {
		Id        int    `json:"id"`
		Title     string `json:"title"`
		Text      string `json:"text"`
		CreatorId int    `json:"creatorId"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["createPost"], &created))
	assert.Equal(t, "first", created.Title)
	assert.Equal(t, "hello", created.Text)
	assert.NotZero(t, created.CreatorId)

	resp, _ = doGraphQL(t, engine, `query { post(id: 1) { title text creatorId } }`, nil)
	assert.Empty(t, resp.Errors)
	var fetched struct {
		Title     string `json:"title"`
		Text      string `json:"text"`
		CreatorId int    `json:"creatorId"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["post"], &fetched))
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Text, fetched.Text)
	assert.Equal(t, created.CreatorId, fetched.CreatorId)
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	engine, _ := setupEngine(t)

	_, w := doGraphQL(t, engine, registerMutation, nil)
	cookies := w.Result().Cookies()

	resp, _ := doGraphQL(t, engine, `mutation { logout }`, cookies)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "true", string(resp.Data["logout"]))

	// logging out without a session is still a success
	resp, _ = doGraphQL(t, engine, `mutation { logout }`, nil)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "true", string(resp.Data["logout"]))
}

func TestLogoutDestroysSessionRecord(t *testing.T) {
	engine, _ := setupEngine(t)

	_, w := doGraphQL(t, engine, registerMutation, nil)
	cookies := w.Result().Cookies()

	// sanity: the cookie resolves an identity before logout
	resp, _ := doGraphQL(t, engine, `query { me { username } }`, cookies)
	assert.Empty(t, resp.Errors)
	assert.NotEqual(t, "null", string(resp.Data["me"]))

	resp, _ = doGraphQL(t, engine, `mutation { logout }`, cookies)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "true", string(resp.Data["logout"]))

	// the server-side record is gone: the old cookie no longer resolves
	resp, _ = doGraphQL(t, engine, `query { me { username } }`, cookies)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "null", string(resp.Data["me"]))
}

func TestChangePasswordLogsUserIn(t *testing.T) {
	engine, _ := setupEngine(t)

	resp, _ := doGraphQL(t, engine, registerMutation, nil)
	var reg struct {
		User *struct {
			Id int `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["register"], &reg))
	require.NotNil(t, reg.User)

	token, err := cache.NewResetToken(reg.User.Id)
	require.NoError(t, err)

	// no cookie on the request: the reset itself must establish the session
	resp, w := doGraphQL(t, engine, fmt.Sprintf(`mutation {
		changePassword(token: %q, newPassword: "newsecret123") {
			errors { field message }
			user { username }
		}
	}`, token), nil)
	assert.Empty(t, resp.Errors)

	var changed struct {
		Errors []struct{ Field, Message string } `json:"errors"`
		User   *struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["changePassword"], &changed))
	assert.Empty(t, changed.Errors)
	require.NotNil(t, changed.User)

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "password reset should establish a session")

	resp, _ = doGraphQL(t, engine, `query { me { username } }`, []*http.Cookie{sessionCookie})
	assert.Empty(t, resp.Errors)
	var me struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["me"], &me))
	assert.Equal(t, "ben", me.Username)
}

func TestForgotPasswordNeverRevealsAccounts(t *testing.T) {
	engine, recorder := setupEngine(t)

	resp, _ := doGraphQL(t, engine, `mutation { forgotPassword(email: "ghost@mail.com") }`, nil)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "true", string(resp.Data["forgotPassword"]))
	assert.Empty(t, recorder.Sent())
}

func TestHello(t *testing.T) {
	engine, _ := setupEngine(t)

	resp, _ := doGraphQL(t, engine, `query { hello }`, nil)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, `"bye"`, string(resp.Data["hello"]))
}
