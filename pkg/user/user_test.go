package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xwz823/vue3-admin-better/pkg/request"
	"github.com/xwz823/vue3-admin-better/pkg/session"
)

// --- Helpers ---

type call struct {
	url  string
	data any
}

type fakePoster struct {
	responses map[string]string
	errs      map[string]error
	calls     []call
}

func (f *fakePoster) Post(_ context.Context, url string, data any) (*request.Envelope, error) {
	f.calls = append(f.calls, call{url: url, data: data})
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	return request.ParseEnvelope([]byte(f.responses[url]))
}

type notes []string

func (n *notes) Error(msg string) { *n = append(*n, msg) }

func newStore(t *testing.T, poster *fakePoster, opts Options) (*Store, *session.Store, *notes) {
	t.Helper()
	sess := session.New()
	n := &notes{}
	opts.Notifier = n
	s := New(poster, sess, opts)
	s.now = func() time.Time { return time.Date(2024, 4, 14, 9, 0, 0, 0, time.UTC) }
	return s, sess, n
}

// --- Tests ---

func TestStore_Login(t *testing.T) {
	poster := &fakePoster{responses: map[string]string{
		"/login": `{"code":200,"msg":"success","data":{"accessToken":"admin-accessToken"}}`,
	}}
	s, sess, n := newStore(t, poster, Options{Title: "Vertex"})

	msg, err := s.Login(context.Background(), "admin", "123456")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Vertex, good forenoon!", msg)
	assert.Equal(t, "admin-accessToken", sess.Read())
	assert.True(t, s.HasToken())
	assert.Empty(t, *n)

	require.Len(t, poster.calls, 1)
	assert.Equal(t, map[string]any{"username": "admin", "password": "123456"}, poster.calls[0].data)
}

func TestStore_LoginChinese(t *testing.T) {
	poster := &fakePoster{responses: map[string]string{
		"/login": `{"code":200,"data":{"accessToken":"t"}}`,
	}}
	s, _, _ := newStore(t, poster, Options{Title: "Vertex", Language: "zh-CN"})

	msg, err := s.Login(context.Background(), "admin", "x")
	require.NoError(t, err)
	assert.Equal(t, "欢迎登录Vertex，上午好！", msg)
}

func TestStore_LoginCustomTokenName(t *testing.T) {
	poster := &fakePoster{responses: map[string]string{
		"/auth/login": `{"code":0,"data":{"token":"abc"}}`,
	}}
	s, sess, _ := newStore(t, poster, Options{TokenName: "token", Paths: Paths{Login: "/auth/login"}})

	_, err := s.Login(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.Read())
}

func TestStore_LoginWithoutToken(t *testing.T) {
	poster := &fakePoster{responses: map[string]string{
		"/login": `{"code":200,"data":{}}`,
	}}
	s, sess, n := newStore(t, poster, Options{})

	_, err := s.Login(context.Background(), "admin", "x")
	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, sess.HasToken())
	assert.Equal(t, notes{"Login succeeded but the response carried no accessToken"}, *n)
}

func TestStore_LoginRequestError(t *testing.T) {
	appErr := &request.ApplicationError{URL: "/login", Code: "500", Msg: "bad creds"}
	poster := &fakePoster{errs: map[string]error{"/login": appErr}}
	s, sess, _ := newStore(t, poster, Options{})

	_, err := s.Login(context.Background(), "mallory", "x")
	var got *request.ApplicationError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "bad creds", got.Msg)
	assert.False(t, sess.HasToken())
}

func TestStore_FetchUserInfo(t *testing.T) {
	poster := &fakePoster{responses: map[string]string{
		"/userInfo": `{"code":200,"data":{"permissions":["admin","editor"],"username":"test","avatar":"a.png"}}`,
	}}
	s, sess, _ := newStore(t, poster, Options{})
	sess.Set("test-accessToken")

	perms, err := s.FetchUserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "editor"}, perms)
	assert.Equal(t, Profile{Username: "test", Avatar: "a.png", Permissions: []string{"admin", "editor"}}, s.Profile())
	assert.True(t, s.HasPermissions())
	assert.Equal(t, map[string]any{"accessToken": "test-accessToken"}, poster.calls[0].data)
}

func TestStore_FetchUserInfoFailures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  error
		wantNote string
	}{
		{"no data", `{"code":200}`, ErrVerifyFailed, "Verification failed, please log in again"},
		{"null data", `{"code":200,"data":null}`, ErrVerifyFailed, "Verification failed, please log in again"},
		{"no username", `{"code":200,"data":{"permissions":["admin"]}}`, ErrInvalidUserInfo, "User info response is malformed"},
		{"permissions not a list", `{"code":200,"data":{"username":"a","permissions":"admin"}}`, ErrInvalidUserInfo, "User info response is malformed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poster := &fakePoster{responses: map[string]string{"/userInfo": tt.body}}
			s, _, n := newStore(t, poster, Options{})

			_, err := s.FetchUserInfo(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, notes{tt.wantNote}, *n)
			assert.False(t, s.HasPermissions())
		})
	}
}

func TestStore_CustomFields(t *testing.T) {
	poster := &fakePoster{responses: map[string]string{
		"/userInfo": `{"code":200,"data":{"user":{"name":"x","roles":["ops"]}}}`,
	}}
	s, _, _ := newStore(t, poster, Options{Fields: Fields{
		Username:    "$.data.user.name",
		Permissions: "$.data.user.roles",
	}})

	perms, err := s.FetchUserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ops"}, perms)
	assert.Equal(t, "x", s.Profile().Username)
}

func TestStore_Logout(t *testing.T) {
	poster := &fakePoster{responses: map[string]string{"/logout": `{"code":200}`}}
	s, sess, _ := newStore(t, poster, Options{})
	sess.Set("tok")
	s.SetPermissions([]string{"admin"})

	require.NoError(t, s.Logout(context.Background()))
	assert.False(t, sess.HasToken())
	assert.False(t, s.HasPermissions())
}

func TestStore_LogoutFailureKeepsSession(t *testing.T) {
	poster := &fakePoster{errs: map[string]error{"/logout": errors.New("down")}}
	s, sess, _ := newStore(t, poster, Options{})
	sess.Set("tok")

	assert.Error(t, s.Logout(context.Background()))
	assert.True(t, sess.HasToken())
}

func TestStore_HasPermission(t *testing.T) {
	s, _, _ := newStore(t, &fakePoster{}, Options{})
	s.SetPermissions([]string{"admin", "editor"})

	assert.True(t, s.HasPermission("admin"))
	assert.True(t, s.HasPermission("guest", "editor"))
	assert.False(t, s.HasPermission("guest"))
	assert.False(t, s.HasPermission())

	s.Reset()
	assert.False(t, s.HasPermission("admin"))
}
