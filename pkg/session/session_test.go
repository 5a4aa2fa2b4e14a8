package session

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestStore_SetReadInvalidate(t *testing.T) {
	s := New()
	assert.Equal(t, "", s.Read())
	assert.False(t, s.HasToken())

	s.Set("admin-accessToken")
	assert.Equal(t, "admin-accessToken", s.Read())

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "admin-accessToken", tok.AccessToken)
	assert.True(t, tok.Expiry.IsZero(), "opaque tokens never expire")

	s.Invalidate()
	assert.Equal(t, "", s.Read())
	_, err = s.Token()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestStore_ExpiredJWT(t *testing.T) {
	s := New()
	s.Set(signed(t, time.Now().Add(-time.Hour)))
	assert.Equal(t, "", s.Read(), "expired JWT reads as empty")

	fresh := signed(t, time.Now().Add(time.Hour))
	s.Set(fresh)
	assert.Equal(t, fresh, s.Read())
}

func TestExpiryOf(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := ExpiryOf(signed(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = ExpiryOf("editor-accessToken")
	assert.False(t, ok)
}

func TestStore_ConcurrentReadersTolerateInvalidate(t *testing.T) {
	s := New()
	s.Set("tok")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v := s.Read()
				assert.Contains(t, []string{"", "tok"}, v)
			}
		}()
		go func() {
			defer wg.Done()
			s.Invalidate()
			s.Set("tok")
		}()
	}
	wg.Wait()
}

func TestFileStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs := NewFileStore(path)

	s := New(WithPersister(fs))
	assert.Equal(t, "", s.Read(), "missing file is an empty session")

	s.Set("admin-accessToken")

	reloaded := New(WithPersister(fs))
	assert.Equal(t, "admin-accessToken", reloaded.Read())

	reloaded.Invalidate()
	again := New(WithPersister(fs))
	assert.Equal(t, "", again.Read())
	assert.NoError(t, fs.Clear(), "clearing twice is fine")
}

// recordingPersister keeps the last persisted state and widens the window
// between a state change and its write.
type recordingPersister struct {
	mu   sync.Mutex
	last string
}

func (p *recordingPersister) Load() (*oauth2.Token, error) { return nil, nil }

func (p *recordingPersister) Save(tok *oauth2.Token) error {
	time.Sleep(time.Millisecond)
	p.mu.Lock()
	p.last = tok.AccessToken
	p.mu.Unlock()
	return nil
}

func (p *recordingPersister) Clear() error {
	time.Sleep(time.Millisecond)
	p.mu.Lock()
	p.last = ""
	p.mu.Unlock()
	return nil
}

func TestStore_PersistedMatchesMemoryAfterConcurrentWrites(t *testing.T) {
	for round := 0; round < 20; round++ {
		p := &recordingPersister{}
		s := New(WithPersister(p))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				s.Set("tok")
			}()
			go func() {
				defer wg.Done()
				s.Invalidate()
			}()
		}
		wg.Wait()

		p.mu.Lock()
		persisted := p.last
		p.mu.Unlock()
		require.Equal(t, s.Read(), persisted, "round %d", round)
	}
}
