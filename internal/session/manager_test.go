package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andikura/sipola_backend_v1/internal/gateway"
	"github.com/andikura/sipola_backend_v1/internal/models"
	"github.com/andikura/sipola_backend_v1/internal/store"
)

// fakeRemote is a configured gateway with a single known credential pair
// and switchable identity failures.
type fakeRemote struct {
	gateway.Local

	username   string
	password   string
	userID     string
	profile    *gateway.Profile
	profileErr error
	signedOut  bool
}

func (f *fakeRemote) Configured() bool { return true }

func (f *fakeRemote) SignIn(_ context.Context, username, password string) (string, error) {
	if username != f.username || password != f.password {
		return "", gateway.ErrBadCredentials
	}
	return f.userID, nil
}

func (f *fakeRemote) FetchProfile(context.Context, string) (*gateway.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeRemote) SignOut(context.Context) error {
	f.signedOut = true
	return nil
}

func newManager(t *testing.T, gw gateway.Gateway) (*Manager, *store.Store) {
	t.Helper()
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st, gw), st
}

func TestLocalLoginKnownAccount(t *testing.T) {
	m, st := newManager(t, gateway.NewLocal())

	sess, err := m.Login(context.Background(), "Administrator", "123456")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", sess.Name)
	assert.Equal(t, models.RoleSuperAdmin, sess.Role)
	assert.Empty(t, sess.ID)
	assert.Equal(t, StateAuthenticated, m.State())

	var persisted models.Session
	ok, err := st.GetJSON(store.KeySession, &persisted)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, *sess, persisted)
}

func TestLocalLoginCaseInsensitiveUsername(t *testing.T) {
	m, _ := newManager(t, gateway.NewLocal())

	sess, err := m.Login(context.Background(), "rupam ii", "123456")
	require.NoError(t, err)
	assert.Equal(t, models.RoleReguII, sess.Role)
}

func TestLocalLoginBadPassword(t *testing.T) {
	m, _ := newManager(t, gateway.NewLocal())

	_, err := m.Login(context.Background(), "Administrator", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)
	assert.Nil(t, m.Current())
	assert.Equal(t, StateUnauthenticated, m.State())
}

func TestRemoteLogin(t *testing.T) {
	gw := &fakeRemote{
		username: "Rupam I", password: "123456", userID: "uid-1",
		profile: &gateway.Profile{ID: "uid-1", Name: "Ka. Rupam I", Role: models.RoleReguI},
	}
	m, _ := newManager(t, gw)

	sess, err := m.Login(context.Background(), "Rupam I", "123456")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", sess.ID)
	assert.Equal(t, "Ka. Rupam I", sess.Name)
	assert.Equal(t, models.RoleReguI, sess.Role)
}

func TestRemoteLoginProfileFetchFallsBackToMinimalSession(t *testing.T) {
	gw := &fakeRemote{
		username: "Rupam I", password: "123456", userID: "uid-1",
		profileErr: errors.New("profiles table unreachable"),
	}
	m, _ := newManager(t, gw)

	sess, err := m.Login(context.Background(), "Rupam I", "123456")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", sess.ID)
	assert.Equal(t, "Rupam I", sess.Name)
	assert.Equal(t, models.RoleViewer, sess.Role)
	assert.Equal(t, StateAuthenticated, m.State())
}

func TestRemoteLoginBadCredentials(t *testing.T) {
	gw := &fakeRemote{username: "Rupam I", password: "123456", userID: "uid-1"}
	m, _ := newManager(t, gw)

	_, err := m.Login(context.Background(), "Rupam I", "nope")
	require.ErrorIs(t, err, ErrBadCredentials)
	assert.Nil(t, m.Current())
}

func TestLoginAsViewerLocalFallback(t *testing.T) {
	m, _ := newManager(t, gateway.NewLocal())

	sess := m.LoginAsViewer(context.Background())
	assert.Equal(t, "Viewer", sess.Name)
	assert.Equal(t, models.RoleViewer, sess.Role)
	assert.False(t, sess.CanWrite())
}

func TestLoginAsViewerRemote(t *testing.T) {
	gw := &fakeRemote{
		username: "viewer", password: "viewer123", userID: "uid-v",
		profile: &gateway.Profile{ID: "uid-v", Name: "Petugas Monitoring", Role: models.RoleViewer},
	}
	m, _ := newManager(t, gw)

	sess := m.LoginAsViewer(context.Background())
	assert.Equal(t, "uid-v", sess.ID)
	assert.Equal(t, "Petugas Monitoring", sess.Name)
}

func TestRestoreLocalTrustsPersistedSession(t *testing.T) {
	m, st := newManager(t, gateway.NewLocal())
	saved := models.Session{Name: "Ka. Rupam III", Role: models.RoleReguIII}
	require.NoError(t, st.SetJSON(store.KeySession, saved))

	require.NoError(t, m.Restore(context.Background()))
	require.NotNil(t, m.Current())
	assert.Equal(t, saved, *m.Current())
	assert.Equal(t, StateAuthenticated, m.State())
}

func TestRestoreRemoteRefreshesProfile(t *testing.T) {
	gw := &fakeRemote{
		profile: &gateway.Profile{ID: "uid-1", Name: "Ka. Rupam I (Baru)", Role: models.RoleReguI},
	}
	m, st := newManager(t, gw)
	require.NoError(t, st.SetJSON(store.KeySession, models.Session{ID: "uid-1", Name: "Stale", Role: models.RoleViewer}))

	require.NoError(t, m.Restore(context.Background()))
	require.NotNil(t, m.Current())
	assert.Equal(t, "Ka. Rupam I (Baru)", m.Current().Name)
	assert.Equal(t, models.RoleReguI, m.Current().Role)
}

func TestRestoreRemoteProfileFailureLeavesLoggedOut(t *testing.T) {
	gw := &fakeRemote{profileErr: errors.New("gone")}
	m, st := newManager(t, gw)
	require.NoError(t, st.SetJSON(store.KeySession, models.Session{ID: "uid-1", Name: "Stale", Role: models.RoleViewer}))

	require.NoError(t, m.Restore(context.Background()))
	assert.Nil(t, m.Current())
	assert.Equal(t, StateUnauthenticated, m.State())
}

func TestRestoreWithoutPersistedSession(t *testing.T) {
	m, _ := newManager(t, gateway.NewLocal())
	require.NoError(t, m.Restore(context.Background()))
	assert.Nil(t, m.Current())
}

func TestLogoutClearsStateAndStore(t *testing.T) {
	gw := &fakeRemote{
		username: "Rupam I", password: "123456", userID: "uid-1",
		profile: &gateway.Profile{ID: "uid-1", Name: "Ka. Rupam I", Role: models.RoleReguI},
	}
	m, st := newManager(t, gw)
	_, err := m.Login(context.Background(), "Rupam I", "123456")
	require.NoError(t, err)
	require.NoError(t, st.Set(store.KeyScreen, []byte(`"dashboard"`)))

	m.Logout(context.Background())
	assert.True(t, gw.signedOut)
	assert.Nil(t, m.Current())
	assert.Equal(t, StateUnauthenticated, m.State())

	_, ok, err := st.Get(store.KeySession)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = st.Get(store.KeyScreen)
	require.NoError(t, err)
	assert.False(t, ok)
}
