package syncer

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

// fakeGateway is a configured remote backend with canned reads and a
// switchable insert failure.
type fakeGateway struct {
	gateway.Local

	checkpoints []models.Checkpoint
	rollCalls   []models.RollCallRecord
	activities  []models.ActivityRecord
	scans       []models.ScanRecord

	readErr   error
	insertErr error
	inserted  int
	nextID    int64
}

func (f *fakeGateway) Configured() bool { return true }

func (f *fakeGateway) Checkpoints(context.Context) ([]models.Checkpoint, error) {
	return f.checkpoints, f.readErr
}
func (f *fakeGateway) RollCalls(context.Context) ([]models.RollCallRecord, error) {
	return f.rollCalls, f.readErr
}
func (f *fakeGateway) Activities(context.Context) ([]models.ActivityRecord, error) {
	return f.activities, f.readErr
}
func (f *fakeGateway) Scans(context.Context) ([]models.ScanRecord, error) {
	return f.scans, f.readErr
}

func (f *fakeGateway) insert() error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted++
	return nil
}

func (f *fakeGateway) InsertCheckpoint(_ context.Context, cp *models.Checkpoint) error {
	if err := f.insert(); err != nil {
		return err
	}
	f.nextID++
	cp.RemoteID = f.nextID
	return nil
}
func (f *fakeGateway) InsertRollCall(context.Context, *models.Session, models.RollCallRecord) error {
	return f.insert()
}
func (f *fakeGateway) InsertActivity(context.Context, *models.Session, models.ActivityRecord) error {
	return f.insert()
}
func (f *fakeGateway) InsertScan(context.Context, *models.Session, models.ScanRecord, int64) error {
	return f.insert()
}

func newCoordinator(t *testing.T, gw gateway.Gateway) (*Coordinator, *store.Store) {
	t.Helper()
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	c, err := New(st, gw)
	require.NoError(t, err)
	return c, st
}

func storedScans(t *testing.T, st *store.Store) []models.ScanRecord {
	t.Helper()
	var out []models.ScanRecord
	_, err := st.GetJSON(store.KeyScans, &out)
	require.NoError(t, err)
	return out
}

var sess = &models.Session{ID: "u1", Name: "Ka. Rupam I", Role: models.RoleReguI}

func TestFreshStoreIsSeeded(t *testing.T) {
	c, st := newCoordinator(t, gateway.NewLocal())

	cps := c.Checkpoints()
	require.Len(t, cps, 5)
	assert.Equal(t, "QR_001", cps[0].Code)
	assert.Equal(t, "Pos Utama Menara", cps[0].Location)
	assert.NotEmpty(t, c.RollCalls())
	assert.NotEmpty(t, c.Scans())

	// The seed is mirrored to the store immediately.
	var persisted []models.Checkpoint
	ok, err := st.GetJSON(store.KeyCheckpoints, &persisted)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cps, persisted)
}

func TestWriteThroughPrependsAndPersists(t *testing.T) {
	c, st := newCoordinator(t, gateway.NewLocal())
	before := len(c.Scans())

	rec := models.ScanRecord{ID: models.NewID(), Location: "Pos Utama Menara", Status: models.StatusAman, Time: "10:00", Date: "2026-08-30"}
	require.NoError(t, c.AddScan(context.Background(), sess, rec, c.Checkpoints()[0]))

	scans := c.Scans()
	require.Len(t, scans, before+1)
	assert.Equal(t, rec, scans[0])

	persisted := storedScans(t, st)
	require.Len(t, persisted, before+1)
	assert.Equal(t, rec, persisted[0])
}

func TestWriteThroughRemoteFirst(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newCoordinator(t, gw)

	rec := models.RollCallRecord{ID: models.NewID(), PIC: sess.Name, Shift: models.ShiftPagi, Total: 452, Time: "07:30", Date: "2026-08-30"}
	require.NoError(t, c.AddRollCall(context.Background(), sess, rec))
	assert.Equal(t, 1, gw.inserted)
	assert.Equal(t, rec, c.RollCalls()[0])
}

func TestFailedRemoteWriteLeavesLocalUntouched(t *testing.T) {
	gw := &fakeGateway{insertErr: errors.New("network down")}
	c, st := newCoordinator(t, gw)

	memBefore := c.Scans()
	storeBefore := storedScans(t, st)

	rec := models.ScanRecord{ID: models.NewID(), Location: "Area Dapur", Status: models.StatusBahaya, Time: "11:00", Date: "2026-08-30"}
	err := c.AddScan(context.Background(), sess, rec, c.Checkpoints()[3])
	require.ErrorIs(t, err, ErrRemoteWrite)

	assert.Equal(t, memBefore, c.Scans())
	assert.Equal(t, storeBefore, storedScans(t, st))
}

func TestInitialLoadReplacesWithNonEmptyRemote(t *testing.T) {
	gw := &fakeGateway{
		checkpoints: []models.Checkpoint{{Code: "QR_100", Location: "Pos Remote", RemoteID: 1}},
		scans:       []models.ScanRecord{{ID: 9, Location: "Pos Remote", Status: models.StatusAman, Time: "08:00", Date: "2026-08-30"}},
	}
	c, st := newCoordinator(t, gw)

	c.InitialLoad(context.Background())

	require.Len(t, c.Checkpoints(), 1)
	assert.Equal(t, "QR_100", c.Checkpoints()[0].Code)
	require.Len(t, c.Scans(), 1)
	assert.Equal(t, c.Scans(), storedScans(t, st))

	// Empty remote results preserved the seeded collections.
	assert.NotEmpty(t, c.RollCalls())
	assert.NotEmpty(t, c.Activities())
}

func TestInitialLoadNeverRegressesToEmpty(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newCoordinator(t, gw)
	before := c.RollCalls()
	require.NotEmpty(t, before)

	c.InitialLoad(context.Background())
	assert.Equal(t, before, c.RollCalls())
}

func TestInitialLoadSwallowsReadErrors(t *testing.T) {
	gw := &fakeGateway{readErr: errors.New("timeout")}
	c, _ := newCoordinator(t, gw)
	before := c.Scans()

	c.InitialLoad(context.Background())
	assert.Equal(t, before, c.Scans())
}

func TestAddCheckpointAppendsAndCarriesRemoteID(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newCoordinator(t, gw)
	before := len(c.Checkpoints())

	cp := models.Checkpoint{Code: "QR_GUDANG_1", Location: "Gudang"}
	require.NoError(t, c.AddCheckpoint(context.Background(), &cp))
	assert.Equal(t, int64(1), cp.RemoteID)

	cps := c.Checkpoints()
	require.Len(t, cps, before+1)
	assert.Equal(t, cp, cps[len(cps)-1])
}

func TestLookupCheckpoint(t *testing.T) {
	c, _ := newCoordinator(t, gateway.NewLocal())

	cp, ok := c.LookupCheckpoint("QR_001")
	require.True(t, ok)
	assert.Equal(t, "Pos Utama Menara", cp.Location)

	_, ok = c.LookupCheckpoint("QR_999")
	assert.False(t, ok)
}

func TestOnChangeFiresAfterCommit(t *testing.T) {
	c, _ := newCoordinator(t, gateway.NewLocal())

	var gotCol Collection
	var gotRec any
	c.SetOnChange(func(col Collection, rec any) {
		gotCol, gotRec = col, rec
	})

	rec := models.ActivityRecord{ID: models.NewID(), Time: "12:00", Name: "Petugas A", Desc: "Kontrol", User: sess.Name, Images: []string{}, Date: "2026-08-30"}
	require.NoError(t, c.AddActivity(context.Background(), sess, rec))
	assert.Equal(t, Activities, gotCol)
	assert.Equal(t, rec, gotRec)
}

func TestReopenedStoreKeepsMutations(t *testing.T) {
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	defer st.Close()

	c, err := New(st, gateway.NewLocal())
	require.NoError(t, err)
	rec := models.ScanRecord{ID: models.NewID(), Location: "Pos Utama Menara", Status: models.StatusRawan, Time: "13:00", Date: "2026-08-30"}
	require.NoError(t, c.AddScan(context.Background(), sess, rec, c.Checkpoints()[0]))

	// A second coordinator over the same store sees the committed state,
	// not the seed.
	c2, err := New(st, gateway.NewLocal())
	require.NoError(t, err)
	assert.Equal(t, rec, c2.Scans()[0])
}
