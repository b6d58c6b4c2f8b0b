// Package gateway abstracts the optional remote backend. The coordinator
// and session manager only ever see the Gateway interface; whether the
// app runs remote or local-only is decided once at startup by which
// implementation gets injected.
package gateway

import (
	"context"
	"errors"

	"github.com/andikura/sipola_backend_v1/internal/models"
)

var (
	ErrNotConfigured  = errors.New("remote gateway not configured")
	ErrBadCredentials = errors.New("invalid credentials")
)

// Profile is the identity record behind a remote user id.
type Profile struct {
	ID   string
	Name string
	Role string
}

// Gateway is the remote backend capability: an identity service, four
// ordered record tables and a blob bucket. Implementations must never
// panic on unreachable backends; every failure comes back as an error
// for the caller to classify.
type Gateway interface {
	Configured() bool

	// Identity: credentials -> user id, plus profile lookup by id.
	SignIn(ctx context.Context, username, password string) (string, error)
	SignOut(ctx context.Context) error
	FetchProfile(ctx context.Context, userID string) (*Profile, error)

	// Ordered selects: the catalog by stable id ascending, record
	// collections by creation time descending.
	Checkpoints(ctx context.Context) ([]models.Checkpoint, error)
	RollCalls(ctx context.Context) ([]models.RollCallRecord, error)
	Activities(ctx context.Context) ([]models.ActivityRecord, error)
	Scans(ctx context.Context) ([]models.ScanRecord, error)

	// Inserts attach the acting user. InsertCheckpoint fills in the
	// backend-assigned RemoteID on success.
	InsertCheckpoint(ctx context.Context, cp *models.Checkpoint) error
	InsertRollCall(ctx context.Context, sess *models.Session, rec models.RollCallRecord) error
	InsertActivity(ctx context.Context, sess *models.Session, rec models.ActivityRecord) error
	InsertScan(ctx context.Context, sess *models.Session, rec models.ScanRecord, checkpointID int64) error

	// Blob upload; returns the public retrieval path.
	UploadImage(ctx context.Context, name string, data []byte) (string, error)
}

// Local is the gateway used when no remote backend is configured. Reads
// come back empty, record writes succeed as no-ops so the coordinator
// keeps the local copy, identity calls report the missing capability.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (*Local) Configured() bool { return false }

func (*Local) SignIn(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}
func (*Local) SignOut(context.Context) error { return nil }
func (*Local) FetchProfile(context.Context, string) (*Profile, error) {
	return nil, ErrNotConfigured
}

func (*Local) Checkpoints(context.Context) ([]models.Checkpoint, error)   { return nil, nil }
func (*Local) RollCalls(context.Context) ([]models.RollCallRecord, error) { return nil, nil }
func (*Local) Activities(context.Context) ([]models.ActivityRecord, error) {
	return nil, nil
}
func (*Local) Scans(context.Context) ([]models.ScanRecord, error) { return nil, nil }

func (*Local) InsertCheckpoint(context.Context, *models.Checkpoint) error { return nil }
func (*Local) InsertRollCall(context.Context, *models.Session, models.RollCallRecord) error {
	return nil
}
func (*Local) InsertActivity(context.Context, *models.Session, models.ActivityRecord) error {
	return nil
}
func (*Local) InsertScan(context.Context, *models.Session, models.ScanRecord, int64) error {
	return nil
}

func (*Local) UploadImage(context.Context, string, []byte) (string, error) {
	return "", ErrNotConfigured
}
