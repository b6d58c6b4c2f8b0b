// Package syncer reconciles the in-memory record collections, the local
// store and the remote gateway. The rules are small but strict: writes
// go remote first and are never mirrored locally on remote failure,
// while reads never replace a populated local collection with an empty
// remote result.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/andikura/sipola_backend_v1/internal/gateway"
	"github.com/andikura/sipola_backend_v1/internal/models"
	"github.com/andikura/sipola_backend_v1/internal/store"
)

// ErrRemoteWrite marks a failed remote insert. The local copy is left
// untouched; the caller warns the user and may retry.
var ErrRemoteWrite = errors.New("remote write failed")

type Collection string

const (
	Checkpoints Collection = "checkpoints"
	RollCalls   Collection = "rollcalls"
	Activities  Collection = "activities"
	Scans       Collection = "scans"
)

// Coordinator owns the four collections. All mutations are serialized;
// each one is a remote insert (when configured) followed by an atomic
// replace-and-persist of the whole collection in the local store.
type Coordinator struct {
	mu sync.Mutex
	st *store.Store
	gw gateway.Gateway

	checkpoints []models.Checkpoint
	rollCalls   []models.RollCallRecord
	activities  []models.ActivityRecord
	scans       []models.ScanRecord

	// onChange, when set, fires after every successful mutation with the
	// record that was just committed.
	onChange func(Collection, any)
}

// New builds a coordinator from whatever the local store holds. A fresh
// store is seeded with the checkpoint catalog and demo history so the
// app is never empty on first run.
func New(st *store.Store, gw gateway.Gateway) (*Coordinator, error) {
	c := &Coordinator{st: st, gw: gw}

	haveCatalog, err := st.GetJSON(store.KeyCheckpoints, &c.checkpoints)
	if err != nil {
		return nil, err
	}
	if !haveCatalog {
		c.checkpoints = models.InitialCheckpoints()
		c.persist(Checkpoints)
	}

	haveRecords, err := st.GetJSON(store.KeyRollCalls, &c.rollCalls)
	if err != nil {
		return nil, err
	}
	if !haveRecords {
		now := time.Now()
		demo := models.GenerateDemoData(
			models.DateISO(now), models.DateISO(now.AddDate(0, 0, -1)))
		c.rollCalls = demo.RollCalls
		c.activities = demo.Activities
		c.scans = demo.Scans
		c.persist(RollCalls)
		c.persist(Activities)
		c.persist(Scans)
		return c, nil
	}

	if _, err := st.GetJSON(store.KeyActivities, &c.activities); err != nil {
		return nil, err
	}
	if _, err := st.GetJSON(store.KeyScans, &c.scans); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Coordinator) SetOnChange(fn func(Collection, any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// InitialLoad pulls all four collections from the remote backend. Only a
// non-empty result replaces the local copy; failures and empty results
// are logged and the existing local data (seed or otherwise) stays.
func (c *Coordinator) InitialLoad(ctx context.Context) {
	if !c.gw.Configured() {
		return
	}

	if cps, err := c.gw.Checkpoints(ctx); err != nil {
		log.Printf("syncer: initial load checkpoints: %v", err)
	} else if len(cps) > 0 {
		c.replace(Checkpoints, func() { c.checkpoints = cps })
	}

	if recs, err := c.gw.RollCalls(ctx); err != nil {
		log.Printf("syncer: initial load apel records: %v", err)
	} else if len(recs) > 0 {
		c.replace(RollCalls, func() { c.rollCalls = recs })
	}

	if recs, err := c.gw.Activities(ctx); err != nil {
		log.Printf("syncer: initial load activities: %v", err)
	} else if len(recs) > 0 {
		c.replace(Activities, func() { c.activities = recs })
	}

	if recs, err := c.gw.Scans(ctx); err != nil {
		log.Printf("syncer: initial load scan records: %v", err)
	} else if len(recs) > 0 {
		c.replace(Scans, func() { c.scans = recs })
	}
}

func (c *Coordinator) replace(col Collection, swap func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	swap()
	c.persist(col)
}

// AddRollCall writes one apel record through: remote insert first when
// configured, then prepend and persist locally.
func (c *Coordinator) AddRollCall(ctx context.Context, sess *models.Session, rec models.RollCallRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gw.Configured() {
		if err := c.gw.InsertRollCall(ctx, sess, rec); err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteWrite, err)
		}
	}
	c.rollCalls = append([]models.RollCallRecord{rec}, c.rollCalls...)
	c.persist(RollCalls)
	c.notify(RollCalls, rec)
	return nil
}

func (c *Coordinator) AddActivity(ctx context.Context, sess *models.Session, rec models.ActivityRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gw.Configured() {
		if err := c.gw.InsertActivity(ctx, sess, rec); err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteWrite, err)
		}
	}
	c.activities = append([]models.ActivityRecord{rec}, c.activities...)
	c.persist(Activities)
	c.notify(Activities, rec)
	return nil
}

// AddScan persists one completed checkpoint visit. cp is the resolved
// catalog entry the record came from.
func (c *Coordinator) AddScan(ctx context.Context, sess *models.Session, rec models.ScanRecord, cp models.Checkpoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gw.Configured() {
		if err := c.gw.InsertScan(ctx, sess, rec, cp.RemoteID); err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteWrite, err)
		}
	}
	c.scans = append([]models.ScanRecord{rec}, c.scans...)
	c.persist(Scans)
	c.notify(Scans, rec)
	return nil
}

// AddCheckpoint extends the catalog. Catalog order is stable-id
// ascending, so new entries append at the end. On success cp carries the
// backend-assigned RemoteID.
func (c *Coordinator) AddCheckpoint(ctx context.Context, cp *models.Checkpoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gw.Configured() {
		if err := c.gw.InsertCheckpoint(ctx, cp); err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteWrite, err)
		}
	}
	c.checkpoints = append(c.checkpoints, *cp)
	c.persist(Checkpoints)
	c.notify(Checkpoints, *cp)
	return nil
}

// persist mirrors one collection to the local store. Storage failures
// are logged and swallowed: the in-memory copy stays authoritative for
// the rest of the session. Callers hold c.mu.
func (c *Coordinator) persist(col Collection) {
	var err error
	switch col {
	case Checkpoints:
		err = c.st.SetJSON(store.KeyCheckpoints, c.checkpoints)
	case RollCalls:
		err = c.st.SetJSON(store.KeyRollCalls, c.rollCalls)
	case Activities:
		err = c.st.SetJSON(store.KeyActivities, c.activities)
	case Scans:
		err = c.st.SetJSON(store.KeyScans, c.scans)
	}
	if err != nil {
		log.Printf("syncer: persist %s: %v", col, err)
	}
}

func (c *Coordinator) notify(col Collection, rec any) {
	if c.onChange != nil {
		c.onChange(col, rec)
	}
}

// LookupCheckpoint resolves a decoded code against the catalog by exact
// match.
func (c *Coordinator) LookupCheckpoint(code string) (models.Checkpoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cp := range c.checkpoints {
		if cp.Code == code {
			return cp, true
		}
	}
	return models.Checkpoint{}, false
}

func (c *Coordinator) Checkpoints() []models.Checkpoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Checkpoint(nil), c.checkpoints...)
}

func (c *Coordinator) RollCalls() []models.RollCallRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.RollCallRecord(nil), c.rollCalls...)
}

func (c *Coordinator) Activities() []models.ActivityRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ActivityRecord(nil), c.activities...)
}

func (c *Coordinator) Scans() []models.ScanRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ScanRecord(nil), c.scans...)
}
