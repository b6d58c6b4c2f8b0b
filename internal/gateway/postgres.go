package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/andikura/sipola_backend_v1/internal/models"
	"github.com/andikura/sipola_backend_v1/internal/utils"
)

// Postgres is the remote-backed gateway: gorm over the configured
// backend database.
type Postgres struct {
	db *gorm.DB
}

type profileRow struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"type:uuid;uniqueIndex"`
	Username  string `gorm:"uniqueIndex"`
	Name      string
	Role      string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (profileRow) TableName() string { return "profiles" }

type qrLocationRow struct {
	ID           int64  `gorm:"primaryKey"`
	QRCode       string `gorm:"uniqueIndex"`
	LocationName string
	CreatedAt    time.Time
}

func (qrLocationRow) TableName() string { return "qr_locations" }

type apelRecordRow struct {
	ID        int64 `gorm:"primaryKey"`
	UserID    string
	UserName  string
	Shift     string
	Total     int
	Time      string
	Date      string
	CreatedAt time.Time
}

func (apelRecordRow) TableName() string { return "apel_records" }

type activityRow struct {
	ID          int64 `gorm:"primaryKey"`
	UserID      string
	UserName    string
	Time        string
	SubjectName string
	Description string
	Images      string `gorm:"type:text"` // JSON array of URLs/data URIs
	Date        string
	CreatedAt   time.Time
}

func (activityRow) TableName() string { return "activities" }

type scanRecordRow struct {
	ID           int64 `gorm:"primaryKey"`
	UserID       string
	UserName     string
	LocationID   int64
	LocationName string
	Status       string
	Notes        string
	CreatedAt    time.Time
}

func (scanRecordRow) TableName() string { return "scan_records" }

type activityImageRow struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex"`
	ContentType string
	Content     []byte
	CreatedAt   time.Time
}

func (activityImageRow) TableName() string { return "activity_images" }

// Connect opens the remote database.
func Connect(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gateway: connect: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Migrate() error {
	return p.db.AutoMigrate(
		&profileRow{}, &qrLocationRow{}, &apelRecordRow{},
		&activityRow{}, &scanRecordRow{}, &activityImageRow{},
	)
}

// Seed registers the operator roster, the fixed viewer account and the
// initial checkpoint catalog when the corresponding tables are empty.
func (p *Postgres) Seed() error {
	var count int64
	if err := p.db.Model(&profileRow{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		accounts := append([]models.Account{}, models.Accounts...)
		accounts = append(accounts, models.Account{
			Username: "viewer", Password: "viewer123",
			Role: models.RoleViewer, Name: "Viewer",
		})
		for _, a := range accounts {
			hashed, err := utils.HashPassword(a.Password)
			if err != nil {
				return err
			}
			row := profileRow{
				UserID:   uuid.NewString(),
				Username: normalizeUsername(a.Username),
				Name:     a.Name,
				Role:     a.Role,
				Password: hashed,
			}
			if err := p.db.Create(&row).Error; err != nil {
				return err
			}
		}
		log.Printf("gateway: seeded %d profiles", len(accounts))
	}

	if err := p.db.Model(&qrLocationRow{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		for _, cp := range models.InitialCheckpoints() {
			row := qrLocationRow{QRCode: cp.Code, LocationName: cp.Location}
			if err := p.db.Create(&row).Error; err != nil {
				return err
			}
		}
		log.Println("gateway: seeded checkpoint catalog")
	}
	return nil
}

func normalizeUsername(u string) string {
	return strings.ToLower(strings.Join(strings.Fields(u), ""))
}

func (p *Postgres) Configured() bool { return true }

func (p *Postgres) SignIn(ctx context.Context, username, password string) (string, error) {
	var row profileRow
	err := p.db.WithContext(ctx).
		Where("username = ?", normalizeUsername(username)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", fmt.Errorf("gateway: sign in: %w", err)
	}
	if !utils.CheckPassword(row.Password, password) {
		return "", ErrBadCredentials
	}
	return row.UserID, nil
}

// SignOut invalidates nothing server-side: remote sessions are
// credential exchanges, the API token is discarded by the client.
func (p *Postgres) SignOut(ctx context.Context) error { return nil }

func (p *Postgres) FetchProfile(ctx context.Context, userID string) (*Profile, error) {
	var row profileRow
	err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("gateway: fetch profile: %w", err)
	}
	return &Profile{ID: row.UserID, Name: row.Name, Role: row.Role}, nil
}

func (p *Postgres) Checkpoints(ctx context.Context) ([]models.Checkpoint, error) {
	var rows []qrLocationRow
	if err := p.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("gateway: query checkpoints: %w", err)
	}
	out := make([]models.Checkpoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Checkpoint{
			Code: r.QRCode, Location: r.LocationName, RemoteID: r.ID,
		})
	}
	return out, nil
}

func (p *Postgres) RollCalls(ctx context.Context) ([]models.RollCallRecord, error) {
	var rows []apelRecordRow
	err := p.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gateway: query apel records: %w", err)
	}
	out := make([]models.RollCallRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.RollCallRecord{
			ID: r.ID, PIC: r.UserName, Shift: r.Shift,
			Total: r.Total, Time: r.Time, Date: r.Date,
		})
	}
	return out, nil
}

func (p *Postgres) Activities(ctx context.Context) ([]models.ActivityRecord, error) {
	var rows []activityRow
	err := p.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gateway: query activities: %w", err)
	}
	out := make([]models.ActivityRecord, 0, len(rows))
	for _, r := range rows {
		var images []string
		if r.Images != "" {
			if err := json.Unmarshal([]byte(r.Images), &images); err != nil {
				images = nil
			}
		}
		if images == nil {
			images = []string{}
		}
		out = append(out, models.ActivityRecord{
			ID: r.ID, Time: r.Time, Name: r.SubjectName, Desc: r.Description,
			User: r.UserName, Images: images, Date: r.Date,
		})
	}
	return out, nil
}

func (p *Postgres) Scans(ctx context.Context) ([]models.ScanRecord, error) {
	var rows []scanRecordRow
	err := p.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gateway: query scan records: %w", err)
	}
	out := make([]models.ScanRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ScanRecord{
			ID: r.ID, Location: r.LocationName, Status: r.Status,
			Notes: r.Notes,
			Time:  r.CreatedAt.Local().Format("15:04"),
			Date:  models.DateISO(r.CreatedAt.Local()),
		})
	}
	return out, nil
}

func (p *Postgres) InsertCheckpoint(ctx context.Context, cp *models.Checkpoint) error {
	row := qrLocationRow{QRCode: cp.Code, LocationName: cp.Location}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("gateway: insert checkpoint: %w", err)
	}
	cp.RemoteID = row.ID
	return nil
}

func (p *Postgres) InsertRollCall(ctx context.Context, sess *models.Session, rec models.RollCallRecord) error {
	row := apelRecordRow{
		UserID: sess.ID, UserName: sess.Name,
		Shift: rec.Shift, Total: rec.Total, Time: rec.Time, Date: rec.Date,
	}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("gateway: insert apel record: %w", err)
	}
	return nil
}

func (p *Postgres) InsertActivity(ctx context.Context, sess *models.Session, rec models.ActivityRecord) error {
	images, err := json.Marshal(rec.Images)
	if err != nil {
		return fmt.Errorf("gateway: encode images: %w", err)
	}
	row := activityRow{
		UserID: sess.ID, UserName: sess.Name,
		Time: rec.Time, SubjectName: rec.Name, Description: rec.Desc,
		Images: string(images), Date: rec.Date,
	}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("gateway: insert activity: %w", err)
	}
	return nil
}

func (p *Postgres) InsertScan(ctx context.Context, sess *models.Session, rec models.ScanRecord, checkpointID int64) error {
	row := scanRecordRow{
		UserID: sess.ID, UserName: sess.Name,
		LocationID: checkpointID, LocationName: rec.Location,
		Status: rec.Status, Notes: rec.Notes,
	}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("gateway: insert scan record: %w", err)
	}
	return nil
}

func (p *Postgres) UploadImage(ctx context.Context, name string, data []byte) (string, error) {
	row := activityImageRow{Name: name, ContentType: "image/jpeg", Content: data}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("gateway: upload image: %w", err)
	}
	return "/storage/activity-images/" + name, nil
}

// FetchImage serves a previously uploaded blob back to clients.
func (p *Postgres) FetchImage(ctx context.Context, name string) ([]byte, string, error) {
	var row activityImageRow
	err := p.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if err != nil {
		return nil, "", fmt.Errorf("gateway: fetch image: %w", err)
	}
	return row.Content, row.ContentType, nil
}
