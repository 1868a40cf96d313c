// Package journal records raised events in a sql database.
// It is a listener-side collaborator of the event aggregator: the
// aggregator itself keeps no state beyond its subscriptions, a Recorder
// subscribed to it appends every event it receives to a Journal stream.
package journal

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	// ErrStreamNotFound indicates that the requested stream has no entries
	ErrStreamNotFound = errors.New("stream not found")

	// ErrConcurrencyCheckFailed indicates that an entry with the same stream
	// version was already appended
	ErrConcurrencyCheckFailed = errors.New("optimistic concurrency check failed: stream version exists")
)

const (
	// InitialStreamVersion is the expected version of a stream that has no entries yet
	InitialStreamVersion int = 0
)

// EncodedEvt represents an event encoded by an Encoder
type EncodedEvt struct {
	Data string
	Type string
}

// Encoder is used by the journal in order to marshal and unmarshal events
type Encoder interface {
	Encode(any) (*EncodedEvt, error)
	Decode(*EncodedEvt) (any, error)
}

// New constructs a new journal
// enc - a specific encoder implementation (see bundled JSONEncoder)
// opts - exactly one of WithSQLiteDB or WithPostgresDB, optionally WithLogger
func New(enc Encoder, opts ...Option) (*Journal, error) {
	if enc == nil {
		return nil, errors.New("encoder implementation must be provided")
	}

	var cfg Cfg

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	var dial gorm.Dialector

	switch {
	case cfg.PostgresDSN != "" && cfg.SQLitePath != "":
		return nil, errors.New("only one of postgres dsn or sqlite path can be provided")

	case cfg.PostgresDSN != "":
		dial = postgres.Open(cfg.PostgresDSN)

	case cfg.SQLitePath != "":
		dial = sqlite.Open(cfg.SQLitePath)

	default:
		return nil, errors.New("either postgres dsn or sqlite path must be provided")
	}

	db, err := gorm.Open(dial, &gorm.Config{
		TranslateError: true,
		Logger:         dbLogger(cfg.Logger),
	})
	if err != nil {
		return nil, errors.Wrap(err, "journal: open database")
	}

	if err := db.AutoMigrate(&gormEntry{}); err != nil {
		return nil, errors.Wrap(err, "journal: migrate")
	}

	return &Journal{
		db:  db,
		enc: enc,
	}, nil
}

// Cfg represents journal configuration
type Cfg struct {
	PostgresDSN string
	SQLitePath  string

	// Logger receives database warnings and errors, including the
	// expected unique violations of conflicting appends.
	// Database logging is silent when nil.
	Logger *log.Logger
}

// Option represents journal configuration option
type Option func(Cfg) Cfg

// WithPostgresDB configures the journal to use postgres as a backing storage (pgx driver)
func WithPostgresDB(dsn string) Option {
	return func(cfg Cfg) Cfg {
		cfg.PostgresDSN = dsn

		return cfg
	}
}

// WithSQLiteDB configures the journal to use sqlite as a backing storage
func WithSQLiteDB(path string) Option {
	return func(cfg Cfg) Cfg {
		cfg.SQLitePath = path

		return cfg
	}
}

// WithLogger routes database logs to logger
func WithLogger(logger *log.Logger) Option {
	return func(cfg Cfg) Cfg {
		cfg.Logger = logger

		return cfg
	}
}

func dbLogger(l *log.Logger) gormlogger.Interface {
	if l == nil {
		return gormlogger.Discard
	}

	return gormlogger.New(l, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Journal is an append-only, stream partitioned event log
type Journal struct {
	db  *gorm.DB
	enc Encoder
}

// Close closes the underlying sql connection
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

type gormEntry struct {
	ID            string `gorm:"unique"`
	Sequence      uint64 `gorm:"autoIncrement;primaryKey"`
	Type          string
	Data          string
	Meta          *string
	StreamID      string    `gorm:"index:idx_journal_stream_version,unique;index"`
	StreamVersion int       `gorm:"index:idx_journal_stream_version,unique"`
	OccurredOn    time.Time `gorm:"autoCreateTime"`
}

// TableName returns gorm table name
func (ge *gormEntry) TableName() string { return "journal_entry" }

// Append encodes entries and appends them to stream.
// expectedVer should be InitialStreamVersion for new streams and the latest
// stream version for existing ones, otherwise ErrConcurrencyCheckFailed
// is returned and nothing is written.
func (j *Journal) Append(ctx context.Context, stream string, expectedVer int, entries []Entry) error {
	if len(stream) == 0 {
		return errors.New("stream name must be provided")
	}

	if expectedVer < InitialStreamVersion {
		return errors.New("expected version cannot be less than 0")
	}

	if len(entries) == 0 {
		return nil
	}

	toSave := make([]gormEntry, len(entries))

	for i, e := range entries {
		encoded, err := j.enc.Encode(e.Event)
		if err != nil {
			return err
		}

		expectedVer++

		entry := gormEntry{
			ID:            e.ID,
			Type:          encoded.Type,
			Data:          encoded.Data,
			StreamID:      stream,
			StreamVersion: expectedVer,
			OccurredOn:    e.OccurredOn,
		}

		if e.Meta != nil {
			m, err := json.Marshal(e.Meta)
			if err != nil {
				return err
			}

			ms := string(m)

			entry.Meta = &ms
		}

		if entry.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}

			entry.ID = id.String()
		}

		if entry.OccurredOn.IsZero() {
			entry.OccurredOn = time.Now().UTC()
		}

		toSave[i] = entry
	}

	err := j.db.WithContext(ctx).Create(&toSave).Error

	if isUniqueViolation(err) {
		return ErrConcurrencyCheckFailed
	}

	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var sqliteErr sqlite3.Error

	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// ReadStream reads all entries of stream in version order.
// ErrStreamNotFound is returned for a stream with no entries.
func (j *Journal) ReadStream(ctx context.Context, stream string) ([]Record, error) {
	if len(stream) == 0 {
		return nil, errors.New("stream name must be provided")
	}

	var entries []gormEntry

	if err := j.db.
		WithContext(ctx).
		Where("stream_id = ?", stream).
		Order("stream_version asc").
		Find(&entries).Error; err != nil {

		return nil, err
	}

	if len(entries) == 0 {
		return nil, ErrStreamNotFound
	}

	return j.decode(entries)
}

// Version returns the latest version of stream, InitialStreamVersion if
// the stream has no entries
func (j *Journal) Version(ctx context.Context, stream string) (int, error) {
	if len(stream) == 0 {
		return 0, errors.New("stream name must be provided")
	}

	var version int

	err := j.db.
		WithContext(ctx).
		Model(&gormEntry{}).
		Where("stream_id = ?", stream).
		Select("COALESCE(MAX(stream_version), 0)").
		Row().
		Scan(&version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

func (j *Journal) decode(entries []gormEntry) ([]Record, error) {
	out := make([]Record, len(entries))

	for i, e := range entries {
		data, err := j.enc.Decode(&EncodedEvt{
			Data: e.Data,
			Type: e.Type,
		})
		if err != nil {
			return nil, err
		}

		var meta map[string]string

		if e.Meta != nil {
			if err := json.Unmarshal([]byte(*e.Meta), &meta); err != nil {
				return nil, err
			}
		}

		out[i] = Record{
			Event:         data,
			Meta:          meta,
			ID:            e.ID,
			Sequence:      e.Sequence,
			Type:          e.Type,
			StreamID:      e.StreamID,
			StreamVersion: e.StreamVersion,
			OccurredOn:    e.OccurredOn,
		}
	}

	return out, nil
}
