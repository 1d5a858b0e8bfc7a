package repl

import (
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultJournalTable  = "lispy_journal"
	DefaultJournalDriver = PostgresDriver

	PostgresDriver = "postgres"
	SQLiteDriver   = "sqlite3"
)

var (
	UnsupportedDriverErr = errors.New("Unsupported journal driver")
)

type JournalInfo struct {
	Driver   string `json:"driver"`
	Path     string `json:"path"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	Param    string `json:"param"`
	Table    string `json:"table"`
}

func (info *JournalInfo) ConnectionString() string {

	if info.Driver == SQLiteDriver {
		return info.Path
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(info.Username, info.Password),
		Host:     fmt.Sprintf("%s:%d", info.Host, info.Port),
		Path:     "/" + info.DBName,
		RawQuery: info.Param,
	}

	return u.String()
}

func createTableSQL(driver string, table string) string {

	id := "id BIGSERIAL PRIMARY KEY"
	if driver == SQLiteDriver {
		id = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s,
	evaluated_at TIMESTAMPTZ NOT NULL,
	input TEXT NOT NULL,
	result TEXT NOT NULL,
	type TEXT NOT NULL,
	number BIGINT NOT NULL DEFAULT 0,
	error_kind TEXT NOT NULL DEFAULT ''
)`, pq.QuoteIdentifier(table), id)
}

func insertSQL(table string) string {
	return fmt.Sprintf(
		`INSERT INTO %s (evaluated_at, input, result, type, number, error_kind) VALUES (:evaluated_at, :input, :result, :type, :number, :error_kind)`,
		pq.QuoteIdentifier(table),
	)
}

// Journal appends evaluation records to a PostgreSQL or SQLite table.
type Journal struct {
	db         *sqlx.DB
	insertStmt string
}

func OpenJournal(info *JournalInfo) (*Journal, error) {

	if len(info.Table) == 0 {
		info.Table = DefaultJournalTable
	}

	if len(info.Driver) == 0 {
		info.Driver = DefaultJournalDriver
	}

	if info.Driver != PostgresDriver && info.Driver != SQLiteDriver {
		return nil, errors.Wrap(UnsupportedDriverErr, info.Driver)
	}

	log.WithFields(log.Fields{
		"driver":   info.Driver,
		"host":     info.Host,
		"port":     info.Port,
		"username": info.Username,
		"dbname":   info.DBName,
		"table":    info.Table,
	}).Info("Connecting to journal database")

	// Open database
	db, err := sqlx.Open(info.Driver, info.ConnectionString())
	if err != nil {
		log.Error(err)
		return nil, err
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)

	_, err = db.Exec(createTableSQL(info.Driver, info.Table))
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{
		db:         db,
		insertStmt: insertSQL(info.Table),
	}, nil
}

func (j *Journal) Record(rec *Record) error {
	_, err := j.db.NamedExec(j.insertStmt, rec)
	return err
}

func (j *Journal) Close() error {
	return j.db.Close()
}
