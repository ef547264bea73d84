package data

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/iWorld-y/clinic_radar/app/display/internal/conf"
)

const driverPostgres = "postgres"

type Data struct {
	db     *sql.DB
	driver string

	// 未配置数据库时使用 CSV 文件
	csvDir string
	csvMu  sync.Mutex
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	if c == nil {
		c = &conf.Data{}
	}

	d := &Data{csvDir: c.CsvDir}
	if c.Database == nil || c.Database.Driver == "" {
		helper.Infof("no database configured, results are appended to CSV files in %q", c.CsvDir)
		return d, func() {}, nil
	}

	db, err := sql.Open(c.Database.Driver, c.Database.Source)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := initSchema(db, c.Database.Driver); err != nil {
		db.Close()
		return nil, nil, err
	}
	d.db, d.driver = db, c.Database.Driver

	cleanup := func() {
		helper.Info("closing the data resources")
		db.Close()
	}
	return d, cleanup, nil
}

func initSchema(db *sql.DB, driver string) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == driverPostgres {
		id = "SERIAL PRIMARY KEY"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_results (
			id ` + id + `,
			run_id TEXT NOT NULL,
			keyword TEXT NOT NULL,
			title TEXT NOT NULL,
			link TEXT NOT NULL,
			analysis TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS diagnosis_results (
			id ` + id + `,
			keyword TEXT NOT NULL,
			result TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

// rebind 把 ? 占位符转换为驱动使用的格式
func (d *Data) rebind(query string) string {
	if d.driver != driverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
