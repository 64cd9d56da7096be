package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	"github.com/johnquangdev/earnings-transcripts/pkg/config"
)

// statementExecutor is the part of *gorm.DB used to run DDL
type statementExecutor interface {
	Exec(sql string, values ...interface{}) *gorm.DB
}

// TranscriptTableDDL returns the statements creating the metadata table and
// its indexes. The default table keeps the index names of the SQL migration.
func TranscriptTableDDL(table string) ([]string, error) {
	if !config.ValidTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	symbolQuarterIndex := table + "_symbol_quarter_index"
	if table == entities.DefaultTranscriptsTable {
		symbolQuarterIndex = "symbol_quarter_index"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    transcript_id          VARCHAR(255) PRIMARY KEY,
    symbol                 VARCHAR(20)   NOT NULL,
    quarter                VARCHAR(6)    NOT NULL,
    s3_bucket              VARCHAR(255)  NOT NULL,
    s3_key                 TEXT          NOT NULL,
    total_segments         INTEGER       NOT NULL,
    total_words            INTEGER       NOT NULL,
    avg_sentiment          NUMERIC(12,6) NOT NULL DEFAULT 0,
    speakers               JSONB         NOT NULL DEFAULT '[]'::jsonb,
    speaker_count          INTEGER       NOT NULL,
    processed_for_training BOOLEAN       NOT NULL DEFAULT FALSE,
    created_at             TIMESTAMPTZ   NOT NULL,
    ttl                    BIGINT        NOT NULL,
    file_size_bytes        BIGINT        NOT NULL DEFAULT 0,
    status                 VARCHAR(50)   NOT NULL
)`, table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (symbol, quarter)", symbolQuarterIndex, table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_ttl_idx ON %s (ttl)", table, table),
	}, nil
}

// EnsureTranscriptTable creates the configured metadata table when it does
// not exist yet. The SQL migrations only cover the default table.
func EnsureTranscriptTable(ctx context.Context, db *gorm.DB, table string) error {
	return ensureTranscriptTable(db.WithContext(ctx), table)
}

func ensureTranscriptTable(exec statementExecutor, table string) error {
	statements, err := TranscriptTableDDL(table)
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if err := exec.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}
