package services

import (
	"context"
	"strings"

	"github.com/chat2db/designer/internal/apperrors"
	"github.com/chat2db/designer/internal/clients"
	"github.com/chat2db/designer/internal/config"
	"github.com/chat2db/designer/internal/editor"
	"github.com/chat2db/designer/internal/models"
	"github.com/chat2db/designer/internal/sqlcheck"
	"github.com/chat2db/designer/internal/validator"
	"go.uber.org/zap"
)

// MsgExportFailed is written to the chat log when the SQL service fails.
const MsgExportFailed = "An error occurred while connecting to the server."

// ExportService turns a valid schema into a SQL script preview.
type ExportService struct {
	sessions *SessionService
	sqlgen   clients.SQLGenClient
	checker  *sqlcheck.Checker
	cfg      config.ExportConfig
	logger   *zap.Logger
}

func NewExportService(sessions *SessionService, sqlgen clients.SQLGenClient, checker *sqlcheck.Checker, cfg config.ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{sessions: sessions, sqlgen: sqlgen, checker: checker, cfg: cfg, logger: logger}
}

// ExportRequest picks the dialect; empty means the configured default.
type ExportRequest struct {
	Dialect string `json:"dialect"`
}

type ExportResult struct {
	Dialect    string          `json:"dialect"`
	SQL        string          `json:"sql,omitempty"`
	Checked    bool            `json:"checked"`
	Statements int             `json:"statements"`
	Tables     []string        `json:"tables"`
	Session    editor.Snapshot `json:"session"`
}

// Export asks the SQL service for a script. A non-empty script becomes the
// session's SQL preview once it parses; a script that does not parse clears
// the preview. The service message always goes to the chat log. Service
// failures are logged and reported in the chat log.
func (s *ExportService) Export(ctx context.Context, sessionID string, req ExportRequest) (ExportResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return ExportResult{}, err
	}

	schema := session.Schema()
	if !validator.IsExportable(schema) {
		return ExportResult{}, apperrors.NewConflictError("schema", "not ready for export, validate it and fix the detected issues")
	}

	dialect := strings.TrimSpace(req.Dialect)
	if dialect == "" {
		dialect = s.cfg.Dialect
	}
	result := ExportResult{Dialect: dialect, Tables: []string{}}
	log := s.logger.With(zap.String("session_id", sessionID), zap.String("dialect", dialect))

	resp, err := s.sqlgen.Generate(ctx, clients.SQLRequest{CurrentDB: schema, Dialect: dialect})
	if err != nil {
		log.Error("sql generation failed", zap.Error(err))
		session.PushMessage(models.RoleAgent, MsgExportFailed)
		result.Session = session.Snapshot()
		return result, nil
	}

	if strings.TrimSpace(resp.SQL) != "" {
		if err := s.preview(session, dialect, resp.SQL, &result); err != nil {
			log.Warn("generated sql rejected", zap.Error(err))
			session.SetSQLPreview("")
			session.PushMessage(models.RoleAgent, err.Error())
		} else {
			log.Info("sql exported", zap.Bool("checked", result.Checked), zap.Int("statements", result.Statements))
		}
	}
	if resp.Message != "" {
		session.PushMessage(models.RoleAgent, resp.Message)
	}

	result.Session = session.Snapshot()
	return result, nil
}

func (s *ExportService) preview(session *editor.Session, dialect, script string, result *ExportResult) error {
	sql := sqlcheck.StripFences(script)
	if s.cfg.VerifySQL {
		res, err := s.checker.Check(dialect, script)
		if err != nil {
			return err
		}
		sql = res.SQL
		result.Checked = res.Checked
		result.Statements = res.Statements
		result.Tables = res.Tables
	}
	result.SQL = sql
	session.SetSQLPreview(sql)
	return nil
}
