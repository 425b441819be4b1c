package service

import (
	"context"
	"time"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
)

type IAdminService interface {
	Reset(ctx context.Context) (*dto.ResetResponse, error)

	// Logs
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	documentService IDocumentService
	logger          logger.ILogger
}

func NewAdminService(documentService IDocumentService, log logger.ILogger) IAdminService {
	return &adminService{
		documentService: documentService,
		logger:          log,
	}
}

// Reset wipes the whole index. Destructive, admin surface only.
func (s *adminService) Reset(ctx context.Context) (*dto.ResetResponse, error) {
	return s.documentService.Reset(ctx)
}

// GetSystemLogs retrieves system logs
func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	logs, err := s.logger.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	var res []*dto.LogListResponse
	for _, l := range logs {
		ts, _ := time.Parse(time.RFC3339, l.Timestamp)
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		})
	}
	return res, nil
}

// GetLogDetail retrieves a single log entry
func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	l, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, err
	}

	ts, _ := time.Parse(time.RFC3339, l.Timestamp)

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        logId,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		},
		Details: l.Details,
	}, nil
}
