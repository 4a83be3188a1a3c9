package service

import (
	"context"

	"meetups.app/worker"
)

// Background task names shared between submitters and handler registration
const (
	TaskSendVerificationEmail = "send_verification_email"
	TaskCreateCSVReport       = "create_csv_report"
	TaskCreatePDFReport       = "create_pdf_report"
)

// PoolSubmitter adapts the worker pool to the task submission interface
type PoolSubmitter struct {
	Pool *worker.Pool
}

// Submit enqueues a task on the underlying pool
func (p PoolSubmitter) Submit(ctx context.Context, name string, payload interface{}) (TaskHandle, error) {
	return p.Pool.Submit(ctx, name, payload)
}

var _ TaskSubmitterInterface = PoolSubmitter{}
