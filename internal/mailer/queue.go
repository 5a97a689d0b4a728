package mailer

import (
	"context"
	"errors"
	"sync"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"go.uber.org/zap"
)

var (
	ErrQueueFull   = errors.New("mail queue is full")
	ErrQueueClosed = errors.New("mail queue is closed")
)

type mailJob struct {
	ctx          context.Context
	to           string
	notification domain.Notification
}

// Queue sends notification e-mails from a fixed pool of workers so callers
// never wait on SMTP. It implements domain.NotificationMailer.
type Queue struct {
	next   domain.NotificationMailer
	jobs   chan mailJob
	logger *logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewQueue buffers up to size messages in front of next.
func NewQueue(next domain.NotificationMailer, size int, log *logger.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		next:   next,
		jobs:   make(chan mailJob, size),
		logger: log.Named("MailQueue"),
	}
}

// Start launches workers goroutines. They exit once Close has been called and
// the buffer is drained.
func (q *Queue) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
}

func (q *Queue) work() {
	defer q.wg.Done()
	for job := range q.jobs {
		if err := q.next.SendNotification(job.ctx, job.to, job.notification); err != nil {
			q.logger.Warn("Failed to send queued notification e-mail",
				zap.Int64("notification_id", job.notification.ID),
				zap.Error(err))
		}
	}
}

// SendNotification enqueues the message and returns immediately. The request
// context is detached from cancellation so trace values survive the response.
func (q *Queue) SendNotification(ctx context.Context, toEmail string, n domain.Notification) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- mailJob{ctx: context.WithoutCancel(ctx), to: toEmail, notification: n}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits until the workers have sent what is
// buffered or ctx expires.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		q.logger.Warn("Mail queue closed before drain", zap.Int("pending", len(q.jobs)))
		return ctx.Err()
	}
}
