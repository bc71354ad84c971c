package telegram

import (
	"context"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// messageRequest is one text turn waiting for a worker.
type messageRequest struct {
	ctx      context.Context
	userID   int64
	username string
	text     string
	chatID   int64
	message  *tgbotapi.Message
}

const (
	maxRequestsPerSecond   = 3
	requestQueueSize       = 100
	defaultWorkerCount     = 30
	turnTimeout            = 45 * time.Second
	rateLimiterCleanupTime = 5 * time.Minute
	rateLimiterMaxIdleTime = 10 * time.Minute
)

// workerPool processes text turns in parallel with per-user rate limiting,
// so one chatty user cannot starve everyone else.
type workerPool struct {
	requestQueue chan *messageRequest
	workerCount  int
	handler      *Handler
	wg           sync.WaitGroup

	rateLimiterMu sync.Mutex
	rateLimiter   map[int64]*userRateLimit
}

type userRateLimit struct {
	lastRequest  time.Time
	requestCount int
}

func newWorkerPool(handler *Handler, workerCount int) *workerPool {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	return &workerPool{
		requestQueue: make(chan *messageRequest, requestQueueSize),
		workerCount:  workerCount,
		handler:      handler,
		rateLimiter:  make(map[int64]*userRateLimit),
	}
}

func (wp *workerPool) start(ctx context.Context) {
	log.Printf("starting %d message workers", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
	go wp.cleanupRateLimits(ctx)
}

func (wp *workerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-wp.requestQueue:
			if !ok {
				return
			}
			if req == nil {
				continue
			}
			if !wp.allow(req.userID) {
				wp.handler.sendMessage(req.chatID, "⚠️ Muitas mensagens de uma vez. Me dá um segundo e tenta de novo.")
				wp.handler.endProcessing(req.userID)
				continue
			}
			wp.process(req)
		}
	}
}

func (wp *workerPool) process(req *messageRequest) {
	ctx, cancel := context.WithTimeout(req.ctx, turnTimeout)
	defer cancel()
	defer wp.handler.endProcessing(req.userID)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic while handling message (user=%d): %v", req.userID, r)
			wp.handler.sendMessage(req.chatID, "⚠️ Algo deu errado por aqui. Tente novamente.")
		}
	}()

	wp.handler.sendTyping(req.chatID)
	wp.handler.processText(ctx, req)
}

// allow applies a fixed-window limit of maxRequestsPerSecond per user.
func (wp *workerPool) allow(userID int64) bool {
	wp.rateLimiterMu.Lock()
	defer wp.rateLimiterMu.Unlock()

	now := time.Now()
	limiter, ok := wp.rateLimiter[userID]
	if !ok || now.Sub(limiter.lastRequest) >= time.Second {
		wp.rateLimiter[userID] = &userRateLimit{lastRequest: now, requestCount: 1}
		return true
	}
	if limiter.requestCount >= maxRequestsPerSecond {
		log.Printf("rate limit exceeded (user=%d)", userID)
		return false
	}
	limiter.requestCount++
	return true
}

func (wp *workerPool) cleanupRateLimits(ctx context.Context) {
	ticker := time.NewTicker(rateLimiterCleanupTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			wp.rateLimiterMu.Lock()
			for userID, limiter := range wp.rateLimiter {
				if now.Sub(limiter.lastRequest) > rateLimiterMaxIdleTime {
					delete(wp.rateLimiter, userID)
				}
			}
			wp.rateLimiterMu.Unlock()
		}
	}
}

func (wp *workerPool) submit(req *messageRequest) bool {
	select {
	case wp.requestQueue <- req:
		return true
	default:
		log.Printf("worker queue full (%d/%d), dropping message from user %d", len(wp.requestQueue), requestQueueSize, req.userID)
		wp.handler.sendMessage(req.chatID, "⚠️ Estou com muitas mensagens agora. Tente de novo em instantes.")
		return false
	}
}

func (wp *workerPool) shutdown() {
	log.Printf("shutting down worker pool, %d messages in queue", len(wp.requestQueue))
	close(wp.requestQueue)
	wp.wg.Wait()
	log.Println("worker pool shut down")
}
