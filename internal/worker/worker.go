package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storesync/internal/config"
	"storesync/internal/events"
	"storesync/internal/logger"

	"github.com/robfig/cron/v3"
	"github.com/segmentio/kafka-go"
)

// Worker drives the two external trigger paths: the cron schedule and the
// opportunistic sync-requests topic. Both end up as HTTP calls against the
// API server, where the coordinator enforces single flight.
type Worker struct {
	config     *config.Config
	logger     *logger.Logger
	reader     *kafka.Reader
	cron       *cron.Cron
	httpClient *http.Client
}

func New(cfg *config.Config, logger *logger.Logger) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		GroupID:        "storesync-worker",
		Topic:          events.SyncRequestsTopic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: logger,
		reader: reader,
		cron:   cron.New(),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.config.SyncSchedule, func() {
		w.logger.Info("Scheduled sync firing")
		if err := w.triggerCron(); err != nil {
			w.logger.Error("Scheduled sync failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", w.config.SyncSchedule, err)
	}
	w.cron.Start()

	go w.consume()

	w.logger.Info("Worker started (schedule %q)", w.config.SyncSchedule)
	return nil
}

// consume reads sync.requested events and forwards each as a manual trigger
// call. A rejected concurrent run is fine: somebody else is already syncing.
func (w *Worker) consume() {
	for {
		message, err := w.reader.ReadMessage(context.Background())
		if err != nil {
			if err == io.EOF {
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			time.Sleep(time.Second)
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}
		if event.Type != events.EventSyncRequested {
			w.logger.Debug("Ignoring event type %s", event.Type)
			continue
		}

		w.logger.Info("Sync requested by %s at %s", event.Origin, event.Timestamp.Format(time.RFC3339))
		if err := w.triggerManual(event.Origin); err != nil {
			w.logger.Error("Forwarded sync failed: %v", err)
		}
	}
}

func (w *Worker) triggerManual(origin string) error {
	url := fmt.Sprintf("%s?origin=%s", w.config.SyncEndpoint, origin)
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", w.config.SyncAPIKey)
	return w.post(req)
}

func (w *Worker) triggerCron() error {
	req, err := http.NewRequest(http.MethodPost, w.config.SyncEndpoint+"/cron", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.config.CronSecret)
	return w.post(req)
}

func (w *Worker) post(req *http.Request) error {
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("trigger request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusConflict:
		w.logger.Info("Sync already running, trigger skipped")
		return nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("trigger returned %d: %s", resp.StatusCode, string(body))
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.cron.Stop()
	w.reader.Close()
}
