package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

// Watcher re-runs the handler whenever a watched archive's ETag changes.
type Watcher struct {
	store   ObjectStore
	handler *SyncHandler

	lock sync.Mutex
	seen map[string]string
}

func NewWatcher(store ObjectStore, handler *SyncHandler) *Watcher {
	return &Watcher{
		store:   store,
		handler: handler,
		seen:    make(map[string]string),
	}
}

// Check looks at the archive once. The first ETag seen triggers a Create,
// a different one an Update.
func (w *Watcher) Check(ctx context.Context, wc WatchConfig) error {
	info, headErr := w.store.HeadObject(ctx, wc.Bucket, wc.ArchiveKey)
	if headErr != nil {
		log.Debug(fmt.Sprintf("Archive %s/%s not available: %s", wc.Bucket, wc.ArchiveKey, headErr))
		return headErr
	}

	seenKey := wc.Bucket + "/" + wc.ArchiveKey
	w.lock.Lock()
	lastETag, ok := w.seen[seenKey]
	w.lock.Unlock()
	if ok && lastETag == info.ETag {
		log.Debug(fmt.Sprintf("Archive %s unchanged", seenKey))
		return nil
	}

	action := ActionUpdate
	if !ok {
		action = ActionCreate
	}
	handleErr := w.handler.Handle(ctx, InvocationRequest{
		Action:     action,
		Bucket:     wc.Bucket,
		ArchiveKey: wc.ArchiveKey,
		ObjectACL:  wc.ObjectAcl,
	})
	if handleErr != nil {
		return handleErr
	}

	w.lock.Lock()
	w.seen[seenKey] = info.ETag
	w.lock.Unlock()

	return nil
}

// Schedule registers one singleton job per watched archive. The caller
// starts and stops the scheduler.
func (w *Watcher) Schedule(ctx context.Context, configs []WatchConfig) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.UTC)

	for _, wc := range configs {
		interval := wc.Interval
		if interval <= 0 {
			interval = 60
		}
		_, jobErr := scheduler.Every(interval).Seconds().SingletonMode().Do(func(wc WatchConfig) {
			if err := w.Check(ctx, wc); err != nil {
				log.Warn(fmt.Sprintf("Watch of %s/%s: %s", wc.Bucket, wc.ArchiveKey, err))
			}
		}, wc)
		if jobErr != nil {
			return nil, fmt.Errorf("Error scheduling watch for %s/%s: %w", wc.Bucket, wc.ArchiveKey, jobErr)
		}
		log.Info(fmt.Sprintf("Watching %s/%s every %ds", wc.Bucket, wc.ArchiveKey, interval))
	}

	return scheduler, nil
}
