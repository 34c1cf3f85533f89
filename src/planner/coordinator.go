package planner

import (
	"context"
	"errors"
	"sync"

	"dutycal/src/models"
)

// ErrNoValidEvents means no batch item survived template mapping.
var ErrNoValidEvents = errors.New("no valid events to add")

const defaultMaxConcurrent = 5

type task struct {
	date    string
	summary string
	colorID string
}

// Coordinator maps a validated batch onto event templates and dispatches
// every creation concurrently. The batch outcome is all-or-nothing: one
// failed creation fails the whole batch, but events already created
// upstream are not removed.
type Coordinator struct {
	creator       models.EventCreator
	maxConcurrent int
}

func NewCoordinator(creator models.EventCreator, maxConcurrent int) *Coordinator {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Coordinator{
		creator:       creator,
		maxConcurrent: maxConcurrent,
	}
}

func (co *Coordinator) AddEvents(ctx context.Context, creds *models.Credentials, items []models.EventItem) (*models.BatchResult, error) {
	tasks := make([]task, 0, len(items))
	added := make([]models.AddedEvent, 0, len(items))

	for _, item := range items {
		tpl, ok := TemplateFor(item.Type)
		if !ok {
			continue
		}
		tasks = append(tasks, task{date: item.Date, summary: tpl.Summary, colorID: tpl.ColorID})
		added = append(added, models.AddedEvent{Summary: tpl.Summary, Date: item.Date})
	}

	if len(tasks) == 0 {
		return nil, ErrNoValidEvents
	}

	// Fan out behind a bounded worker pool. Every call settles before
	// the outcome is aggregated; nothing in flight is cancelled when a
	// sibling fails.
	errs := make([]error, len(tasks))
	workerPool := make(chan struct{}, co.maxConcurrent)
	var wg sync.WaitGroup

	for i, t := range tasks {
		wg.Add(1)
		go func(i int, t task) {
			defer wg.Done()

			workerPool <- struct{}{}
			defer func() { <-workerPool }()

			errs[i] = co.creator.CreateEvent(ctx, creds, t.date, t.summary, t.colorID)
		}(i, t)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &models.BatchResult{
		Count: len(tasks),
		Added: added,
	}, nil
}
