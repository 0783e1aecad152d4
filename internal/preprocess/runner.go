package preprocess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"critique/internal/catalog"
	"critique/internal/config"
	"critique/internal/logging"
	"critique/internal/metadata"
	"critique/internal/pipeline"
	"critique/internal/store"
)

// ErrRunInProgress reports that another run holds the lock.
var ErrRunInProgress = errors.New("preprocess run already in progress")

// Store is the persistence the runner needs.
type Store interface {
	metadata.Source
	Denylist(ctx context.Context) (catalog.Denylist, error)
	ReviewsForPreprocess(ctx context.Context) ([]*store.Review, error)
	UpdateNormalized(ctx context.Context, id int64, text string) error
	SaveSentences(ctx context.Context, reviewID int64, sentences []store.NewSentence) error
	MarkReview(ctx context.Context, id int64, status store.Status, message string) error
}

// Summary reports the outcome of one run.
type Summary struct {
	RunID      string        `json:"run_id"`
	Reviews    int           `json:"reviews"`
	Normalized int           `json:"normalized"`
	Processed  int           `json:"processed"`
	Failed     int           `json:"failed"`
	Requeued   int           `json:"requeued"`
	Sentences  int           `json:"sentences"`
	Warnings   int           `json:"warnings"`
	Duration   time.Duration `json:"duration"`
}

// Runner processes pending reviews.
type Runner struct {
	store    Store
	models   *pipeline.Models
	workers  int
	metaOpts metadata.Options
	lock     *flock.Flock
	logger   *slog.Logger
	progress *logging.ProgressSampler
}

// New returns a Runner configured from cfg.
func New(cfg *config.Config, st Store, models *pipeline.Models, logger *slog.Logger) (*Runner, error) {
	if cfg == nil || st == nil || models == nil {
		return nil, errors.New("preprocess runner requires config, store and models")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := cfg.Batch.Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		store:    st,
		models:   models,
		workers:  workers,
		metaOpts: metadata.Options{IncludeFirstNames: cfg.Pipeline.IncludeFirstNames},
		lock:     flock.New(cfg.Paths.LockPath),
		logger:   logging.NewComponentLogger(logger, "preprocess"),
		progress: logging.NewProgressSampler(10),
	}, nil
}

type counters struct {
	mu sync.Mutex
	Summary
	done int
}

// Run processes every review waiting in the store. It returns
// ErrRunInProgress when another run holds the lock.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	locked, err := r.lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return Summary{}, ErrRunInProgress
	}
	defer func() {
		if err := r.lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	start := time.Now()
	c := &counters{Summary: Summary{RunID: uuid.NewString()}}
	ctx = logging.WithRunID(ctx, c.RunID)
	logger := logging.WithContext(ctx, r.logger)
	r.progress.Reset()

	reviews, err := r.store.ReviewsForPreprocess(ctx)
	if err != nil {
		return c.Summary, fmt.Errorf("load reviews: %w", err)
	}
	c.Reviews = len(reviews)
	logger.Info("preprocess run started", logging.Int("reviews", len(reviews)), logging.Int("workers", r.workers))
	if len(reviews) == 0 {
		c.Duration = time.Since(start)
		return c.Summary, nil
	}

	reviews = r.normalizeAll(ctx, logger, reviews, c)

	deny, err := r.store.Denylist(ctx)
	if err != nil {
		return c.Summary, fmt.Errorf("load denylist: %w", err)
	}
	resolver := metadata.NewResolver(r.store, deny)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, group := range groupByWork(reviews) {
		work, err := pipeline.ResolveWork(gctx, resolver, group.workID, r.metaOpts)
		if err != nil {
			for _, rv := range group.reviews {
				r.fail(ctx, logger, rv, c, err)
			}
			continue
		}
		for _, rv := range group.reviews {
			g.Go(func() error {
				r.processReview(gctx, rv, work, c)
				return gctx.Err()
			})
		}
	}
	waitErr := g.Wait()

	c.Duration = time.Since(start)
	logger.Info("preprocess run finished",
		logging.Int("processed", c.Processed),
		logging.Int("failed", c.Failed),
		logging.Int("requeued", c.Requeued),
		logging.Int("sentences", c.Sentences),
		logging.Duration("duration", c.Duration),
	)
	if waitErr != nil {
		return c.Summary, waitErr
	}
	return c.Summary, nil
}

// normalizeAll saves normalized text for pending reviews and returns the
// reviews ready for the remaining stages.
func (r *Runner) normalizeAll(ctx context.Context, logger *slog.Logger, reviews []*store.Review, c *counters) []*store.Review {
	ready := make([]*store.Review, 0, len(reviews))
	for _, rv := range reviews {
		if rv.Status == store.StatusPending {
			text := r.models.Normalize(rv.RawText)
			if err := r.store.UpdateNormalized(ctx, rv.ID, text); err != nil {
				r.fail(ctx, logger, rv, c, fmt.Errorf("save normalized text: %w", err))
				continue
			}
			rv.NormalizedText = text
			rv.Status = store.StatusNormalized
			c.Normalized++
		}
		ready = append(ready, rv)
	}
	return ready
}

func (r *Runner) processReview(ctx context.Context, rv *store.Review, work pipeline.Work, c *counters) {
	ctx = logging.WithReviewID(ctx, rv.ID)
	logger := logging.WithContext(ctx, r.logger)
	res, err := r.models.Analyze(ctx, rv.NormalizedText, work)
	if err == nil {
		err = r.store.SaveSentences(ctx, rv.ID, toStore(res.Sentences))
	}
	if err != nil {
		r.fail(ctx, logger, rv, c, err)
		return
	}
	logger.Debug("review processed", logging.Int("sentences", len(res.Sentences)), logging.Int("warnings", len(res.Warnings)))

	c.mu.Lock()
	c.Processed++
	c.Sentences += len(res.Sentences)
	c.Warnings += len(res.Warnings)
	c.done++
	r.observe(logger, c.done, c.Reviews)
	c.mu.Unlock()
}

func (r *Runner) fail(ctx context.Context, logger *slog.Logger, rv *store.Review, c *counters, cause error) {
	status := store.FailureStatus(cause)
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		status = store.StatusPending
	}
	if status == store.StatusPending && rv.Status == store.StatusNormalized {
		status = store.StatusNormalized
	}
	if err := r.store.MarkReview(context.WithoutCancel(ctx), rv.ID, status, cause.Error()); err != nil {
		logger.Warn("failed to record review failure", logging.Int64(logging.FieldReviewID, rv.ID), logging.Error(err))
	}

	c.mu.Lock()
	if status == store.StatusFailed {
		c.Failed++
	} else {
		c.Requeued++
	}
	c.done++
	r.observe(logger, c.done, c.Reviews)
	c.mu.Unlock()

	if status == store.StatusFailed {
		logging.WarnWithContext(logger, "review preprocessing failed", "review_failed",
			logging.Int64(logging.FieldReviewID, rv.ID),
			logging.String(logging.FieldWorkID, rv.WorkID),
			logging.String("error_kind", pipeline.ErrorKind(cause)),
			logging.Error(cause),
			logging.String(logging.FieldErrorHint, "run 'critique reviews retry' after fixing the cause"),
			logging.String(logging.FieldImpact, "review skipped in this run"),
		)
	}
}

// observe must be called with c.mu held so samples arrive in order.
func (r *Runner) observe(logger *slog.Logger, done, total int) {
	if r.progress.Observe("analyze", done, total) {
		logger.Info("preprocess progress", logging.Int("done", done), logging.Int("total", total))
	}
}

type workGroup struct {
	workID  string
	reviews []*store.Review
}

// groupByWork keeps first-seen work order and review order within a work.
func groupByWork(reviews []*store.Review) []workGroup {
	var groups []workGroup
	index := make(map[string]int)
	for _, rv := range reviews {
		i, ok := index[rv.WorkID]
		if !ok {
			i = len(groups)
			index[rv.WorkID] = i
			groups = append(groups, workGroup{workID: rv.WorkID})
		}
		groups[i].reviews = append(groups[i].reviews, rv)
	}
	return groups
}

func toStore(sentences []pipeline.Sentence) []store.NewSentence {
	out := make([]store.NewSentence, len(sentences))
	for i, s := range sentences {
		words := make([]store.NewWord, len(s.Words))
		for j, w := range s.Words {
			words[j] = store.NewWord{Text: w.Text, POS: w.POS, Clause: w.Clause}
		}
		out[i] = store.NewSentence{
			Text:     s.Text,
			Negative: s.Polarity.Negative,
			Neutral:  s.Polarity.Neutral,
			Positive: s.Polarity.Positive,
			Compound: s.Polarity.Compound,
			Words:    words,
		}
	}
	return out
}
