package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johns/vibe-reflect/internal/check"
	"github.com/johns/vibe-reflect/internal/gitlog"
	"github.com/johns/vibe-reflect/internal/memory"
	"github.com/johns/vibe-reflect/internal/timeline"
)

// sources holds the opened observation transports and git reader.
type sources struct {
	api   *memory.Client
	db    *memory.DB
	git   *gitlog.Reader
	gitOK bool
}

func openSources() *sources {
	s := &sources{
		git:   gitlog.NewReader(logger),
		gitOK: gitlog.Available(),
	}
	if !cfg.Memory.Enabled {
		return s
	}
	s.api = memory.NewClient(cfg.Memory.Host, cfg.Memory.Port, cfg.Memory.Timeout())
	db, err := memory.OpenDB(cfg.Memory.DBPath)
	if err != nil {
		logger.Debug("claude-mem database unavailable", zap.String("path", cfg.Memory.DBPath), zap.Error(err))
	} else {
		s.db = db
		logger.Debug("claude-mem database opened", zap.String("path", db.Path()))
	}
	return s
}

func (s *sources) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// transports returns the non-nil transports as interface values.
func (s *sources) transports() (api, db memory.Transport) {
	if s.api != nil {
		api = s.api
	}
	if s.db != nil {
		db = s.db
	}
	return api, db
}

func (s *sources) checkSources() check.Sources {
	api, db := s.transports()
	dbPath := cfg.Memory.DBPath
	if s.db != nil {
		dbPath = s.db.Path()
	}
	return check.Sources{
		API:    api,
		APIURL: fmt.Sprintf("http://%s:%d", cfg.Memory.Host, cfg.Memory.Port),
		DB:     db,
		DBPath: dbPath,
		GitOK:  s.gitOK,
	}
}

// aggregator builds a timeline aggregator. When no observation transport
// responds it runs git-only.
func (s *sources) aggregator(ctx context.Context) (*timeline.Aggregator, memory.Availability) {
	api, db := s.transports()
	svc := memory.NewService(api, db, logger)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Memory.Timeout())
	avail := svc.Availability(pingCtx, s.gitOK)
	cancel()

	var fetcher timeline.ObservationFetcher
	if avail.HasMemory() {
		fetcher = svc
	} else if cfg.Memory.Enabled {
		logger.Warn("claude-mem unreachable, using git history only", zap.String("availability", string(avail)))
	}

	var git timeline.CommitReader
	if s.gitOK {
		git = s.git
	}

	a := timeline.New(fetcher, git,
		timeline.WithLogger(logger),
		timeline.WithSampleThreshold(cfg.Sampling.Threshold),
		timeline.WithMaxCommits(cfg.Git.MaxCommits),
		timeline.WithLocation(time.Local),
	)
	return a, avail
}

func today() string {
	return time.Now().Format("2006-01-02")
}
