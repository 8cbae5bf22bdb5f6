package importer

import (
	"context"
	"fmt"

	"github.com/cleared-dev/bankfeed/internal/bankformat"
	"github.com/cleared-dev/bankfeed/internal/dedup"
	"github.com/cleared-dev/bankfeed/internal/logger"
	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/store"
	"github.com/cleared-dev/bankfeed/internal/tokenizer"
)

// ManualSignature is the SignatureID recorded for caller-supplied mappings.
const ManualSignature = "manual"

// Session is the state of one file import. Each pipeline stage reads and
// advances it; nothing else holds import state.
type Session struct {
	UserID    string
	AccountID int
	Filename  string

	// Mapping overrides detection when non-nil.
	Mapping        *model.ColumnMapping
	SkipDuplicates bool

	Table     *tokenizer.Table
	Detection bankformat.Detection
	Build     BuildResult
	Dedup     dedup.Result
	ToImport  []model.Candidate
	Batch     model.ImportBatch
	Report    Report
}

// Counts is the caller-facing summary of a session.
type Counts struct {
	TotalRows  int
	Valid      int
	Duplicates int
	Imported   int
	Failed     int
}

// Counts summarizes the session so far.
func (s *Session) Counts() Counts {
	return Counts{
		TotalRows:  s.Build.Stats.Total,
		Valid:      len(s.Build.Candidates),
		Duplicates: len(s.Dedup.Duplicates),
		Imported:   s.Report.Success,
		Failed:     s.Report.FailedCount,
	}
}

// Pipeline holds the collaborators and settings shared by all sessions.
type Pipeline struct {
	Store        store.Store
	Detector     *bankformat.Detector
	BuildOptions BuildOptions
	BatchSize    int
	// LookbackDays widens the fingerprint fetch window backwards.
	LookbackDays int
	OnProgress   func(percent int)
}

// NewSession starts a session with duplicates skipped.
func (p *Pipeline) NewSession(userID string, accountID int, filename string) *Session {
	return &Session{
		UserID:         userID,
		AccountID:      accountID,
		Filename:       filename,
		SkipDuplicates: true,
	}
}

// Tokenize splits the file text into s.Table.
func (p *Pipeline) Tokenize(s *Session, text string) error {
	t, err := tokenizer.Tokenize(text)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.Filename, err)
	}
	s.Table = t
	return nil
}

// Detect picks the column mapping, preferring a manual one.
func (p *Pipeline) Detect(s *Session) error {
	if s.Mapping != nil {
		s.Detection = bankformat.Detection{SignatureID: ManualSignature, Mapping: *s.Mapping}
		return nil
	}
	det := p.Detector
	if det == nil {
		det = bankformat.DefaultDetector()
	}
	d, ok := det.Detect(s.Table.Headers)
	if !ok {
		return fmt.Errorf("detecting columns of %s (headers %v): %w", s.Filename, s.Table.Headers, ErrNoMapping)
	}
	s.Detection = d
	return nil
}

// BuildCandidates turns rows into candidates.
func (p *Pipeline) BuildCandidates(s *Session) error {
	if _, err := ResolveMapping(s.Table.Headers, s.Detection.Mapping); err != nil {
		return fmt.Errorf("mapping %s: %w", s.Filename, err)
	}
	s.Build = Build(s.Table, s.Detection.Mapping, p.BuildOptions)
	logger.Get().Infow("built candidates",
		"file", s.Filename,
		"summary", s.Build.Stats.Summary(),
		"short_rows", s.Build.Stats.ShortRows,
		"zero_amount", s.Build.Stats.ZeroAmount,
		"unparsed_date", s.Build.Stats.UnparsedDate,
	)
	return nil
}

// Dedup flags candidates already in the store and selects what to import.
func (p *Pipeline) Dedup(ctx context.Context, s *Session) error {
	cands := s.Build.Candidates
	from, to, ok := dedup.Window(cands, p.LookbackDays)
	if !ok {
		s.Dedup = dedup.Result{}
		s.ToImport = nil
		return nil
	}
	existing, err := p.Store.ListTransactions(ctx, s.UserID, from, to)
	if err != nil {
		return fmt.Errorf("fetching fingerprints: %w", err)
	}
	s.Dedup = dedup.NewSet(existing).Check(cands)
	s.ToImport = s.Dedup.Filter(s.SkipDuplicates, cands)
	if n := len(s.Dedup.Duplicates); n > 0 {
		logger.Get().Infow("duplicates found", "file", s.Filename, "count", n, "skipped", s.SkipDuplicates)
	}
	return nil
}

// Persist records the import batch and writes s.ToImport in chunks. Batch
// metadata is best-effort; a failure there leaves rows without a batch ID.
func (p *Pipeline) Persist(ctx context.Context, s *Session) {
	if len(s.ToImport) == 0 {
		return
	}
	batch, err := p.Store.CreateImportBatch(ctx, s.UserID, s.Filename, len(s.ToImport))
	if err != nil {
		logger.Get().Warnw("import batch not recorded", "file", s.Filename, "error", err)
	} else {
		s.Batch = batch
	}

	ci := &ChunkedImporter{Store: p.Store, BatchSize: p.BatchSize, OnProgress: p.OnProgress}
	s.Report = ci.Import(ctx, s.UserID, s.AccountID, s.Batch.ID, s.ToImport)
	logger.Get().Infow("import finished",
		"file", s.Filename,
		"imported", s.Report.Success,
		"failed", s.Report.FailedCount,
	)
}

// Run executes every stage on text. Structural failures (unreadable file,
// no usable mapping) stop the session before anything is written; batch
// failures are reported in s.Report instead.
func (p *Pipeline) Run(ctx context.Context, s *Session, text string) (Counts, error) {
	if err := p.Tokenize(s, text); err != nil {
		return s.Counts(), err
	}
	if err := p.Detect(s); err != nil {
		return s.Counts(), err
	}
	logger.Get().Infow("import started",
		"user", s.UserID,
		"file", s.Filename,
		"delimiter", string(s.Table.Delimiter),
		"signature", s.Detection.SignatureID,
	)
	if err := p.BuildCandidates(s); err != nil {
		return s.Counts(), err
	}
	if err := p.Dedup(ctx, s); err != nil {
		return s.Counts(), err
	}
	p.Persist(ctx, s)
	return s.Counts(), nil
}
