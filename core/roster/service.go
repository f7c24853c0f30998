package roster

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/formacion/core"
	"github.com/trezcool/formacion/core/deal"
	"github.com/trezcool/formacion/core/student"
)

var (
	// errors
	ErrSessionNotInDeal = core.NewFieldValidationError("session_id", "session does not belong to this deal")
)

type (
	// SyncOptions tunes a single SyncDeal run.
	SyncOptions struct {
		// SessionID overrides the automatic target. Such manual runs ignore the SignatureMemo.
		SessionID  string    `json:"session_id"`
		NotifyNoop null.Bool `json:"notify_noop"`
	}

	// Preview is what a sync of the deal would do right now.
	Preview struct {
		DealID    string            `json:"deal_id"`
		Roster    Extraction        `json:"roster"`
		Session   *deal.Session     `json:"session"`
		Current   []student.Student `json:"current"`
		Plan      Plan              `json:"plan"`
		Processed bool              `json:"processed"`
	}

	Service interface {
		// Extract returns the roster found in the deal's notes.
		Extract(ctx context.Context, dealID string) (Extraction, error)
		// Preview computes the plan of a sync without applying it. sessionID is optional.
		Preview(ctx context.Context, dealID, sessionID string) (Preview, error)
		SyncDeal(ctx context.Context, dealID string, opts SyncOptions) (Outcome, error)
	}

	service struct {
		deals      deal.Service
		students   student.Service
		syncer     *Syncer
		notifyNoop bool
	}
)

var _ Service = (*service)(nil)

func NewService(deals deal.Service, students student.Service, syncer *Syncer, conf *core.Config) Service {
	return &service{
		deals:      deals,
		students:   students,
		syncer:     syncer,
		notifyNoop: conf.Roster.NotifyNoop,
	}
}

func (svc *service) Extract(ctx context.Context, dealID string) (Extraction, error) {
	dl, err := svc.deals.Get(ctx, dealID)
	if err != nil {
		return Extraction{}, err
	}
	return svc.extract(ctx, dl.ID)
}

func (svc *service) extract(ctx context.Context, dealID string) (Extraction, error) {
	notes, err := svc.deals.Notes(ctx, dealID)
	if err != nil {
		return Extraction{}, err
	}
	return Extract(notes), nil
}

// target resolves the session receiving the students: the one given, which must belong to the deal, or the automatic pick.
func (svc *service) target(ctx context.Context, dealID, sessionID string) (deal.Session, bool, error) {
	if sessionID = core.CleanString(sessionID); sessionID == "" {
		return svc.deals.SyncTarget(ctx, dealID)
	}

	sessions, err := svc.deals.Sessions(ctx, dealID)
	if err != nil {
		return deal.Session{}, false, err
	}
	for _, s := range sessions {
		if s.ID == sessionID {
			return s, true, nil
		}
	}
	return deal.Session{}, false, ErrSessionNotInDeal
}

func (svc *service) Preview(ctx context.Context, dealID, sessionID string) (Preview, error) {
	dl, err := svc.deals.Get(ctx, dealID)
	if err != nil {
		return Preview{}, err
	}
	prv := Preview{
		DealID:  dl.ID,
		Current: []student.Student{},
		Plan:    Plan{ToCreate: []Entry{}, ToUpdate: []Update{}},
	}

	if prv.Roster, err = svc.extract(ctx, dl.ID); err != nil {
		return Preview{}, err
	}
	if prv.Roster.HasRoster() {
		prv.Processed = svc.syncer.Memo().Processed(dl.ID, prv.Roster.Signature.String)
	}

	sess, ok, err := svc.target(ctx, dl.ID, sessionID)
	if err != nil {
		return Preview{}, err
	}
	if !ok {
		return prv, nil
	}
	prv.Session = &sess

	if prv.Current, err = svc.students.QuerySessionStudents(ctx, dl.ID, sess.ID); err != nil {
		return Preview{}, err
	}
	prv.Plan = Diff(prv.Roster.Students, prv.Current)
	return prv, nil
}

// SyncDeal fetches the deal's notes, sessions and students then hands them to the Syncer.
func (svc *service) SyncDeal(ctx context.Context, dealID string, opts SyncOptions) (Outcome, error) {
	dl, err := svc.deals.Get(ctx, dealID)
	if err != nil {
		return Outcome{}, err
	}

	batch := Batch{
		DealID:     dl.ID,
		Manual:     core.CleanString(opts.SessionID) != "",
		NotifyNoop: svc.notifyNoop,
	}
	if opts.NotifyNoop.Valid {
		batch.NotifyNoop = opts.NotifyNoop.Bool
	}

	if batch.Roster, err = svc.extract(ctx, dl.ID); err != nil {
		return Outcome{}, err
	}
	if !batch.Roster.HasRoster() {
		return svc.syncer.Apply(ctx, batch) // skipped
	}
	if !batch.Manual && svc.syncer.Memo().Processed(dl.ID, batch.Roster.Signature.String) {
		out := newOutcome(batch)
		out.skip(ReasonProcessed)
		return out, nil
	}

	sess, ok, err := svc.target(ctx, dl.ID, opts.SessionID)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return svc.syncer.Apply(ctx, batch) // skipped
	}
	batch.SessionID = sess.ID

	if batch.Current, err = svc.students.QuerySessionStudents(ctx, dl.ID, sess.ID); err != nil {
		return Outcome{}, err
	}
	return svc.syncer.Apply(ctx, batch)
}
