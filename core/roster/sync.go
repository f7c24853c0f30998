package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/formacion/core"
	"github.com/trezcool/formacion/core/student"
)

// Sync statuses
const (
	StatusSkipped = "skipped" // trigger conditions not met
	StatusNoop    = "noop"    // session already matches the roster
	StatusApplied = "applied"
	StatusFailed  = "failed" // aborted on an unexpected error; partial changes are kept
)

// Skip reasons
const (
	ReasonNoRoster  = "no roster found in deal notes"
	ReasonNoSession = "no session to receive the students"
	ReasonProcessed = "roster already processed"
)

var (
	// errors
	ErrMissingDeal = errors.New("deal id is required")
)

type (
	// StudentStore is what the Syncer needs to mutate students.
	StudentStore interface {
		// Create fails with student.ErrDuplicateDNI when the DNI is already enrolled in the session.
		Create(ctx context.Context, ns student.NewStudent) (student.Student, error)
		// Update fails with student.ErrNotFound when the student no longer exists.
		Update(ctx context.Context, id string, uu student.UpdateStudent) (student.Student, error)
	}

	// Batch holds everything needed for one sync run.
	Batch struct {
		DealID    string
		SessionID string
		Roster    Extraction
		// Current lists the students enrolled in the session when the run was triggered.
		Current []student.Student
		// Manual runs target a session picked by an operator; they ignore and never touch the SignatureMemo.
		Manual     bool
		NotifyNoop bool
	}

	// Outcome reports the students changed by a run. It is partial when the run failed.
	Outcome struct {
		DealID    string            `json:"deal_id"`
		SessionID string            `json:"session_id"`
		Signature null.String       `json:"signature"`
		Status    string            `json:"status"`
		Reason    string            `json:"reason,omitempty"`
		Created   []student.Student `json:"created"`
		Updated   []student.Student `json:"updated"`
	}

	// Syncer applies rosters to sessions, one student at a time: updates first, then creates.
	// Nothing is rolled back when a run fails midway; DNIs make a retried run skip what was already applied.
	Syncer struct {
		store    StudentStore
		memo     *SignatureMemo
		notifier core.Notifier
		logger   core.Logger
	}
)

func newOutcome(b Batch) Outcome {
	return Outcome{
		DealID:    strings.TrimSpace(b.DealID),
		SessionID: strings.TrimSpace(b.SessionID),
		Signature: b.Roster.Signature,
		Created:   []student.Student{},
		Updated:   []student.Student{},
	}
}

func (out *Outcome) skip(reason string) {
	out.Status = StatusSkipped
	out.Reason = reason
}

// Summary describes the counts of created and updated students.
func (out Outcome) Summary() string {
	return fmt.Sprintf("%d created and %d updated", len(out.Created), len(out.Updated))
}

// NewSyncer returns a Syncer. memo, notifier and logger may be nil.
func NewSyncer(store StudentStore, memo *SignatureMemo, notifier core.Notifier, logger core.Logger) *Syncer {
	if memo == nil {
		memo = NewSignatureMemo()
	}
	if logger == nil {
		logger = discardLogger{}
	}
	return &Syncer{
		store:    store,
		memo:     memo,
		notifier: notifier,
		logger:   logger,
	}
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{}) {}
func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Error(string, ...interface{}) {}
func (discardLogger) Fatal(string, ...interface{}) {}

func (s *Syncer) Memo() *SignatureMemo {
	return s.memo
}

// Apply runs the roster sync described by b.
// The run is skipped when there is no roster or target session, and, unless b.Manual,
// when the same roster signature was already processed for the deal.
// Students deleted or created concurrently are skipped; any other store error aborts the run,
// releases the deal's signature so a later trigger can retry, and is returned with the partial Outcome.
func (s *Syncer) Apply(ctx context.Context, b Batch) (Outcome, error) {
	out := newOutcome(b)
	switch {
	case out.DealID == "":
		return out, ErrMissingDeal
	case !b.Roster.HasRoster():
		out.skip(ReasonNoRoster)
		return out, nil
	case out.SessionID == "":
		out.skip(ReasonNoSession)
		return out, nil
	}

	signature := b.Roster.Signature.String
	if !b.Manual && !s.memo.Claim(out.DealID, signature) {
		out.skip(ReasonProcessed)
		return out, nil
	}

	plan := Diff(b.Roster.Students, b.Current)
	if plan.IsEmpty() {
		out.Status = StatusNoop
		if b.NotifyNoop {
			core.Notify(s.notifier, core.VariantInfo, "Students already up to date with the deal notes")
		}
		return out, nil
	}

	err := s.apply(ctx, out.DealID, out.SessionID, plan, &out)
	if len(out.Created)+len(out.Updated) > 0 {
		core.Notify(s.notifier, core.VariantSuccess, "Students imported from deal notes: "+out.Summary())
	}
	if err != nil {
		out.Status = StatusFailed
		if !b.Manual {
			s.memo.Release(out.DealID, signature)
		}
		core.Notify(s.notifier, core.VariantDanger, fmt.Sprintf("Could not import students from deal notes: %v", err))
		s.logger.Error(fmt.Sprintf("roster sync of deal %s aborted: %v", out.DealID, err), err)
		return out, err
	}

	out.Status = StatusApplied
	s.logger.Info(fmt.Sprintf("roster sync of deal %s into session %s: %s", out.DealID, out.SessionID, out.Summary()))
	return out, nil
}

func (s *Syncer) apply(ctx context.Context, dealID, sessionID string, plan Plan, out *Outcome) error {
	for _, upd := range plan.ToUpdate {
		std, err := s.store.Update(ctx, upd.ID, student.UpdateStudent{
			Nombre:   null.StringFrom(upd.Nombre),
			Apellido: null.StringFrom(upd.Apellido),
		})
		if err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				s.logger.Warn(fmt.Sprintf("roster sync: student %s vanished before its update, skipped", upd.ID))
				continue
			}
			return errors.Wrapf(err, "updating student %s", upd.ID)
		}
		out.Updated = append(out.Updated, std)
	}

	for _, e := range plan.ToCreate {
		std, err := s.store.Create(ctx, student.NewStudent{
			DealID:    dealID,
			SessionID: sessionID,
			Nombre:    e.Nombre,
			Apellido:  e.Apellido,
			DNI:       e.DNI,
		})
		if err != nil {
			if errors.Cause(err) == student.ErrDuplicateDNI {
				s.logger.Warn(fmt.Sprintf("roster sync: DNI %s already enrolled in session %s, skipped", e.DNI, sessionID))
				continue
			}
			return errors.Wrapf(err, "creating student %s", e.DNI)
		}
		out.Created = append(out.Created, std)
	}
	return nil
}
