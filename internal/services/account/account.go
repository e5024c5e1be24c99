// Package account holds the account lifecycle rules: which admin actions may
// move a user between statuses, and what phone verification and profile edits
// do to a user.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sthapati/sthapati_be/internal/models"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionBan     Action = "ban"
	ActionUnban   Action = "unban"
)

var ErrIllegalTransition = errors.New("account: illegal status transition")

type transition struct {
	from []models.Status
	to   models.Status
}

var transitions = map[Action]transition{
	ActionApprove: {from: []models.Status{models.StatusPending, models.StatusRejected}, to: models.StatusActive},
	ActionReject:  {from: []models.Status{models.StatusPending}, to: models.StatusRejected},
	ActionBan:     {from: []models.Status{models.StatusPending, models.StatusActive, models.StatusRejected}, to: models.StatusBanned},
	ActionUnban:   {from: []models.Status{models.StatusBanned}, to: models.StatusActive},
}

func ParseAction(s string) (Action, bool) {
	a := Action(s)
	_, ok := transitions[a]
	return a, ok
}

// Next returns the status action leads to from the current status.
func Next(action Action, from models.Status) (models.Status, error) {
	t, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrIllegalTransition, action)
	}
	for _, s := range t.from {
		if s == from {
			return t.to, nil
		}
	}
	return "", fmt.Errorf("%w: cannot %s a user who is %q", ErrIllegalTransition, action, displayStatus(from))
}

func displayStatus(s models.Status) string {
	if s == models.StatusNone {
		return "unregistered"
	}
	return string(s)
}

// InitialStatus is the status of a freshly registered user.
func InitialStatus() models.Status {
	return models.StatusPending
}

// MarkPhoneVerified records a verified phone. A pending user outside the
// Architect category becomes active; Architects keep waiting for an admin.
// It never moves a user out of any other status.
func MarkPhoneVerified(u *models.User) (activated bool) {
	u.PhoneVerified = true
	if u.Status == models.StatusPending && u.Category != models.CategoryArchitect {
		u.Status = models.StatusActive
		return true
	}
	return false
}

// RefreshProfileComplete recomputes the derived flag and reports a change.
func RefreshProfileComplete(u *models.User) bool {
	complete := u.ProfileComplete()
	changed := complete != u.IsProfileComplete
	u.IsProfileComplete = complete
	return changed
}

type Users interface {
	ByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
}

type Notifier interface {
	AccountStatusChanged(ctx context.Context, u *models.User, from models.Status)
}

var ErrSelfBan = errors.New("account: admins cannot ban themselves")

// Service applies admin status actions to stored users.
type Service struct {
	Users    Users
	Notifier Notifier
}

func NewService(users Users, notifier Notifier) *Service {
	return &Service{Users: users, Notifier: notifier}
}

// Apply runs action on target on behalf of actorID and notifies the user.
func (s *Service) Apply(ctx context.Context, actorID, targetID uuid.UUID, action Action) (*models.User, error) {
	if action == ActionBan && actorID == targetID {
		return nil, ErrSelfBan
	}

	u, err := s.Users.ByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	from := u.Status
	to, err := Next(action, from)
	if err != nil {
		return nil, err
	}

	u.Status = to
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}

	zap.L().Info("account status changed",
		zap.Stringer("user", u.ID),
		zap.Stringer("by", actorID),
		zap.String("action", string(action)),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	if s.Notifier != nil {
		s.Notifier.AccountStatusChanged(ctx, u, from)
	}
	return u, nil
}
