package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/realtime"
)

type Pusher interface {
	SendToUser(userID uuid.UUID, ev realtime.Event)
	Broadcast(ev realtime.Event)
}

type Publisher interface {
	Publish(ctx context.Context, userID uuid.UUID, ev realtime.Event) error
}

// Notifier tells users about account and announcement changes over email,
// the websocket hub and the redis notification channel. Delivery failures are
// logged and never fail the caller.
type Notifier struct {
	Mailer    Mailer
	Hub       Pusher
	Publisher Publisher
}

var statusSubjects = map[models.Status]string{
	models.StatusActive:   "Your Sthāpati account is active",
	models.StatusRejected: "Your Sthāpati registration was not approved",
	models.StatusBanned:   "Your Sthāpati account has been suspended",
}

func (n *Notifier) AccountStatusChanged(ctx context.Context, u *models.User, from models.Status) {
	ev := realtime.Event{
		Type: realtime.EventAccountStatus,
		Data: map[string]any{"userId": u.ID, "from": from, "status": u.Status},
	}
	n.push(ctx, u.ID, ev)

	if n.Mailer == nil {
		return
	}
	subject, ok := statusSubjects[u.Status]
	if !ok {
		subject = "Your Sthāpati account status changed"
	}
	body := fmt.Sprintf("<p>Hello %s,</p><p>Your account status is now <b>%s</b>.</p>",
		html.EscapeString(u.Name), html.EscapeString(string(u.Status)))
	go func(to string) {
		if err := n.Mailer.Send(to, subject, body); err != nil {
			zap.L().Warn("status mail failed", zap.String("to", to), zap.Error(err))
		}
	}(u.Email)
}

func (n *Notifier) AnnouncementPublished(a *models.Announcement) {
	if n.Hub == nil {
		return
	}
	n.Hub.Broadcast(realtime.Event{Type: realtime.EventAnnouncement, Data: a})
}

func (n *Notifier) push(ctx context.Context, userID uuid.UUID, ev realtime.Event) {
	if n.Hub != nil {
		n.Hub.SendToUser(userID, ev)
	}
	if n.Publisher != nil {
		if err := n.Publisher.Publish(ctx, userID, ev); err != nil {
			zap.L().Warn("notification publish failed", zap.Stringer("user", userID), zap.Error(err))
		}
	}
}
