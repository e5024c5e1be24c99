package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/services/account"
	"github.com/sthapati/sthapati_be/internal/store"
)

type Users interface {
	ByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	List(ctx context.Context, f store.UserFilter, p store.Page) ([]models.User, int64, error)
}

type Announcements interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

var errUnknownCommand = errors.New("unknown command")

type CLI struct {
	Users         Users
	Announcements Announcements
	Out           io.Writer
	Now           func() time.Time
}

func (c *CLI) Run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list-users":
		return c.listUsers(ctx, args)
	case "set-status":
		return c.setStatus(ctx, args)
	case "make-admin":
		return c.makeAdmin(ctx, args)
	case "recompute-profile":
		return c.recomputeProfiles(ctx)
	case "purge-announcements":
		return c.purgeAnnouncements(ctx)
	}
	return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (c *CLI) listUsers(ctx context.Context, args []string) error {
	fs := newFlags("list-users")
	status := fs.String("status", "", "filter by status (none for unregistered)")
	category := fs.String("category", "", "filter by category")
	q := fs.String("q", "", "search name or email")
	limit := fs.Int("limit", 50, "rows to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f := store.UserFilter{Query: *q}
	if *status != "" {
		st, err := parseStatus(*status)
		if err != nil {
			return err
		}
		f.Status = &st
	}
	if *category != "" {
		cat, ok := models.ParseCategory(*category)
		if !ok {
			return fmt.Errorf("unknown category %q", *category)
		}
		f.Category = cat
	}

	users, total, err := c.Users.List(ctx, f, store.NewPage(1, *limit))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tCATEGORY\tSTATUS\tADMIN\tCOMPLETE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%t\n",
			u.ID, u.Email, u.Name, u.Category, statusLabel(u.Status), u.IsAdmin, u.IsProfileComplete)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "%d of %d users\n", len(users), total)
	return nil
}

func (c *CLI) setStatus(ctx context.Context, args []string) error {
	fs := newFlags("set-status")
	ref := fs.String("user", "", "email or id")
	status := fs.String("status", "", "new status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st, err := parseStatus(*status)
	if err != nil {
		return err
	}
	if st == models.StatusNone {
		return errors.New("use -status pending|active|rejected|banned")
	}

	u, err := c.findUser(ctx, *ref)
	if err != nil {
		return err
	}
	from := u.Status
	u.Status = st
	if err := c.Users.Save(ctx, u); err != nil {
		return err
	}
	zap.L().Info("status set by operator",
		zap.Stringer("user", u.ID), zap.String("from", string(from)), zap.String("to", string(st)))
	fmt.Fprintf(c.Out, "%s: %s -> %s\n", u.Email, statusLabel(from), st)
	return nil
}

func (c *CLI) makeAdmin(ctx context.Context, args []string) error {
	fs := newFlags("make-admin")
	ref := fs.String("user", "", "email or id")
	revoke := fs.Bool("revoke", false, "remove admin access instead")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := c.findUser(ctx, *ref)
	if err != nil {
		return err
	}
	u.IsAdmin = !*revoke
	if err := c.Users.Save(ctx, u); err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "%s: admin=%t\n", u.Email, u.IsAdmin)
	return nil
}

func (c *CLI) recomputeProfiles(ctx context.Context) error {
	var scanned, changed int
	for page := 1; ; page++ {
		users, total, err := c.Users.List(ctx, store.UserFilter{}, store.NewPage(page, store.MaxLimit))
		if err != nil {
			return err
		}
		for i := range users {
			scanned++
			if !account.RefreshProfileComplete(&users[i]) {
				continue
			}
			if err := c.Users.Save(ctx, &users[i]); err != nil {
				return fmt.Errorf("save %s: %w", users[i].ID, err)
			}
			changed++
		}
		if len(users) == 0 || int64(scanned) >= total {
			break
		}
	}
	fmt.Fprintf(c.Out, "scanned %d users, updated %d\n", scanned, changed)
	return nil
}

func (c *CLI) purgeAnnouncements(ctx context.Context) error {
	n, err := c.Announcements.PurgeExpired(ctx, c.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "purged %d announcements\n", n)
	return nil
}

func (c *CLI) findUser(ctx context.Context, ref string) (*models.User, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("-user is required")
	}
	var (
		u   *models.User
		err error
	)
	if id, perr := uuid.Parse(ref); perr == nil {
		u, err = c.Users.ByID(ctx, id)
	} else {
		u, err = c.Users.ByEmail(ctx, strings.ToLower(ref))
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no user %q", ref)
	}
	return u, err
}

func parseStatus(s string) (models.Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" {
		return models.StatusNone, nil
	}
	st := models.Status(s)
	if st == models.StatusNone || !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

func statusLabel(s models.Status) string {
	if s == models.StatusNone {
		return "none"
	}
	return string(s)
}
