// Command sthapati-admin runs operator tasks against the Sthāpati database
// using the same configuration as the API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sthapati/sthapati_be/internal/config"
	"github.com/sthapati/sthapati_be/internal/db"
	"github.com/sthapati/sthapati_be/internal/logger"
	"github.com/sthapati/sthapati_be/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.MustLoad()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(cfg.DBDSN, false)
	if err != nil {
		log.Fatal("database connect", zap.Error(err))
	}
	st := store.New(gdb)

	cli := &CLI{
		Users:         st.Users,
		Announcements: st.Announcements,
		Out:           os.Stdout,
		Now:           time.Now,
	}
	if err := cli.Run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: sthapati-admin <command> [flags]

commands:
  list-users           -status -category -q -limit
  set-status           -user <email|id> -status <pending|active|rejected|banned>
  make-admin           -user <email|id> [-revoke]
  recompute-profile    recompute isProfileComplete for every user
  purge-announcements  delete announcements older than 24h
`)
}
